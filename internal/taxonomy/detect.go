package taxonomy

// Match is the structured result of running a category's extraction rules
// over raw failure text.
type Match struct {
	Kind     ExtractedKind `json:"extracted_kind"`
	TestKind TestKind      `json:"test_kind"`
	Raw      string        `json:"raw_match"`
	Captures []string      `json:"captures"`
}

// Detect applies the category's extraction rules in declared order and
// returns the first match, or nil if the category is unknown or no rule
// matches. A nil result is not an error: it is the documented
// "cannot auto-synthesize" outcome.
func Detect(text, category string) *Match {
	cat, ok := Lookup(category)
	if !ok {
		return nil
	}
	for _, rule := range cat.Rules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return &Match{
			Kind:     rule.Kind,
			TestKind: cat.TestKind,
			Raw:      m[0],
			Captures: m[1:],
		}
	}
	return nil
}
