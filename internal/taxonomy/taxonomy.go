// Package taxonomy holds the fixed failure-category table and the pattern
// detector that classifies raw failure text against it.
//
// Each category is declarative: a target test kind plus an ordered list of
// extraction rules. Adding a category is a new table row; detection and
// synthesis control flow never change.
package taxonomy

import "regexp"

// TestKind is the remedy a category prescribes for its failures.
type TestKind string

const (
	KindBrowser     TestKind = "browser-runtime-check"
	KindLintRule    TestKind = "lint-rule"
	KindInterpreter TestKind = "interpreter-level-check"
	KindManual      TestKind = "manual"
)

// ExtractedKind tags what structured information a rule pulls from a match.
type ExtractedKind string

const (
	UndefinedIdentifier ExtractedKind = "undefined-identifier"
	NullMemberAccess    ExtractedKind = "null-member-access"
	UseBeforeInit       ExtractedKind = "use-before-init"
	NotCallable         ExtractedKind = "not-callable"
	UnexpectedToken     ExtractedKind = "unexpected-token"
	UnterminatedLiteral ExtractedKind = "unterminated-literal"
	MissingModule       ExtractedKind = "missing-module"
	MissingExport       ExtractedKind = "missing-export"
	UndefinedName       ExtractedKind = "undefined-name"
	MissingAttribute    ExtractedKind = "missing-attribute"
	TypeMismatch        ExtractedKind = "type-mismatch"
	SegFault            ExtractedKind = "segfault"
	AccessibilityCrash  ExtractedKind = "accessibility-crash"
	DBOperational       ExtractedKind = "db-operational"
	MissingTable        ExtractedKind = "missing-table"
)

// CategoryUnknown is the sentinel stored on records whose category did not
// match any taxonomy entry.
const CategoryUnknown = "unknown"

// ExtractionRule is a textual pattern plus the kind it extracts.
type ExtractionRule struct {
	Pattern *regexp.Regexp
	Kind    ExtractedKind
}

// Category is one taxonomy entry.
type Category struct {
	Name        string
	Description string
	TestKind    TestKind
	Rules       []ExtractionRule
}

// Rule order within a category is a tie-break, not a correctness requirement:
// the detector takes the first rule that matches. Where one message can match
// two rules (e.g. "no such table" inside an OperationalError), the more
// specific rule is declared first.
var categories = []Category{
	{
		Name:        "interpreted-runtime",
		Description: "JavaScript runtime errors surfaced in the browser",
		TestKind:    KindBrowser,
		Rules: []ExtractionRule{
			{regexp.MustCompile(`Cannot access '([^']+)' before initialization`), UseBeforeInit},
			{regexp.MustCompile(`Cannot read propert(?:y|ies) of (?:null|undefined) \(reading '([^']+)'\)`), NullMemberAccess},
			{regexp.MustCompile(`Cannot read property '([^']+)' of (?:null|undefined)`), NullMemberAccess},
			{regexp.MustCompile(`([A-Za-z_$][\w$.]*) is not a function`), NotCallable},
			{regexp.MustCompile(`([A-Za-z_$][\w$]*) is not defined`), UndefinedIdentifier},
		},
	},
	{
		Name:        "interpreted-syntax",
		Description: "JavaScript syntax errors caught at parse time",
		TestKind:    KindLintRule,
		Rules: []ExtractionRule{
			{regexp.MustCompile(`Unexpected token '?([^'\s]+)'?`), UnexpectedToken},
			{regexp.MustCompile(`(?i)unterminated (?:string|template|regexp) (?:constant|literal)`), UnterminatedLiteral},
			{regexp.MustCompile(`Invalid or unexpected token`), UnterminatedLiteral},
		},
	},
	{
		Name:        "module-import",
		Description: "missing modules or missing exported names",
		TestKind:    KindInterpreter,
		Rules: []ExtractionRule{
			{regexp.MustCompile(`ModuleNotFoundError: No module named '([^']+)'`), MissingModule},
			{regexp.MustCompile(`Cannot find module '([^']+)'`), MissingModule},
			{regexp.MustCompile(`ImportError: cannot import name '([^']+)'`), MissingExport},
			{regexp.MustCompile(`does not provide an export named '([^']+)'`), MissingExport},
		},
	},
	{
		Name:        "general-runtime",
		Description: "Python runtime errors from the backing services",
		TestKind:    KindInterpreter,
		Rules: []ExtractionRule{
			{regexp.MustCompile(`NameError: name '([^']+)' is not defined`), UndefinedName},
			{regexp.MustCompile(`AttributeError: .*has no attribute '([^']+)'`), MissingAttribute},
			{regexp.MustCompile(`TypeError: (.+)`), TypeMismatch},
		},
	},
	{
		Name:        "process-crash",
		Description: "hard process crashes with no safe automated reproduction",
		TestKind:    KindManual,
		Rules: []ExtractionRule{
			{regexp.MustCompile(`(?i)segmentation fault|SIGSEGV`), SegFault},
			{regexp.MustCompile(`(?i)AT-SPI|atk-bridge|accessibility bus`), AccessibilityCrash},
		},
	},
	{
		Name:        "storage",
		Description: "storage-engine operational failures",
		TestKind:    KindManual,
		Rules: []ExtractionRule{
			{regexp.MustCompile(`no such table:? (\w+)`), MissingTable},
			{regexp.MustCompile(`(?i)OperationalError|SQLITE_ERROR`), DBOperational},
		},
	},
}

// Lookup returns the category with the given name, or false if none exists.
func Lookup(name string) (*Category, bool) {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i], true
		}
	}
	return nil, false
}

// Names returns all category names in declaration order.
func Names() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}
