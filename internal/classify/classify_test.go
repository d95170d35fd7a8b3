package classify

import "testing"

func TestGuess(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Uncaught ReferenceError: fooBar is not defined", "interpreted-runtime"},
		{"Cannot access 'x' before initialization", "interpreted-runtime"},
		{"SyntaxError: Unexpected token '}'", "interpreted-syntax"},
		{"ModuleNotFoundError: No module named 'requests'", "module-import"},
		// NameError also contains "is not defined"; the NameError keyword
		// is earlier in the table and must win.
		{"NameError: name 'counter' is not defined", "general-runtime"},
		{"AttributeError: 'NoneType' object has no attribute 'save'", "general-runtime"},
		{"Segmentation fault (core dumped)", "process-crash"},
		{"sqlite3.OperationalError: no such table: users", "storage"},
		{"fooBar is not defined", "interpreted-runtime"},
		{"all tests passed", ""},
	}
	for _, tt := range tests {
		if got := Guess(tt.text); got != tt.want {
			t.Errorf("Guess(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
