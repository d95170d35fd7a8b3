package synth

import "text/template"

// fragmentData feeds the source templates. Ident is the first capture,
// escaped for embedding in quoted string literals; Accessor is the
// conventional get-accessor name for the identifier.
type fragmentData struct {
	Name     string
	Ident    string
	Accessor string
	Raw      string
}

var undefinedIdentifierTmpl = template.Must(template.New("undefined-identifier").Parse(
	`// {{.Name}} - regression guard for: {{.Raw}}
// The identifier must stay reachable as a bare reference, as the
// conventional accessor {{.Accessor}}(), or as a window global. Fixes often
// replace a bare variable with an accessor of a predictable name; the check
// fails only when all three lookups fail.
async function {{.Name}}(page) {
  const reachable = await page.evaluate(() => {
    try {
      if (typeof eval('{{.Ident}}') !== 'undefined') return true;
    } catch (e) {}
    if (typeof window['{{.Accessor}}'] === 'function') return true;
    return '{{.Ident}}' in window;
  });
  if (!reachable) {
    throw new Error("'{{.Ident}}' is unreachable as a bare reference, accessor, or global");
  }
}
`))

var useBeforeInitTmpl = template.Must(template.New("use-before-init").Parse(
	`// {{.Name}} - regression guard for: {{.Raw}}
// Heuristic, not a proof: probes globally reachable functions whose names
// contain task-indicative substrings and watches for an initialization-order
// error naming '{{.Ident}}'. Functions that error for unrelated reasons
// count as pass.
async function {{.Name}}(page) {
  const tdzMessage = await page.evaluate(() => {
    const hints = ['task', 'init', 'load', 'render', 'update', 'setup'];
    for (const key of Object.getOwnPropertyNames(window)) {
      if (typeof window[key] !== 'function') continue;
      const lower = key.toLowerCase();
      if (!hints.some((h) => lower.includes(h))) continue;
      try {
        window[key]();
      } catch (e) {
        if (e instanceof ReferenceError && String(e.message).includes('{{.Ident}}')) {
          return String(e.message);
        }
      }
    }
    return null;
  });
  if (tdzMessage) {
    throw new Error('use-before-initialization regression: ' + tdzMessage);
  }
}
`))

var notCallableTmpl = template.Must(template.New("not-callable").Parse(
	`// {{.Name}} - regression guard for: {{.Raw}}
async function {{.Name}}(page) {
  const kind = await page.evaluate(() => {
    try {
      return typeof eval('{{.Ident}}');
    } catch (e) {
      return 'unreachable';
    }
  });
  if (kind !== 'function') {
    throw new Error("'{{.Ident}}' is not callable (typeof = " + kind + ')');
  }
}
`))

var missingModuleTmpl = template.Must(template.New("missing-module").Parse(
	`# {{.Name}} - regression guard for: {{.Raw}}
def {{.Name}}():
    import importlib
    try:
        importlib.import_module("{{.Ident}}")
    except ImportError as exc:
        raise AssertionError(f"module '{{.Ident}}' is not importable: {exc}")
`))

var undefinedNameTmpl = template.Must(template.New("undefined-name").Parse(
	`# {{.Name}} - scaffold for: {{.Raw}}
# TODO(human): reproduce the enclosing scope where '{{.Ident}}' was
# undefined. The synthesizer cannot determine the scope automatically, so
# this body is a placeholder, not a passing assertion.
def {{.Name}}():
    import pytest
    pytest.skip("scaffold: needs the enclosing scope of '{{.Ident}}'")
`))
