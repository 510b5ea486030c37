package pattern

import "regexp"

var placeholderRe = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// Result is one rendered document. Unmatched lists placeholder names that
// had no variable and were left verbatim in the document, in order of
// first appearance; searching the document for "{{" finds them too.
type Result struct {
	Document  string
	Unmatched []string
}

// Render substitutes variables into the pattern's template body. Every
// {{NAME}} token with a matching variable is replaced literally; tokens
// without one stay in place and are reported, never dropped.
func Render(p *Pattern, vars map[string]string) Result {
	var unmatched []string
	seen := make(map[string]bool)

	document := placeholderRe.ReplaceAllStringFunc(p.Template, func(token string) string {
		name := token[2 : len(token)-2]
		if value, ok := vars[name]; ok {
			return value
		}
		if !seen[name] {
			seen[name] = true
			unmatched = append(unmatched, name)
		}
		return token
	})

	return Result{Document: document, Unmatched: unmatched}
}
