// Package matter pulls billing matter codes out of canonical task names.
// A matter code is a 5-digit sequence with clean delimiters on both sides;
// partial matches inside longer digit runs are never taken, so dates and
// document serials do not masquerade as codes.
package matter

import "regexp"

// Delimiter forms tried in order; the first match wins. Each pattern
// requires a non-digit boundary on both sides of the 5-digit run.
var codePatterns = []*regexp.Regexp{
	// Bracketed: [12345]
	regexp.MustCompile(`\[(\d{5})\]`),
	// Underscore on both sides: _12345_
	regexp.MustCompile(`_(\d{5})_`),
	// Space-delimited standalone token.
	regexp.MustCompile(`(?:^|\s)(\d{5})(?:\s|$)`),
	// Embedded in a filename with delimiters on both sides,
	// e.g. Contract_Review_22069.docx
	regexp.MustCompile(`(?:^|[_\-. ])(\d{5})(?:[_\-. ]|$)`),
}

// ExtractCode returns the first matter code found in the task name.
// It never fails on malformed input; absence is just ("", false).
func ExtractCode(task string) (string, bool) {
	if task == "" {
		return "", false
	}
	for _, p := range codePatterns {
		if m := p.FindStringSubmatch(task); m != nil {
			return m[1], true
		}
	}
	return "", false
}
