// Package canonical turns noisy window/document titles into stable task
// names. Canonicalization is pure and idempotent: the aggregator calls it
// per row and groups on the result, so the same input must always produce
// the same output.
package canonical

import (
	"regexp"
	"strings"
)

// Ordered noise-removal rules. Application-specific suffixes run before the
// general browser patterns because some browser patterns are prefixes of
// the app-specific ones; whitespace collapse runs last.
var (
	pageOfSuffix    = regexp.MustCompile(` – Page \d+ of \d+$`)
	pageCountSuffix = regexp.MustCompile(` – \d+ pages$`)
	pdfName         = regexp.MustCompile(`^(.+?\.pdf)`)

	readOnlySuffix = regexp.MustCompile(`(?i)\s*-\s*Read-Only$`)
	compatSuffix   = regexp.MustCompile(`(?i)\s+-\s+Compatibility Mode$`)
	bracketedCode  = regexp.MustCompile(`_\[(\d+)\]`)
	portalPrefix   = regexp.MustCompile(`^Portal\s*-\s*`)

	chromeSuffix  = regexp.MustCompile(` - Google Chrome(?: – .+)?$`)
	edgeSuffix    = regexp.MustCompile(` - Microsoft\x{200b}? Edge$`)
	firefoxSuffix = regexp.MustCompile(` — Mozilla Firefox$`)
	unreadSuffix  = regexp.MustCompile(` \(\d+ unread\)$`)

	fileNameToken = regexp.MustCompile(`(?i)[\w\s\-\[\]()]+\.(?:docx|pdf|xlsx|pptx|csv|md|txt|py|js|html|css)`)
	wsRun         = regexp.MustCompile(`\s+`)
)

// Canonicalize strips known noise from a raw title and returns the stable
// task name used for grouping and identity. Returns the trimmed title
// unchanged when no rule matches.
func Canonicalize(title, application string) string {
	cur := title
	// Rules only ever shorten or normalize, so this converges; iterating to
	// a fixpoint keeps the function idempotent even when stripping one
	// suffix exposes another.
	for {
		next := canonicalPass(cur, application)
		if next == cur {
			return cur
		}
		cur = next
	}
}

func canonicalPass(title, application string) string {
	app := strings.ToLower(application)
	cleaned := title

	switch {
	case strings.Contains(app, "preview"):
		cleaned = pageOfSuffix.ReplaceAllString(cleaned, "")
		cleaned = pageCountSuffix.ReplaceAllString(cleaned, "")
		if strings.Contains(cleaned, ".pdf") {
			if m := pdfName.FindString(cleaned); m != "" {
				cleaned = m
			}
		}
	case strings.Contains(app, "microsoft word"):
		cleaned = readOnlySuffix.ReplaceAllString(cleaned, "")
		cleaned = compatSuffix.ReplaceAllString(cleaned, "")
		cleaned = bracketedCode.ReplaceAllString(cleaned, "_$1")
		if strings.HasPrefix(cleaned, "Portal") {
			cleaned = portalPrefix.ReplaceAllString(cleaned, "Portal ")
		}
	}

	cleaned = chromeSuffix.ReplaceAllString(cleaned, "")
	cleaned = edgeSuffix.ReplaceAllString(cleaned, "")
	cleaned = firefoxSuffix.ReplaceAllString(cleaned, "")
	cleaned = unreadSuffix.ReplaceAllString(cleaned, "")

	// A filename inside the title is the strongest task signal; prefer it
	// over surrounding chrome the suffix rules missed.
	if m := fileNameToken.FindString(cleaned); m != "" {
		cleaned = m
	}

	cleaned = wsRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
