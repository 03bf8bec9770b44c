package canonical

import (
	"regexp"
	"strings"
)

// vagueNames are titles that are almost never billable work: system
// surfaces, navigation chrome, and tool-palette noise.
var vagueNames = map[string]struct{}{
	"No Details": {}, "Paste": {}, "New Tab": {}, "Untitled": {},
	"Reminders": {}, "Calendar": {}, "Microsoft Teams": {}, "Cursor": {},
	"Coding": {}, "Notes": {}, "Balloons": {}, "Accept": {},
	"Table of Contents": {}, "Change Case": {}, "Styles": {},
	"Text Highlight Color": {}, "Markup Options": {},
	"Open new and recent files": {},
	"TV": {}, "Downloads": {}, "Recents": {}, "Recent": {}, "OneDrive": {},
	"Google": {}, "Welcome": {}, "GitHub": {}, "Rules": {},
	"RescueTime": {}, "Copilot": {}, "reMarkable": {}, "Pilot": {},
	"Search": {},
}

var (
	genericDocName = regexp.MustCompile(`^Document\d+$`)
	reminderBadge  = regexp.MustCompile(`^\d+ Reminders?$`)
)

// DefaultMinTaskLength is the shortest canonical title considered
// descriptive enough to bill without an allow-listed application.
const DefaultMinTaskLength = 25

// Filter decides which canonicalized rows are billable. Rows it rejects
// never reach a draft entry.
type Filter struct {
	// MinTaskLength drops titles shorter than this many runes unless the
	// application is allow-listed.
	MinTaskLength int
	// AllowedApps are lowercase application-name fragments whose short
	// titles are still meaningful (document editors mostly).
	AllowedApps []string
}

// DefaultFilter returns the filter used when no configuration overrides it.
func DefaultFilter() Filter {
	return Filter{
		MinTaskLength: DefaultMinTaskLength,
		AllowedApps:   []string{"microsoft word", "microsoft excel", "preview", "acrobat"},
	}
}

// Billable reports whether a canonical task name should be aggregated.
func (f Filter) Billable(task, application string) bool {
	task = strings.TrimSpace(task)
	if task == "" {
		return false
	}
	if isVague(task) {
		return false
	}
	if len([]rune(task)) < f.MinTaskLength && !f.appAllowed(application) {
		return false
	}
	return true
}

func (f Filter) appAllowed(application string) bool {
	app := strings.ToLower(application)
	for _, allowed := range f.AllowedApps {
		if strings.Contains(app, allowed) {
			return true
		}
	}
	return false
}

func isVague(task string) bool {
	if _, ok := vagueNames[task]; ok {
		return true
	}
	if strings.HasPrefix(task, "Search, Suggestions") {
		return true
	}
	return genericDocName.MatchString(task) || reminderBadge.MatchString(task)
}
