package canonical

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		app   string
		want  string
	}{
		{
			name:  "chrome suffix stripped",
			title: "Smith v. Jones - Discovery Plan - Google Chrome",
			app:   "Google Chrome",
			want:  "Smith v. Jones - Discovery Plan",
		},
		{
			name:  "chrome suffix with profile segment",
			title: "Client Portal - Google Chrome – Work Profile",
			app:   "Google Chrome",
			want:  "Client Portal",
		},
		{
			name:  "edge suffix with zero width space",
			title: "Filing Deadlines - Microsoft​ Edge",
			app:   "Microsoft Edge",
			want:  "Filing Deadlines",
		},
		{
			name:  "firefox suffix",
			title: "Case Research Memo — Mozilla Firefox",
			app:   "Firefox",
			want:  "Case Research Memo",
		},
		{
			name:  "unread badge stripped",
			title: "Inbox - correspondence review (12 unread)",
			app:   "Mail",
			want:  "Inbox - correspondence review",
		},
		{
			name:  "preview page position",
			title: "Lease_Agreement.pdf – Page 3 of 12",
			app:   "Preview",
			want:  "Lease_Agreement.pdf",
		},
		{
			name:  "preview page count",
			title: "Deposition_Transcript.pdf – 245 pages",
			app:   "Preview",
			want:  "Deposition_Transcript.pdf",
		},
		{
			name:  "word read only",
			title: "Engagement_Letter.docx - Read-Only",
			app:   "Microsoft Word",
			want:  "Engagement_Letter.docx",
		},
		{
			name:  "word compatibility mode",
			title: "Old_Agreement.docx - Compatibility Mode",
			app:   "Microsoft Word",
			want:  "Old_Agreement.docx",
		},
		{
			name:  "bracketed code normalized",
			title: "Brief_[22069]_Final.docx",
			app:   "Microsoft Word",
			want:  "Brief_22069_Final.docx",
		},
		{
			name:  "filename extracted from surrounding chrome",
			title: "Contract_Review_22069.docx - Saved to OneDrive",
			app:   "Microsoft Word",
			want:  "Contract_Review_22069.docx",
		},
		{
			name:  "whitespace collapsed",
			title: "  Quarterly   billing   summary review meeting  ",
			app:   "Notes",
			want:  "Quarterly billing summary review meeting",
		},
		{
			name:  "unmatched title passes through trimmed",
			title: "Weekly team sync on matter staffing",
			app:   "Zoom",
			want:  "Weekly team sync on matter staffing",
		},
		{
			name:  "suffix behind suffix still stripped",
			title: "Motion_Draft.docx - Read-Only - Google Chrome",
			app:   "Microsoft Word",
			want:  "Motion_Draft.docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.title, tt.app)
			if got != tt.want {
				t.Errorf("Canonicalize(%q, %q) = %q, want %q", tt.title, tt.app, got, tt.want)
			}
		})
	}
}

// Grouping and fingerprints both depend on canonical output being a fixed
// point, so double application must change nothing.
func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []struct{ title, app string }{
		{"Smith v. Jones - Discovery Plan - Google Chrome", "Google Chrome"},
		{"Lease_Agreement.pdf – Page 3 of 12", "Preview"},
		{"Brief_[22069]_Final.docx - Read-Only", "Microsoft Word"},
		{"  odd   spacing  in a long meeting title  ", "Calendar"},
		{"plain title", "Terminal"},
		{"", "Terminal"},
	}
	for _, in := range inputs {
		once := Canonicalize(in.title, in.app)
		twice := Canonicalize(once, in.app)
		if once != twice {
			t.Errorf("not idempotent for %q (%s): first %q, second %q", in.title, in.app, once, twice)
		}
	}
}

func TestFilterBillable(t *testing.T) {
	f := DefaultFilter()

	tests := []struct {
		name string
		task string
		app  string
		want bool
	}{
		{"empty title", "", "Microsoft Word", false},
		{"whitespace only", "   ", "Microsoft Word", false},
		{"vague name", "New Tab", "Google Chrome", false},
		{"vague name exact match only", "New Tab Research on venue rules", "Google Chrome", true},
		{"generic document name", "Document3", "Microsoft Word", false},
		{"reminder badge", "3 Reminders", "Reminders", false},
		{"short title in unlisted app", "Standup", "Slack", false},
		{"short title in allow listed app", "Lease.docx", "Microsoft Word", true},
		{"short title in pdf viewer", "Exhibit_A.pdf", "Preview", true},
		{"long descriptive title anywhere", "Drafting response to opposing counsel letter", "Slack", true},
		{"exactly at length threshold", "aaaaaaaaaaaaaaaaaaaaaaaaa", "Slack", true},
		{"one rune under threshold", "aaaaaaaaaaaaaaaaaaaaaaaa", "Slack", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Billable(tt.task, tt.app); got != tt.want {
				t.Errorf("Billable(%q, %q) = %v, want %v", tt.task, tt.app, got, tt.want)
			}
		})
	}
}

func TestFilterCustomThreshold(t *testing.T) {
	f := Filter{MinTaskLength: 5, AllowedApps: nil}
	if !f.Billable("abcde", "Slack") {
		t.Error("5-rune title should pass a threshold of 5")
	}
	if f.Billable("abcd", "Slack") {
		t.Error("4-rune title should fail a threshold of 5")
	}
}
