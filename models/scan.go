package models

type ScanFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ScanRequest asks for a Semgrep run. RulesConfig is "custom" (local rules
// file) or "auto" (Semgrep registry). Repository and PullNumber are optional;
// when both are set the result is recorded as a review.
type ScanRequest struct {
	Files       []ScanFile `json:"files"`
	RulesConfig string     `json:"rules_config"`
	Repository  string     `json:"repository,omitempty"`
	PullNumber  int        `json:"pull_number,omitempty"`
}

type Finding struct {
	RuleID   string `json:"rule_id"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Category string `json:"category"`
}

type ScanResponse struct {
	Findings     []Finding `json:"findings"`
	DurationMS   int64     `json:"duration_ms"`
	FilesScanned int       `json:"files_scanned"`
}

// HasErrors reports whether any finding is severe enough to fail a review.
func (r ScanResponse) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == "error" {
			return true
		}
	}
	return false
}
