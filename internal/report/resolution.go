package report

import (
	"time"

	"se-metrics/internal/jira"
)

// terminalStatuses are the status names that count as ticket closure.
var terminalStatuses = map[string]bool{
	"Done":          true,
	"Resolved":      true,
	"Closed":        true,
	"Deployed/Done": true,
	"Complete":      true,
}

// ResolutionDate returns when an issue was resolved. The resolved field
// wins; when it is empty the changelog is scanned in order for the first
// transition into a terminal status. The second return is false when
// neither source yields a usable timestamp.
func ResolutionDate(issue jira.IssueDTO) (time.Time, bool) {
	if issue.Fields.Resolved != "" {
		t, err := jira.ParseTime(issue.Fields.Resolved)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if issue.Changelog == nil {
		return time.Time{}, false
	}
	for _, h := range issue.Changelog.Histories {
		for _, item := range h.Items {
			if item.Field != "status" || !terminalStatuses[item.ToString] {
				continue
			}
			if t, err := jira.ParseTime(h.Created); err == nil {
				return t, true
			}
			return time.Time{}, false
		}
	}
	return time.Time{}, false
}

// ResolutionDays computes the creation-to-resolution duration in fractional
// days. Missing or unparseable timestamps yield zero rather than an error.
func ResolutionDays(issue jira.IssueDTO) float64 {
	created, err := jira.ParseTime(issue.Fields.Created)
	if err != nil {
		return 0
	}
	resolved, ok := ResolutionDate(issue)
	if !ok {
		return 0
	}
	return resolved.Sub(created).Hours() / 24
}
