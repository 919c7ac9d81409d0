package jira

import (
	"encoding/json"
	"time"
)

// SearchResponse is the top-level container for Jira search results.
type SearchResponse struct {
	Total  int        `json:"total"`
	Issues []IssueDTO `json:"issues"`
}

// IssueDTO represents a single issue in the Jira search response.
type IssueDTO struct {
	Key       string        `json:"key"`
	Fields    FieldsDTO     `json:"fields"`
	Changelog *ChangelogDTO `json:"changelog,omitempty"`
}

// FieldsDTO contains the specific fields the weekly report cares about.
type FieldsDTO struct {
	Summary string `json:"summary"`
	Status  struct {
		Name string `json:"name"`
	} `json:"status"`
	Priority *struct {
		Name string `json:"name"`
	} `json:"priority,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Created  string   `json:"created,omitempty"`
	Updated  string   `json:"updated,omitempty"`
	Resolved string   `json:"resolved,omitempty"`
	// Description is kept raw: Jira Cloud v3 returns an ADF document here,
	// and the report only scans it for ticket-key references.
	Description json.RawMessage `json:"description,omitempty"`
}

// PriorityName returns the priority name, or "" when the field is unset.
func (f FieldsDTO) PriorityName() string {
	if f.Priority == nil {
		return ""
	}
	return f.Priority.Name
}

// DescriptionText returns the raw description payload as text.
func (f FieldsDTO) DescriptionText() string {
	return string(f.Description)
}

// ChangelogDTO contains historical transitions.
type ChangelogDTO struct {
	Histories []HistoryDTO `json:"histories"`
}

// HistoryDTO is a single entry in the changelog.
type HistoryDTO struct {
	Created string    `json:"created"`
	Items   []ItemDTO `json:"items"`
}

// ItemDTO is a single field change within a history entry.
type ItemDTO struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// ParseTime parses the strict Jira time format, with an RFC 3339 fallback
// for Z-suffixed timestamps.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.000-0700", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
