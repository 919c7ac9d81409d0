package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"se-metrics/internal/jira"
)

// fakeSearcher routes queries by their JQL shape, the way the live Jira
// backend would.
type fakeSearcher struct {
	created            []jira.IssueDTO
	resolvedField      []jira.IssueDTO
	resolvedTransition []jira.IssueDTO
	active             []jira.IssueDTO
	transfers          map[string][]jira.IssueDTO

	err error
}

func (f *fakeSearcher) Search(_ context.Context, q jira.Query, _ int) (*jira.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}

	page := func(issues []jira.IssueDTO) *jira.SearchResponse {
		return &jira.SearchResponse{Total: len(issues), Issues: issues}
	}

	switch {
	case strings.Contains(q.JQL, "CHANGED TO"):
		return page(f.resolvedTransition), nil
	case strings.Contains(q.JQL, "resolved >="):
		return page(f.resolvedField), nil
	case strings.Contains(q.JQL, "status NOT IN"):
		return page(f.active), nil
	case strings.HasPrefix(q.JQL, "project = SE AND created"):
		return page(f.created), nil
	default:
		for team, issues := range f.transfers {
			if strings.HasPrefix(q.JQL, fmt.Sprintf("project = %s ", team)) {
				return page(issues), nil
			}
		}
		return page(nil), nil
	}
}

func newIssue(key, status string, labels []string, priority string) jira.IssueDTO {
	issue := jira.IssueDTO{Key: key}
	issue.Fields.Status.Name = status
	issue.Fields.Labels = labels
	if priority != "" {
		issue.Fields.Priority = &struct {
			Name string `json:"name"`
		}{Name: priority}
	}
	return issue
}

func testGenerator(s jira.Searcher, teams ...string) *Generator {
	g := NewGenerator(s, Config{ProjectKey: "SE", Teams: teams})
	g.now = func() time.Time {
		return time.Date(2024, 10, 9, 15, 0, 0, 0, time.UTC) // a Wednesday
	}
	return g
}

func TestGenerate_WeeklyScenario(t *testing.T) {
	resolvedDirect := newIssue("SE-110", "Done", nil, "")
	resolvedDirect.Fields.Created = "2024-10-01T10:00:00.000+0000"
	resolvedDirect.Fields.Resolved = "2024-10-03T10:00:00.000+0000"

	resolvedViaChangelog := newIssue("SE-111", "Done", nil, "")
	resolvedViaChangelog.Fields.Created = "2024-09-29T10:00:00.000+0000"
	resolvedViaChangelog.Changelog = &jira.ChangelogDTO{Histories: []jira.HistoryDTO{
		{
			Created: "2024-10-04T10:00:00.000+0000",
			Items:   []jira.ItemDTO{{Field: "status", FromString: "In Progress", ToString: "Done"}},
		},
	}}

	inProgress := newIssue("SE-120", "In Progress", nil, "")
	inProgress.Fields.Updated = "2024-10-02T15:00:00.000+0000"
	waiting := newIssue("SE-121", "Waiting", nil, "")
	waiting.Fields.Updated = "2024-10-05T15:00:00.000+0000"

	searcher := &fakeSearcher{
		created: []jira.IssueDTO{
			newIssue("SE-101", "To Do", []string{"support", "onboarding"}, ""),
			newIssue("SE-102", "To Do", []string{"onboarding", "follow-up"}, "Medium"),
			newIssue("SE-103", "To Do", []string{"Support"}, "Critical"),
		},
		resolvedField:      []jira.IssueDTO{resolvedDirect, resolvedViaChangelog},
		resolvedTransition: []jira.IssueDTO{resolvedViaChangelog}, // overlaps on SE-111
		active:             []jira.IssueDTO{inProgress, waiting},
	}

	rep, err := testGenerator(searcher, "EIM", "MRKT").Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !rep.Success {
		t.Error("Success = false, want true")
	}
	if rep.NewTicketsCount != 3 {
		t.Errorf("NewTicketsCount = %d, want 3", rep.NewTicketsCount)
	}
	if rep.IncidentsCount != 1 {
		t.Errorf("IncidentsCount = %d, want 1", rep.IncidentsCount)
	}
	if rep.ResolvedTicketsCount != 2 {
		t.Errorf("ResolvedTicketsCount = %d, want 2 (SE-111 deduplicated)", rep.ResolvedTicketsCount)
	}
	if rep.TransfersCount != 0 {
		t.Errorf("TransfersCount = %d, want 0", rep.TransfersCount)
	}

	// SE-110 took 2.0 days, SE-111 took 5.0 days (derived from its changelog).
	if rep.AverageResolutionDays != 3.5 {
		t.Errorf("AverageResolutionDays = %v, want 3.5", rep.AverageResolutionDays)
	}
	wantBuckets := SpeedBuckets{OneToThreeDays: 1, ThreeToSevenDays: 1}
	if rep.SpeedBuckets != wantBuckets {
		t.Errorf("SpeedBuckets = %+v, want %+v", rep.SpeedBuckets, wantBuckets)
	}

	if rep.WeekStart != "September 30" || rep.WeekEnd != "October 06, 2024" {
		t.Errorf("week header = %q / %q", rep.WeekStart, rep.WeekEnd)
	}
	if rep.WeekRange != "2024-09-30 to 2024-10-06" {
		t.Errorf("WeekRange = %q", rep.WeekRange)
	}
	if rep.GeneratedAt != "2024-10-09 15:00:00" {
		t.Errorf("GeneratedAt = %q", rep.GeneratedAt)
	}

	wantLabels := []LabelCount{
		{Label: "onboarding", Count: 2},
		{Label: "follow-up", Count: 1},
	}
	if !reflect.DeepEqual(rep.TopLabels, wantLabels) {
		t.Errorf("TopLabels = %v, want %v", rep.TopLabels, wantLabels)
	}

	wantStatus := map[string]StatusMetrics{
		"In Progress": {Count: 1, AvgDays: 7.0},
		"Waiting":     {Count: 1, AvgDays: 4.0},
	}
	if !reflect.DeepEqual(rep.StatusAnalysis, wantStatus) {
		t.Errorf("StatusAnalysis = %v, want %v", rep.StatusAnalysis, wantStatus)
	}
}

func TestGenerate_Transfers(t *testing.T) {
	referencing := newIssue("EIM-1", "To Do", nil, "")
	referencing.Fields.Summary = "Escalation for SE-123"
	referencing.Fields.Created = "2024-10-01T09:00:00.000+0000"

	inDescription := newIssue("EIM-2", "To Do", nil, "")
	inDescription.Fields.Summary = "Routing change"
	inDescription.Fields.Description = json.RawMessage(`{"type":"doc","content":[{"type":"text","text":"Moved from SE-456"}]}`)

	unrelated := newIssue("EIM-3", "To Do", nil, "")
	unrelated.Fields.Summary = "No reference here"

	crossTeam := newIssue("MRKT-1", "In Progress", nil, "")
	crossTeam.Fields.Summary = "SE-123 landing page follow-up"

	duplicate := newIssue("EIM-1", "To Do", nil, "")
	duplicate.Fields.Summary = "Escalation for SE-123"

	searcher := &fakeSearcher{
		transfers: map[string][]jira.IssueDTO{
			"EIM":  {referencing, inDescription, unrelated},
			"MRKT": {crossTeam, duplicate},
		},
	}

	rep, err := testGenerator(searcher, "EIM", "MRKT").Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if rep.TransfersCount != 3 {
		t.Fatalf("TransfersCount = %d, want 3", rep.TransfersCount)
	}
	wantByTeam := map[string]int{"EIM": 2, "MRKT": 1}
	if !reflect.DeepEqual(rep.Transfers.ByTeam, wantByTeam) {
		t.Errorf("ByTeam = %v, want %v", rep.Transfers.ByTeam, wantByTeam)
	}

	byKey := make(map[string]TransferTicket)
	for _, d := range rep.Transfers.Details {
		byKey[d.Key] = d
	}
	if got := byKey["EIM-1"].OriginalKey; got != "SE-123" {
		t.Errorf("EIM-1 OriginalKey = %q, want SE-123", got)
	}
	if got := byKey["EIM-2"].OriginalKey; got != "SE-456" {
		t.Errorf("EIM-2 OriginalKey = %q, want SE-456", got)
	}
	if got := byKey["MRKT-1"].Team; got != "MRKT" {
		t.Errorf("MRKT-1 Team = %q, want MRKT", got)
	}
}

func TestGenerate_TransferDetailsCapped(t *testing.T) {
	var issues []jira.IssueDTO
	for i := 1; i <= 7; i++ {
		issue := newIssue(fmt.Sprintf("EIM-%d", i), "To Do", nil, "")
		issue.Fields.Summary = fmt.Sprintf("Follow-up for SE-%d", 100+i)
		issues = append(issues, issue)
	}

	searcher := &fakeSearcher{transfers: map[string][]jira.IssueDTO{"EIM": issues}}

	rep, err := testGenerator(searcher, "EIM").Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if rep.Transfers.Total != 7 {
		t.Errorf("Transfers.Total = %d, want 7", rep.Transfers.Total)
	}
	if len(rep.Transfers.Details) != 5 {
		t.Errorf("len(Details) = %d, want 5", len(rep.Transfers.Details))
	}
}

func TestGenerate_UnknownOriginKey(t *testing.T) {
	// The JQL text operator matches tokens like "SE-" without a number; the
	// origin then stays Unknown.
	vague := newIssue("EIM-9", "To Do", nil, "")
	vague.Fields.Summary = "Handed over from SE- team"

	searcher := &fakeSearcher{transfers: map[string][]jira.IssueDTO{"EIM": {vague}}}

	rep, err := testGenerator(searcher, "EIM").Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if rep.TransfersCount != 1 {
		t.Fatalf("TransfersCount = %d, want 1", rep.TransfersCount)
	}
	if got := rep.Transfers.Details[0].OriginalKey; got != "Unknown" {
		t.Errorf("OriginalKey = %q, want Unknown", got)
	}
}

func TestGenerate_UpstreamFailurePropagates(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}

	_, err := testGenerator(searcher, "EIM").Generate(context.Background())
	if err == nil {
		t.Fatal("Generate() error = nil, want failure")
	}
}

func TestGenerate_EmptyWeek(t *testing.T) {
	rep, err := testGenerator(&fakeSearcher{}, "EIM").Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if rep.NewTicketsCount != 0 || rep.ResolvedTicketsCount != 0 || rep.TransfersCount != 0 {
		t.Errorf("counts = %d/%d/%d, want all zero",
			rep.NewTicketsCount, rep.ResolvedTicketsCount, rep.TransfersCount)
	}
	if rep.AverageResolutionDays != 0.0 {
		t.Errorf("AverageResolutionDays = %v, want 0.0", rep.AverageResolutionDays)
	}
}
