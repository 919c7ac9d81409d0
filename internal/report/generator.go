package report

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"se-metrics/internal/jira"
)

const (
	defaultFields  = "key,summary,status,created,updated,resolved,labels,priority"
	resolvedFields = "key,summary,status,created,resolved,updated"
	transferFields = "key,summary,status,created,updated,description"

	transferPageLimit = 50
	topLabelCount     = 5
	transferDetailCap = 5
)

// incidentPriorities flag a new ticket as an incident regardless of labels.
var incidentPriorities = map[string]bool{
	"Highest":  true,
	"Critical": true,
}

// Config selects the origin project and the teams checked for transfers.
type Config struct {
	ProjectKey string
	Teams      []string
}

// Generator produces the weekly report from a Jira search backend.
type Generator struct {
	searcher jira.Searcher
	cfg      Config
	now      func() time.Time
	keyRe    *regexp.Regexp
}

// NewGenerator wires a generator to a search backend and an explicit
// configuration value.
func NewGenerator(s jira.Searcher, cfg Config) *Generator {
	return &Generator{
		searcher: s,
		cfg:      cfg,
		now:      time.Now,
		keyRe:    regexp.MustCompile(regexp.QuoteMeta(cfg.ProjectKey) + `-\d+`),
	}
}

// Generate runs the aggregation pipeline over the previous calendar week:
// new tickets, resolved tickets (two overlapping queries merged by key),
// open-ticket dwell time, and cross-team transfers.
func (g *Generator) Generate(ctx context.Context) (*WeeklyReport, error) {
	now := g.now()
	window := PreviousWeek(now)
	queries := Queries{Project: g.cfg.ProjectKey, Window: window}

	log.Info().Str("range", window.Range()).Msg("Generating weekly report")

	newCount, incidents, labels, err := g.collectNew(ctx, queries)
	if err != nil {
		return nil, err
	}

	durations, resolvedCount, err := g.collectResolved(ctx, queries)
	if err != nil {
		return nil, err
	}

	statusAnalysis, err := g.collectActive(ctx, queries, now)
	if err != nil {
		return nil, err
	}

	transfers, err := g.collectTransfers(ctx, queries)
	if err != nil {
		return nil, err
	}

	byTeam := make(map[string]int)
	for _, t := range transfers {
		byTeam[t.Team]++
	}
	details := transfers
	if len(details) > transferDetailCap {
		details = details[:transferDetailCap]
	}
	if details == nil {
		details = []TransferTicket{}
	}

	return &WeeklyReport{
		Success:               true,
		NewTicketsCount:       newCount,
		ResolvedTicketsCount:  resolvedCount,
		AverageResolutionDays: meanDays(durations),
		IncidentsCount:        incidents,
		TransfersCount:        len(transfers),
		SpeedBuckets:          bucketDurations(durations),
		WeekStart:             window.StartDisplay(),
		WeekEnd:               window.EndDisplay(),
		WeekRange:             window.Range(),
		StatusAnalysis:        statusAnalysis,
		TopLabels:             labels.Top(topLabelCount),
		Transfers: TransferSummary{
			Total:   len(transfers),
			ByTeam:  byTeam,
			Details: details,
		},
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
	}, nil
}

func (g *Generator) collectNew(ctx context.Context, q Queries) (int, int, *labelTally, error) {
	issues, err := jira.SearchAll(ctx, g.searcher, jira.Query{JQL: q.Created(), Fields: defaultFields})
	if err != nil {
		return 0, 0, nil, err
	}

	labels := newLabelTally()
	incidents := 0
	for _, issue := range issues {
		for _, label := range issue.Fields.Labels {
			labels.Add(label)
		}
		if isIncident(issue) {
			incidents++
		}
	}
	return len(issues), incidents, labels, nil
}

func isIncident(issue jira.IssueDTO) bool {
	if incidentPriorities[issue.Fields.PriorityName()] {
		return true
	}
	for _, label := range issue.Fields.Labels {
		if strings.Contains(strings.ToLower(label), "incident") {
			return true
		}
	}
	return false
}

func (g *Generator) collectResolved(ctx context.Context, q Queries) ([]float64, int, error) {
	var pages [][]jira.IssueDTO
	for _, jql := range []string{q.ResolvedField(), q.ResolvedTransition()} {
		issues, err := jira.SearchAll(ctx, g.searcher, jira.Query{
			JQL:    jql,
			Fields: resolvedFields,
			Expand: "changelog",
		})
		if err != nil {
			return nil, 0, err
		}
		pages = append(pages, issues)
	}

	merged := MergeByKey(func(i jira.IssueDTO) string { return i.Key }, pages...)

	var durations []float64
	for _, issue := range merged {
		if days := ResolutionDays(issue); days >= 0 {
			durations = append(durations, days)
		}
	}
	return durations, len(merged), nil
}

func (g *Generator) collectActive(ctx context.Context, q Queries, now time.Time) (map[string]StatusMetrics, error) {
	issues, err := jira.SearchAll(ctx, g.searcher, jira.Query{JQL: q.ActiveUpdated(), Fields: defaultFields})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	totalDays := make(map[string]int)
	for _, issue := range issues {
		status := issue.Fields.Status.Name
		days := 0
		if t, err := jira.ParseTime(issue.Fields.Updated); err == nil {
			days = int(now.Sub(t).Hours() / 24)
		}
		counts[status]++
		totalDays[status] += days
	}

	analysis := make(map[string]StatusMetrics, len(counts))
	for status, count := range counts {
		analysis[status] = StatusMetrics{
			Count:   count,
			AvgDays: round1(float64(totalDays[status]) / float64(count)),
		}
	}
	return analysis, nil
}

func (g *Generator) collectTransfers(ctx context.Context, q Queries) ([]TransferTicket, error) {
	marker := g.cfg.ProjectKey + "-"
	seen := make(map[string]bool)
	var transfers []TransferTicket

	for _, team := range g.cfg.Teams {
		issues, err := jira.SearchAll(ctx, g.searcher, jira.Query{
			JQL:    q.TeamTransfers(team),
			Fields: transferFields,
			Expand: "changelog",
			Limit:  transferPageLimit,
		})
		if err != nil {
			return nil, err
		}

		for _, issue := range issues {
			summary := issue.Fields.Summary
			description := issue.Fields.DescriptionText()
			// The JQL text match is fuzzy; re-check for a literal reference.
			if !strings.Contains(summary, marker) && !strings.Contains(description, marker) {
				continue
			}
			if seen[issue.Key] {
				continue
			}
			seen[issue.Key] = true

			original := "Unknown"
			if m := g.keyRe.FindString(summary + " " + description); m != "" {
				original = m
			}
			transfers = append(transfers, TransferTicket{
				Key:         issue.Key,
				Team:        team,
				Summary:     summary,
				Status:      issue.Fields.Status.Name,
				Created:     issue.Fields.Created,
				OriginalKey: original,
			})
		}
	}
	return transfers, nil
}
