package jira

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// SearchAll pages through a search query and returns every matching issue.
//
// A non-2xx upstream response stops the loop and returns whatever was
// accumulated so far with a nil error, so callers get a partial result
// instead of a failure. Transport-level failures are returned as errors so
// an unreachable Jira is not mistaken for an empty result set.
func SearchAll(ctx context.Context, s Searcher, q Query) ([]IssueDTO, error) {
	pageSize := q.Limit
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var all []IssueDTO
	startAt := 0
	for {
		resp, err := s.Search(ctx, q, startAt)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				log.Warn().
					Int("status", statusErr.Code).
					Int("accumulated", len(all)).
					Str("jql", q.JQL).
					Msg("Jira search aborted, returning partial results")
				return all, nil
			}
			return all, err
		}

		all = append(all, resp.Issues...)

		if len(resp.Issues) < pageSize || startAt+pageSize >= resp.Total {
			return all, nil
		}
		startAt += pageSize
	}
}
