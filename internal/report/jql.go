package report

import "fmt"

// Queries builds the JQL statements for one project and window.
type Queries struct {
	Project string
	Window  Window
}

// Created selects tickets created inside the window.
func (q Queries) Created() string {
	return fmt.Sprintf("project = %s AND created >= %q AND created <= %q",
		q.Project, q.Window.StartDate(), q.Window.EndDate())
}

// ResolvedField selects tickets whose resolved field was set inside the
// window.
func (q Queries) ResolvedField() string {
	return fmt.Sprintf("project = %s AND resolved >= %q AND resolved <= %q",
		q.Project, q.Window.StartDate(), q.Window.EndDate())
}

// ResolvedTransition selects tickets that transitioned to Done inside the
// window. Catches tickets closed without the resolved field being set.
func (q Queries) ResolvedTransition() string {
	return fmt.Sprintf("project = %s AND status CHANGED TO \"Done\" DURING (%q, %q)",
		q.Project, q.Window.StartDate(), q.Window.EndDate())
}

// ActiveUpdated selects non-terminal tickets touched inside the window.
func (q Queries) ActiveUpdated() string {
	return fmt.Sprintf(`project = %s AND updated >= %q AND updated <= %q AND status NOT IN ("Done", "Closed", "Resolved")`,
		q.Project, q.Window.StartDate(), q.Window.EndDate())
}

// TeamTransfers selects tickets in another team's project that mention an
// origin-project ticket key.
func (q Queries) TeamTransfers(team string) string {
	marker := q.Project + "-"
	return fmt.Sprintf("project = %s AND created >= %q AND created <= %q AND (text ~ %q OR summary ~ %q)",
		team, q.Window.StartDate(), q.Window.EndDate(), marker, marker)
}
