package report

// WeeklyReport is the JSON document served by GET /metrics. The field names
// are a wire contract with the consuming dashboard.
type WeeklyReport struct {
	Success bool `json:"success"`

	NewTicketsCount       int     `json:"newTicketsCount"`
	ResolvedTicketsCount  int     `json:"resolvedTicketsCount"`
	AverageResolutionDays float64 `json:"averageResolutionDays"`
	IncidentsCount        int     `json:"incidentsCount"`
	TransfersCount        int     `json:"transfersCount"`

	SpeedBuckets SpeedBuckets `json:"speedBuckets"`

	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`
	WeekRange string `json:"weekRange"`

	StatusAnalysis map[string]StatusMetrics `json:"statusAnalysis"`
	TopLabels      []LabelCount             `json:"topLabels"`
	Transfers      TransferSummary          `json:"transfers"`

	GeneratedAt string `json:"generatedAt"`
}

// SpeedBuckets is the resolution-speed histogram. Boundary values land in
// the lower bucket.
type SpeedBuckets struct {
	LessThan24h       int `json:"lessThan24h"`
	OneToThreeDays    int `json:"oneToThreeDays"`
	ThreeToSevenDays  int `json:"threeToSevenDays"`
	MoreThanSevenDays int `json:"moreThanSevenDays"`
}

// StatusMetrics aggregates the open tickets currently sitting in one status.
type StatusMetrics struct {
	Count   int     `json:"count"`
	AvgDays float64 `json:"avg_days"`
}

// LabelCount is one entry of the top-labels list.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TransferSummary describes work that moved into other teams' projects.
type TransferSummary struct {
	Total   int              `json:"total"`
	ByTeam  map[string]int   `json:"byTeam"`
	Details []TransferTicket `json:"details"`
}

// TransferTicket is a ticket in another team's project that textually
// references an origin-project ticket.
type TransferTicket struct {
	Key         string `json:"key"`
	Team        string `json:"team"`
	Summary     string `json:"summary"`
	Status      string `json:"status"`
	Created     string `json:"created"`
	OriginalKey string `json:"originalKey"`
}
