package domain

// MonthCount is one bucket of a monthly aggregation. Month is formatted YYYY-MM (UTC).
type MonthCount struct {
	Month string
	Count int
}

// Dataset is a single labelled series of a chart.
type Dataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// ChartSeries is the labels/datasets shape consumed by the reports dashboard.
type ChartSeries struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// NewChartSeries turns ordered month buckets into a single-dataset chart.
func NewChartSeries(label string, counts []MonthCount) ChartSeries {
	series := ChartSeries{
		Labels:   make([]string, len(counts)),
		Datasets: []Dataset{{Label: label, Data: make([]int, len(counts))}},
	}
	for i, c := range counts {
		series.Labels[i] = c.Month
		series.Datasets[0].Data[i] = c.Count
	}
	return series
}

// ReportSnapshot groups every monthly series for one scope.
type ReportSnapshot struct {
	CompanyID          int64       `json:"company_id,omitempty"`
	JobsPerMonth       ChartSeries `json:"jobs_per_month"`
	AppsPerMonth       ChartSeries `json:"apps_per_month"`
	CandidatesPerMonth ChartSeries `json:"candidates_per_month"`
}
