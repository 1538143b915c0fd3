package domain

// Stats aggregates grievance counts for the dashboard.
type Stats struct {
	Total       int
	ByStatus    map[Status]int
	ByPriority  map[Priority]int
	ByCategory  map[Category]int
	BySentiment map[Sentiment]int
}

// ComputeStats counts grievances per status, priority, category and sentiment.
func ComputeStats(grievances []Grievance) Stats {
	stats := Stats{
		Total:       len(grievances),
		ByStatus:    make(map[Status]int, len(Statuses)),
		ByPriority:  make(map[Priority]int, len(Priorities)),
		ByCategory:  make(map[Category]int, len(Categories)),
		BySentiment: make(map[Sentiment]int, len(Sentiments)),
	}
	for _, s := range Statuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range Priorities {
		stats.ByPriority[p] = 0
	}
	for _, c := range Categories {
		stats.ByCategory[c] = 0
	}
	for _, s := range Sentiments {
		stats.BySentiment[s] = 0
	}
	for _, g := range grievances {
		stats.ByStatus[g.Status]++
		stats.ByPriority[g.Priority]++
		stats.ByCategory[g.Category]++
		stats.BySentiment[g.Sentiment]++
	}
	return stats
}
