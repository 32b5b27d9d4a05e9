package services

import (
	"math"

	"flagkeeper/internal/domain"
)

// Statistics counts flags by status and averages feasibility scores
func (s *FlagStore) Statistics() domain.Statistics {
	var stats domain.Statistics
	var scoreSum, scored int

	for _, f := range s.flags {
		stats.Total++
		switch f.Status {
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusNotStarted:
			stats.NotStarted++
		}
		if f.FeasibilityScore != nil {
			scoreSum += *f.FeasibilityScore
			scored++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	if scored > 0 {
		stats.AvgFeasibility = math.Round(float64(scoreSum)/float64(scored)*10) / 10
	}
	return stats
}
