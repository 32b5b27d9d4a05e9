package domain

// Statistics aggregates flag counts by status
type Statistics struct {
	AvgFeasibility float64 `json:"avg_feasibility" yaml:"avg_feasibility"`
	CompletionRate int     `json:"completion_rate" yaml:"completion_rate"`
	Completed      int     `json:"completed" yaml:"completed"`
	InProgress     int     `json:"in_progress" yaml:"in_progress"`
	NotStarted     int     `json:"not_started" yaml:"not_started"`
	Total          int     `json:"total" yaml:"total"`
}

// Urgency classifies how close a deadline is
type Urgency string

const (
	UrgencyUrgent   Urgency = "urgent"   // 7 days or less
	UrgencyPressing Urgency = "pressing" // 14 days or less
	UrgencyOnTrack  Urgency = "on_track"
)

// UrgencyFor maps the days left before a deadline to an Urgency
func UrgencyFor(daysLeft int) Urgency {
	switch {
	case daysLeft <= 7:
		return UrgencyUrgent
	case daysLeft <= 14:
		return UrgencyPressing
	default:
		return UrgencyOnTrack
	}
}

// Deadline is an active flag whose target date is approaching
type Deadline struct {
	DaysLeft int     `json:"days_left" yaml:"days_left"`
	Flag     Flag    `json:"flag" yaml:"flag"`
	Urgency  Urgency `json:"urgency" yaml:"urgency"`
}
