package services

import (
	"time"

	"flagkeeper/internal/domain"
)

// reportFileLayout names report files flag_report_YYYYMMDD_HHMMSS.txt
const reportFileLayout = "flag_report_20060102_150405.txt"

// StatusGroup is the set of flags sharing a status
type StatusGroup struct {
	Flags  []domain.Flag
	Status domain.Status
}

// Report is a point-in-time summary of the collection
type Report struct {
	Deadlines         []domain.Deadline
	GeneratedAt       time.Time
	Groups            []StatusGroup
	RecentlyCompleted []domain.Flag
	Reminders         []domain.Flag
	Statistics        domain.Statistics
}

// BuildReport summarizes the collection as of now. Groups are ordered
// completed, in progress, not started; empty groups are omitted.
func (s *FlagStore) BuildReport(now time.Time) Report {
	report := Report{
		Deadlines:         s.upcomingDeadlines(now, s.opts.DeadlineWindowDays),
		GeneratedAt:       now,
		RecentlyCompleted: s.recentlyCompleted(now, s.opts.RecentWindowDays),
		Reminders:         s.monthlyReminders(now),
		Statistics:        s.Statistics(),
	}

	for _, status := range []domain.Status{domain.StatusCompleted, domain.StatusInProgress, domain.StatusNotStarted} {
		flags := s.List(ListFilter{Status: status})
		if len(flags) == 0 {
			continue
		}
		report.Groups = append(report.Groups, StatusGroup{Flags: flags, Status: status})
	}
	return report
}

// ReportFileName returns the file name a report generated at now is saved as
func ReportFileName(now time.Time) string {
	return now.Format(reportFileLayout)
}

// UrgentDeadlines reports whether any deadline in the report is urgent
func (r Report) UrgentDeadlines() bool {
	for _, d := range r.Deadlines {
		if d.Urgency == domain.UrgencyUrgent {
			return true
		}
	}
	return false
}
