package services

import (
	"slices"
	"time"

	"flagkeeper/internal/domain"
)

// elapsedDays returns the number of whole days between from and to
func elapsedDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// MonthlyReminders returns active flags that have gone at least the
// reminder threshold without a progress update
func (s *FlagStore) MonthlyReminders() []domain.Flag {
	return s.monthlyReminders(s.opts.Clock.Now())
}

func (s *FlagStore) monthlyReminders(now time.Time) []domain.Flag {
	out := []domain.Flag{}
	for _, f := range s.flags {
		if !f.Status.Active() {
			continue
		}
		if elapsedDays(f.LastActivity(now.Location()), now) >= s.opts.ReminderDays {
			out = append(out, f.Clone())
		}
	}
	return out
}

// UpcomingDeadlines returns active flags whose target date is between today
// and windowDays from now, soonest first. A non-positive window uses the
// configured one.
func (s *FlagStore) UpcomingDeadlines(windowDays int) []domain.Deadline {
	if windowDays <= 0 {
		windowDays = s.opts.DeadlineWindowDays
	}
	return s.upcomingDeadlines(s.opts.Clock.Now(), windowDays)
}

func (s *FlagStore) upcomingDeadlines(now time.Time, windowDays int) []domain.Deadline {
	today := domain.DateOf(now)
	out := []domain.Deadline{}
	for _, f := range s.flags {
		if !f.Status.Active() || f.TargetDate.IsZero() {
			continue
		}
		daysLeft := today.DaysUntil(f.TargetDate)
		if daysLeft < 0 || daysLeft > windowDays {
			continue
		}
		out = append(out, domain.Deadline{
			DaysLeft: daysLeft,
			Flag:     f.Clone(),
			Urgency:  domain.UrgencyFor(daysLeft),
		})
	}

	slices.SortStableFunc(out, func(a, b domain.Deadline) int {
		return a.DaysLeft - b.DaysLeft
	})
	return out
}

// RecentlyCompleted returns completed flags whose last check happened within
// windowDays. A non-positive window uses the configured one.
func (s *FlagStore) RecentlyCompleted(windowDays int) []domain.Flag {
	if windowDays <= 0 {
		windowDays = s.opts.RecentWindowDays
	}
	return s.recentlyCompleted(s.opts.Clock.Now(), windowDays)
}

func (s *FlagStore) recentlyCompleted(now time.Time, windowDays int) []domain.Flag {
	out := []domain.Flag{}
	for _, f := range s.flags {
		if f.Status != domain.StatusCompleted {
			continue
		}
		last, ok := f.LastCheck()
		if !ok {
			continue
		}
		if elapsedDays(last.Date, now) <= windowDays {
			out = append(out, f.Clone())
		}
	}
	return out
}
