package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Feasibility reasons
const (
	ReasonWindowTooShort     = "target window too short (<30 days)"
	ReasonWindowShort        = "target window short (<3 months)"
	ReasonWindowTooLong      = "target window too long (>1 year)"
	ReasonNoTargetDate       = "target date missing or invalid"
	ReasonDescriptionVague   = "description too vague"
	ReasonDescriptionGeneric = "description could be more specific"
	ReasonTitleTooShort      = "title too short"
	ReasonNotMeasurable      = "lacks measurable metric"
	ReasonWellFormed         = "well-formed, high feasibility"
)

// ReasonSeparator joins triggered reasons
const ReasonSeparator = "; "

// measurableKeywords mark a description as quantifiable
var measurableKeywords = []string{
	"daily", "weekly", "monthly",
	"per day", "per week", "per month",
	"every", "times", "hour", "minute",
	"每天", "每周", "每月", "次", "小时", "分钟",
}

// Assessment is the result of the feasibility heuristic
type Assessment struct {
	Reason string
	Score  int
}

// Assess scores how realistic a goal's framing is. It is pure: now is only
// used to measure the distance to the target date.
func Assess(title, description string, target Date, now time.Time) Assessment {
	score := 100
	var reasons []string

	if target.IsZero() {
		score -= 20
		reasons = append(reasons, ReasonNoTargetDate)
	} else {
		days := DateOf(now).DaysUntil(target)
		switch {
		case days < 30:
			score -= 30
			reasons = append(reasons, ReasonWindowTooShort)
		case days < 90:
			score -= 10
			reasons = append(reasons, ReasonWindowShort)
		case days > 365:
			score -= 5
			reasons = append(reasons, ReasonWindowTooLong)
		}
	}

	switch n := utf8.RuneCountInString(description); {
	case n < 20:
		score -= 15
		reasons = append(reasons, ReasonDescriptionVague)
	case n < 50:
		score -= 5
		reasons = append(reasons, ReasonDescriptionGeneric)
	}

	if utf8.RuneCountInString(title) < 5 {
		score -= 10
		reasons = append(reasons, ReasonTitleTooShort)
	}

	if isMeasurable(description) {
		score += 5
	} else {
		score -= 5
		reasons = append(reasons, ReasonNotMeasurable)
	}

	reason := ReasonWellFormed
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ReasonSeparator)
	}

	return Assessment{
		Reason: reason,
		Score:  max(0, min(100, score)),
	}
}

func isMeasurable(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range measurableKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
