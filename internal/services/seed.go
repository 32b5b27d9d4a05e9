package services

import (
	"context"

	"github.com/google/uuid"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
)

type sampleCheck struct {
	daysAgo  int
	notes    string
	progress int
}

type sampleFlag struct {
	category     string
	checks       []sampleCheck
	createdAgo   int
	description  string
	frequency    string
	targetInDays int
	title        string
}

// samples are demo goals. Dates are relative to the seeding time so that the
// reminder and deadline views have something to show.
var samples = []sampleFlag{
	{
		title:        "Learn Go programming",
		description:  "Study one hour daily, finish 3 projects and earn a certificate. Covers syntax, concurrency and web services",
		category:     "Learning",
		frequency:    "daily",
		createdAgo:   200,
		targetInDays: 165,
		checks: []sampleCheck{
			{185, "Finished the language tour", 20},
			{155, "Finished the concurrency chapter", 45},
			{120, "Shipped the web service project", 75},
		},
	},
	{
		title:        "Lose 10 kg",
		description:  "Exercise 4 times per week for an hour, track calories and weight. From 75 kg down to 65 kg",
		category:     "Health",
		frequency:    "weekly",
		createdAgo:   120,
		targetInDays: 12,
		checks: []sampleCheck{
			{90, "Down 2.5 kg", 25},
			{60, "Down 5 kg", 50},
			{10, "Down 6 kg", 60},
		},
	},
	{
		title:        "Pass the English proficiency exam",
		description:  "Memorize 50 words daily and do 2 past papers every week. Aim for 550 points or more",
		category:     "Learning",
		frequency:    "daily",
		createdAgo:   160,
		targetInDays: 5,
		checks: []sampleCheck{
			{130, "Vocabulary at 4000 words, starting past papers", 30},
			{100, "Past papers averaging 480", 60},
			{45, "Mock exam scored 520", 85},
			{3, "Passed with 568 points!", 100},
		},
	},
	{
		title:        "Save for a camera",
		description:  "Save 2000 per month, learn photography basics and compare models. Buy a professional DSLR",
		category:     "Spending",
		frequency:    "monthly",
		createdAgo:   180,
		targetInDays: 5,
		checks: []sampleCheck{
			{150, "Saved 4000", 25},
			{90, "Saved 8000", 50},
			{40, "Saved 12000", 75},
			{20, "Saved 12800, almost there", 80},
		},
	},
	{
		title:        "Learn the guitar",
		description:  "Practice chords",
		category:     "Hobbies",
		createdAgo:   40,
		targetInDays: 20,
	},
	{
		title:        "Read 20 books",
		description:  "Read 2 books per month, write notes and share reviews. Mix fiction, history and science",
		category:     "Learning",
		frequency:    "monthly",
		createdAgo:   200,
		targetInDays: 165,
		checks: []sampleCheck{
			{150, "Finished 4 books", 20},
			{90, "Finished 8 books", 40},
			{35, "Finished 9 books", 45},
		},
	},
}

// SeedSamples adds the demo flags with their check history and returns how
// many were added
func (s *FlagStore) SeedSamples(ctx context.Context) int {
	now := s.opts.Clock.Now()
	today := domain.DateOf(now)

	for _, sample := range samples {
		created := now.AddDate(0, 0, -sample.createdAgo)
		f := domain.Flag{
			Category:      sample.category,
			CheckHistory:  []domain.CheckRecord{},
			CreatedDate:   domain.DateOf(created),
			Description:   sample.description,
			Frequency:     sample.frequency,
			ID:            uuid.NewString(),
			Logs:          []domain.Log{},
			SchemaVersion: domain.CurrentSchemaVersion,
			Status:        domain.StatusNotStarted,
			TargetDate:    today.AddDays(sample.targetInDays),
			Title:         sample.title,
		}

		if s.opts.FeasibilityEnabled {
			assessment := domain.Assess(f.Title, f.Description, f.TargetDate, created)
			f.FeasibilityScore = &assessment.Score
			f.FeasibilityReason = assessment.Reason
		}

		for _, c := range sample.checks {
			f.ApplyProgress(c.progress, c.notes, now.AddDate(0, 0, -c.daysAgo), s.opts.Policy)
		}

		s.flags = append(s.flags, f)
	}

	logging.Logger.Info("Sample flags seeded", "count", len(samples))
	s.persist(ctx)
	return len(samples)
}
