package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
)

// AddLog appends a journal entry to a flag
func (s *FlagStore) AddLog(ctx context.Context, flagID, content string) (domain.Log, error) {
	i := s.indexOf(flagID)
	if i < 0 {
		return domain.Log{}, fmt.Errorf("%w: %s", domain.ErrFlagNotFound, flagID)
	}

	entry := domain.Log{
		Content:   content,
		ID:        uuid.NewString(),
		Timestamp: s.opts.Clock.Now(),
	}
	s.flags[i].Logs = append(s.flags[i].Logs, entry)
	logging.Logger.Info("Log added", "flag", flagID, "log", entry.ID)
	s.persist(ctx)
	return entry, nil
}

// Logs returns a flag's journal entries, newest first. It is empty when the
// flag does not exist.
func (s *FlagStore) Logs(flagID string) []domain.Log {
	i := s.indexOf(flagID)
	if i < 0 {
		return []domain.Log{}
	}

	out := slices.Clone(s.flags[i].Logs)
	if out == nil {
		return []domain.Log{}
	}
	slices.SortStableFunc(out, func(a, b domain.Log) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// DeleteLog removes one journal entry from a flag
func (s *FlagStore) DeleteLog(ctx context.Context, flagID, logID string) error {
	i := s.indexOf(flagID)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrFlagNotFound, flagID)
	}

	logs := s.flags[i].Logs
	j := slices.IndexFunc(logs, func(l domain.Log) bool { return l.ID == logID })
	if j < 0 {
		return fmt.Errorf("%w: %s", domain.ErrLogNotFound, logID)
	}

	s.flags[i].Logs = slices.Delete(logs, j, j+1)
	logging.Logger.Info("Log deleted", "flag", flagID, "log", logID)
	s.persist(ctx)
	return nil
}
