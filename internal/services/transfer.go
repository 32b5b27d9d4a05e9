package services

import (
	"context"

	"flagkeeper/internal/logging"
)

// Import merges a foreign snapshot into the collection, skipping flags whose
// id is already present. It returns the number of flags added.
func (s *FlagStore) Import(ctx context.Context, blob []byte) (int, error) {
	flags, err := decodeSnapshot(blob, s.opts.Clock.Now())
	if err != nil {
		return 0, err
	}

	added := 0
	for _, f := range flags {
		if s.indexOf(f.ID) >= 0 {
			logging.Logger.Debug("Skipping imported flag with existing id", "id", f.ID)
			continue
		}
		s.flags = append(s.flags, f)
		added++
	}

	logging.Logger.Info("Snapshot imported", "added", added, "skipped", len(flags)-added)
	if added > 0 {
		s.persist(ctx)
	}
	return added, nil
}

// Export returns the canonical snapshot of the collection
func (s *FlagStore) Export() ([]byte, error) {
	return encodeSnapshot(s.flags)
}
