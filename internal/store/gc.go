package store

import (
	"context"
	"time"

	"authd/internal/logging"
)

// GCLoop periodically deletes expired authorization codes and
// expired-or-revoked refresh tokens, grounded on dexidp-dex's
// storage/sql garbage collector. It runs until ctx is cancelled.
func (s *Store) GCLoop(ctx context.Context, interval time.Duration, log *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweepExpired(ctx); err != nil {
				log.Errorf("gc sweep failed: %v", err)
			}
		}
	}
}

func (s *Store) sweepExpired(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, `DELETE FROM authorization_codes WHERE expires_at < now()`); err != nil {
		return err
	}
	if _, err := s.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < now() OR revoked = TRUE`); err != nil {
		return err
	}
	return nil
}
