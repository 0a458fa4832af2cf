package session

import (
	"context"
)

// run is the refresh task. Each change cancels the fetch of the previous
// token and starts one for the new token.
func (s *Store) run(ctx context.Context) {
	defer s.wg.Done()

	stop := func() {}
	defer func() { stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-s.changes:
			stop()
			stop = func() {}
			if c.token == "" {
				continue
			}

			fetchCtx, cancel := context.WithCancel(ctx)
			stop = cancel
			s.wg.Add(1)
			go s.refresh(fetchCtx, c)
		}
	}
}

// refresh fetches the profile for c.token and applies it only if c is
// still the current generation. Any failure of a current fetch signs out.
func (s *Store) refresh(ctx context.Context, c change) {
	defer s.wg.Done()

	profile, err := s.api.Me(ctx, c.token)
	if ctx.Err() != nil {
		// Superseded or shutting down.
		return
	}

	s.mu.Lock()
	if c.gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale profile fetch", "fingerprint", Fingerprint(c.token))
		return
	}

	if err != nil {
		s.logger.WithError(err).Warn("profile fetch failed, signing out", "fingerprint", Fingerprint(c.token))
		s.logoutLocked()
	} else {
		s.user = profile.Clone()
		s.markReadyLocked()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}
