package auth

import (
	"context"
	"sync"
	"time"

	"DietAPI/internal/logger"

	"go.uber.org/zap"
)

// JanitorInterval is how often expired sessions and OAuth states are purged
const JanitorInterval = 5 * time.Minute

// Janitor periodically removes expired sessions and OAuth states
type Janitor struct {
	sessions *SessionStore
	states   *OAuthStateStore
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewJanitor creates a janitor; a non-positive interval means JanitorInterval
func NewJanitor(sessions *SessionStore, states *OAuthStateStore, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = JanitorInterval
	}
	return &Janitor{
		sessions: sessions,
		states:   states,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the cleanup loop until ctx is cancelled or Stop is called
func (j *Janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-j.stopCh:
				return
			case <-ticker.C:
				j.Sweep(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	j.wg.Wait()
}

// Sweep runs one cleanup pass
func (j *Janitor) Sweep(ctx context.Context) {
	sessions, err := j.sessions.CleanupExpiredSessions(ctx)
	if err != nil {
		logger.Warn("session cleanup failed", zap.Error(err))
	}
	states, err := j.states.CleanupExpiredStates(ctx)
	if err != nil {
		logger.Warn("oauth state cleanup failed", zap.Error(err))
	}
	if sessions > 0 || states > 0 {
		logger.Debug("expired auth records removed",
			zap.Int64("sessions", sessions),
			zap.Int64("states", states))
	}
}

/*
This project is the backend API for the OpenSourceDUTH diet planner app.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
