// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/api"
)

// =============================================================================
// STATE
// =============================================================================

// State is the playback indicator state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StateError
)

// String returns a short label for the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is an immutable view of the coordinator.
type Snapshot struct {
	State     State
	AudioRef  string
	StartedAt time.Time
	// Err is set in StateError.
	Err error
}

// ErrNoAudio is returned by Play for an empty audio reference.
var ErrNoAudio = errors.New("no audio available")

// Backend is the subset of the API client the coordinator needs.
type Backend interface {
	PlayAudio(ctx context.Context, audioRef string) error
	StopAudio(ctx context.Context) error
	Status(ctx context.Context) (*api.StatusResponse, error)
}

// Options tunes timing.
type Options struct {
	// PollInterval is the time between status polls.
	PollInterval time.Duration
	// MaxDuration bounds how long a playback is tracked.
	MaxDuration time.Duration
	// ErrorRecovery is how long StateError is held before returning to Idle.
	ErrorRecovery time.Duration
}

// DefaultOptions returns the standard timings: poll every second, give up
// after 30 seconds, show errors for 2 seconds.
func DefaultOptions() Options {
	return Options{
		PollInterval:  time.Second,
		MaxDuration:   30 * time.Second,
		ErrorRecovery: 2 * time.Second,
	}
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator owns the single tracked playback. It is safe for concurrent
// use; all background work stops on Close.
type Coordinator struct {
	backend Backend
	opts    Options
	logger  *zap.Logger

	ctx       context.Context
	cancelAll context.CancelFunc
	wg        sync.WaitGroup

	mu         sync.Mutex
	state      State
	audioRef   string
	startedAt  time.Time
	lastErr    error
	generation uint64
	stoppedGen uint64 // generation started by the last acknowledged Stop
	stopPoll   context.CancelFunc
	recovery   *time.Timer

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// New creates an idle coordinator. Zero option fields take defaults.
func New(backend Backend, opts Options, logger *zap.Logger) *Coordinator {
	defaults := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = defaults.MaxDuration
	}
	if opts.ErrorRecovery < 0 {
		opts.ErrorRecovery = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		backend:     backend,
		opts:        opts,
		logger:      logger.Named("playback"),
		ctx:         ctx,
		cancelAll:   cancel,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, AudioRef: c.audioRef, StartedAt: c.startedAt, Err: c.lastErr}
}

// Subscribe registers fn for every state transition and returns a function
// that removes it. fn is called without internal locks held, from whichever
// goroutine caused the transition.
func (c *Coordinator) Subscribe(fn func(Snapshot)) func() {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
}

func (c *Coordinator) notify(s Snapshot) {
	c.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Play starts playback of audioRef on the server and blocks until the server
// accepts or rejects it. Any previous playback is superseded. On success the
// coordinator polls in the background until playback ends.
func (c *Coordinator) Play(ctx context.Context, audioRef string) error {
	audioRef = strings.TrimSpace(audioRef)
	if audioRef == "" {
		return ErrNoAudio
	}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return fmt.Errorf("play audio: coordinator closed")
	}
	c.supersedeLocked()
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.audioRef = audioRef
	c.startedAt = time.Now()
	c.lastErr = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.logger.Debug("play requested", zap.String("audio_ref", audioRef), zap.Uint64("generation", gen))
	err := c.backend.PlayAudio(ctx, audioRef)

	c.mu.Lock()
	if gen != c.generation {
		// A Stop acknowledged while the server was still loading this
		// reference cannot have stopped it. Nothing newer will either.
		lateStart := err == nil && c.generation == gen+1 && c.stoppedGen == c.generation
		c.mu.Unlock()
		if lateStart {
			c.logger.Debug("play acknowledged after stop", zap.String("audio_ref", audioRef))
			if stopErr := c.backend.StopAudio(ctx); stopErr != nil {
				c.logger.Warn("stop audio failed", zap.Error(stopErr))
			}
		}
		return err
	}
	if err != nil {
		c.failLocked(gen, err)
		snap = c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Warn("audio playback failed", zap.String("audio_ref", audioRef), zap.Error(err))
		c.notify(snap)
		return err
	}

	pollCtx, cancel := context.WithTimeout(c.ctx, c.opts.MaxDuration)
	c.stopPoll = cancel
	c.state = StatePlaying
	snap = c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	c.notify(snap)
	go c.poll(pollCtx, gen)
	return nil
}

// Stop asks the server to stop playback. On acknowledgement the coordinator
// is forced to Idle whatever it was doing. A failed stop leaves the state
// unchanged.
func (c *Coordinator) Stop(ctx context.Context) error {
	if err := c.backend.StopAudio(ctx); err != nil {
		c.logger.Warn("stop audio failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.supersedeLocked()
	c.generation++
	c.stoppedGen = c.generation
	changed := c.state != StateIdle
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if changed {
		c.notify(snap)
	}
	return nil
}

// Close stops all background work and waits for it to exit.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.supersedeLocked()
	c.cancelAll()
	c.mu.Unlock()
	c.wg.Wait()
}

// =============================================================================
// INTERNALS
// =============================================================================

// poll queries the status endpoint until playback stops, a status error
// occurs, or pollCtx ends (max duration, supersede, stop, close).
func (c *Coordinator) poll(ctx context.Context, gen uint64) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			reason := "cancelled"
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				reason = "max duration"
			}
			c.finish(gen, reason)
			return

		case <-ticker.C:
			status, err := c.backend.Status(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				c.logger.Debug("status poll failed", zap.Error(err))
				c.finish(gen, "status error")
				return
			}
			if !status.AudioPlaying {
				c.finish(gen, "stopped")
				return
			}
		}
	}
}

// finish returns a still-current playback to Idle.
func (c *Coordinator) finish(gen uint64, reason string) {
	c.mu.Lock()
	if gen != c.generation || c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	if c.stopPoll != nil {
		c.stopPoll()
		c.stopPoll = nil
	}
	ref := c.audioRef
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("playback ended", zap.String("audio_ref", ref), zap.String("reason", reason))
	c.notify(snap)
}

// failLocked enters StateError and schedules the return to Idle.
func (c *Coordinator) failLocked(gen uint64, err error) {
	c.state = StateError
	c.lastErr = err
	c.recovery = time.AfterFunc(c.opts.ErrorRecovery, func() {
		c.mu.Lock()
		if gen != c.generation || c.state != StateError {
			c.mu.Unlock()
			return
		}
		c.resetLocked()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
	})
}

// supersedeLocked cancels polling and any pending error recovery.
func (c *Coordinator) supersedeLocked() {
	if c.stopPoll != nil {
		c.stopPoll()
		c.stopPoll = nil
	}
	if c.recovery != nil {
		c.recovery.Stop()
		c.recovery = nil
	}
}

func (c *Coordinator) resetLocked() {
	c.state = StateIdle
	c.audioRef = ""
	c.startedAt = time.Time{}
	c.lastErr = nil
}
