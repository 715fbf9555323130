// SPDX-License-Identifier: EPL-2.0

// Package session drives one editing pass over a decoded recording.
//
// A Session owns the only authoritative copy of the audio. Region events
// from the waveform select what to edit; Trim and Cut replace the buffer
// with a new one and hand the re-encoded WAV back to the waveform. A Ready
// notification completes a reload only when its duration matches the
// owned buffer, and it never touches the samples, so a late notification
// from an earlier load can neither undo an edit nor end it early.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/edit"
	"github.com/ik5/audibites/formats/wav"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateEditing
	StateSaved
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	case StateSaved:
		return "saved"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) terminal() bool { return s == StateSaved || s == StateClosed }

// Config wires a session to its collaborators.
type Config struct {
	// Registry decodes the input blob. Required.
	Registry *audio.Registry
	// Waveform displays and plays the audio. Required.
	Waveform Waveform
	// Logger defaults to discarding output.
	Logger *slog.Logger
}

// Export is the result of a successful Save.
type Export struct {
	Data     []byte
	Name     string
	Duration float64
}

type Session struct {
	mu sync.Mutex

	state    State
	buf      *audio.Buffer
	region   *edit.Region
	name     string
	position float64
	duration float64

	waveform Waveform
	log      *slog.Logger
	done     chan struct{}
}

// Open decodes data once and asks the waveform to load it. A decode error
// is returned as is and no session is created. The session stays in
// StateLoading until the waveform sends Ready.
func Open(cfg Config, data []byte, name string) (*Session, error) {
	if cfg.Registry == nil || cfg.Waveform == nil {
		return nil, ErrInvalidConfig
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	buf, err := cfg.Registry.Decode(data)
	if err != nil {
		log.Warn("decode failed", "name", name, "bytes", len(data), "error", err)
		return nil, err
	}

	s := &Session{
		state:    StateLoading,
		buf:      buf,
		name:     name,
		duration: buf.Duration(),
		waveform: cfg.Waveform,
		log:      log.With("session", name),
		done:     make(chan struct{}),
	}

	s.log.Debug("decoded", "buffer", buf.String())

	if err := cfg.Waveform.Load(data); err != nil {
		s.Close()
		return nil, fmt.Errorf("load waveform: %w", err)
	}

	return s, nil
}

// Handle applies one waveform event. Events that do not apply to the
// current state are dropped.
func (s *Session) Handle(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.terminal() {
		return
	}

	switch ev := ev.(type) {
	case Ready:
		s.confirm(ev.Duration)

	case TimeUpdate:
		if s.state == StateReady {
			s.position = ev.Position
		}

	case RegionCreated:
		s.selectRegion(ev.Start, ev.End)

	case RegionUpdated:
		s.selectRegion(ev.Start, ev.End)

	default:
		s.log.Warn("unknown event", "type", fmt.Sprintf("%T", ev))
	}
}

// confirm handles a Ready notification. Only a duration within one frame
// of the owned buffer confirms a reload; anything else belongs to an
// earlier load. Caller holds mu.
func (s *Session) confirm(duration float64) {
	want := s.buf.Duration()
	matches := math.Abs(duration-want) <= 1/float64(s.buf.SampleRate())

	switch {
	case matches:
		s.duration = duration
	case s.state == StateLoading:
		// the waveform decoded the input with its own decoder
		s.log.Warn("waveform duration differs from decoded audio", "duration", duration, "decoded", want)
		s.duration = want
	default:
		s.log.Debug("stale ready dropped", "state", s.state.String(), "duration", duration, "buffer", want)
		return
	}

	if s.state == StateLoading || s.state == StateEditing {
		s.log.Debug("waveform ready", "from", s.state.String(), "duration", s.duration)
		s.state = StateReady
	}
}

// selectRegion replaces the active region. Caller holds mu.
func (s *Session) selectRegion(start, end float64) {
	if s.state != StateReady {
		s.log.Debug("stale region event dropped", "state", s.state.String())
		return
	}

	r := edit.Region{Start: start, End: end}.Clamp(s.buf.Duration())
	if r.End <= r.Start {
		s.log.Warn("empty region dropped", "start", start, "end", end)
		return
	}

	s.region = &r
}

// Run feeds events into Handle until ctx is done, events is closed, or the
// session is saved or closed.
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ev)
		}
	}
}

// Await handles events until the session leaves StateLoading or
// StateEditing.
func (s *Session) Await(ctx context.Context, events <-chan Event) error {
	for {
		switch st := s.State(); {
		case st.terminal():
			return ErrClosed
		case st == StateReady:
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrEventsClosed
			}
			s.Handle(ev)
		}
	}
}

// Trim keeps only the active region.
func (s *Session) Trim() error { return s.apply(edit.OpTrim) }

// Cut removes the active region.
func (s *Session) Cut() error { return s.apply(edit.OpCut) }

// apply runs op on the active region. Without a region it does nothing.
// The region is taken and cleared in the same critical section that enters
// StateEditing, so it can never be applied twice.
func (s *Session) apply(op edit.Op) error {
	s.mu.Lock()

	if err := s.checkState(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.region == nil {
		s.mu.Unlock()
		s.log.Debug("edit without region ignored", "op", string(op))
		return nil
	}

	region := *s.region
	next, ok := edit.Apply(s.buf, op, region)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownEdit, op)
	}

	before := s.buf.Frames()
	s.region = nil
	s.state = StateEditing
	s.buf = next
	s.position = 0
	s.duration = s.buf.Duration()
	data := wav.Encode(s.buf)

	s.log.Info("edit applied",
		"op", string(op),
		"region", region.String(),
		"frames_before", before,
		"frames_after", s.buf.Frames(),
	)
	s.mu.Unlock()

	if err := s.waveform.Load(data); err != nil {
		s.mu.Lock()
		if s.state == StateEditing {
			s.state = StateReady
		}
		s.mu.Unlock()

		return fmt.Errorf("reload waveform: %w", err)
	}

	return nil
}

// checkState rejects commands outside StateReady. Caller holds mu.
func (s *Session) checkState() error {
	switch s.state {
	case StateReady:
		return nil
	case StateLoading:
		return ErrNotReady
	case StateEditing:
		return ErrEditInProgress
	default:
		return ErrClosed
	}
}

// PlayPause toggles playback.
func (s *Session) PlayPause() error {
	if err := s.ready(); err != nil {
		return err
	}

	return s.waveform.PlayPause()
}

// Stop halts playback and rewinds to the start.
func (s *Session) Stop() error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.waveform.Stop(); err != nil {
		return err
	}

	s.mu.Lock()
	s.position = 0
	s.mu.Unlock()

	return nil
}

// Seek moves playback to position seconds, clamped to the duration.
func (s *Session) Seek(position float64) error {
	s.mu.Lock()
	if err := s.checkState(); err != nil {
		s.mu.Unlock()
		return err
	}
	if math.IsNaN(position) {
		position = 0
	}
	position = min(max(position, 0), s.duration)
	s.mu.Unlock()

	if err := s.waveform.Seek(position); err != nil {
		return err
	}

	s.mu.Lock()
	s.position = position
	s.mu.Unlock()

	return nil
}

func (s *Session) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkState()
}

// Save encodes the current buffer as WAV and ends the session.
func (s *Session) Save() (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkState(); err != nil {
		return Export{}, err
	}

	out := Export{
		Data:     wav.Encode(s.buf),
		Name:     s.name,
		Duration: s.buf.Duration(),
	}
	s.finish(StateSaved)

	s.log.Info("saved", "bytes", len(out.Data), "duration", out.Duration)

	return out, nil
}

// Close discards the session. Closing twice, or after Save, is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.terminal() {
		return nil
	}

	s.log.Debug("closed", "from", s.state.String())
	s.finish(StateClosed)

	return nil
}

// finish moves to a terminal state and drops the buffer. Caller holds mu.
func (s *Session) finish(state State) {
	s.state = state
	s.buf = nil
	s.region = nil
	close(s.done)
}

// Done is closed once the session is saved or closed.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// SetName changes the name used by Save.
func (s *Session) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.terminal() {
		return ErrClosed
	}
	s.name = name

	return nil
}

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.name
}

// Position is the playback position in seconds.
func (s *Session) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.position
}

// Duration is the length of the owned buffer, as last confirmed by the
// waveform.
func (s *Session) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.duration
}

// Region returns the active selection, if any.
func (s *Session) Region() (edit.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region == nil {
		return edit.Region{}, false
	}

	return *s.region, true
}

// Buffer returns the current audio, nil once the session has ended.
// Buffers are immutable, so the caller may keep it.
func (s *Session) Buffer() *audio.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf
}
