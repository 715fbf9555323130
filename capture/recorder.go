// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NameLayout is the time layout used for recording names.
const NameLayout = "2006-01-02_15:04:05"

type Mode int

const (
	// ModeLocal records a microphone or line input.
	ModeLocal Mode = iota
	// ModeShared records the audio of a shared tab, window or system mix.
	ModeShared
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeShared:
		return "shared"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type State int

const (
	StateIdle State = iota
	StateRequesting
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Device grants access to capture sources. Both calls may block on a
// permission prompt; they should return when ctx is cancelled.
type Device interface {
	RequestLocalInput(ctx context.Context) (Stream, error)
	RequestSharedSource(ctx context.Context) (Stream, error)
}

// Stream is a granted capture source.
//
// Chunks delivers encoded audio and must be closed after Stop, or when the
// source ends by itself. Ended is closed when the source ends without Stop
// being called, such as the user revoking a screen share.
type Stream interface {
	AudioTracks() int
	Chunks() <-chan []byte
	Ended() <-chan struct{}
	Stop() error
}

// Recording is the outcome of one capture.
type Recording struct {
	Data    []byte
	Name    string
	Mode    Mode
	Elapsed time.Duration
}

type Option func(*Recorder)

func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTick calls fn with the elapsed time every interval while recording.
func WithTick(interval time.Duration, fn func(elapsed time.Duration)) Option {
	return func(r *Recorder) {
		r.tick = interval
		r.onTick = fn
	}
}

// take is the state of a single capture, from grant to result.
type take struct {
	mode    Mode
	stream  Stream
	started time.Time
	stopped time.Time
	data    bytes.Buffer

	once   sync.Once
	wg     sync.WaitGroup
	quit   chan struct{}
	done   chan struct{}
	ticker *time.Ticker
}

type Recorder struct {
	dev    Device
	log    *slog.Logger
	now    func() time.Time
	tick   time.Duration
	onTick func(time.Duration)

	mu    sync.Mutex
	state State
	cur   *take
}

func NewRecorder(dev Device, opts ...Option) *Recorder {
	r := &Recorder{
		dev: dev,
		log: slog.New(slog.DiscardHandler),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start requests a source for mode and begins collecting it. On any
// failure the recorder is back in StateIdle and no grant is held.
func (r *Recorder) Start(ctx context.Context, mode Mode) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrBusy
	}
	r.state = StateRequesting
	r.mu.Unlock()

	stream, err := r.request(ctx, mode)
	if err != nil {
		r.setState(StateIdle)
		r.log.Warn("capture not started", "mode", mode.String(), "error", err)
		return err
	}

	if mode == ModeShared && stream.AudioTracks() == 0 {
		if err := stream.Stop(); err != nil {
			r.log.Warn("release shared source", "error", err)
		}
		r.setState(StateIdle)
		return ErrNoAudioTrack
	}

	t := &take{
		mode:   mode,
		stream: stream,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	t.wg.Add(2)

	r.mu.Lock()
	t.started = r.now()
	if r.tick > 0 && r.onTick != nil {
		t.ticker = time.NewTicker(r.tick)
	}
	r.cur = t
	r.state = StateRecording
	r.mu.Unlock()

	go r.collect(t)
	go r.watch(t)
	go func() {
		t.wg.Wait()
		close(t.done)
	}()

	r.log.Info("recording started", "mode", mode.String())

	return nil
}

func (r *Recorder) request(ctx context.Context, mode Mode) (Stream, error) {
	var (
		stream Stream
		err    error
	)

	switch mode {
	case ModeLocal:
		stream, err = r.dev.RequestLocalInput(ctx)
	case ModeShared:
		stream, err = r.dev.RequestSharedSource(ctx)
	default:
		return nil, fmt.Errorf("unknown capture mode %v", mode)
	}

	if err != nil {
		return nil, fmt.Errorf("request %s source: %w", mode, err)
	}

	if ctx.Err() != nil {
		if err := stream.Stop(); err != nil {
			r.log.Warn("release source after cancel", "error", err)
		}
		return nil, ctx.Err()
	}

	return stream, nil
}

// collect appends chunks until the stream closes its channel.
func (r *Recorder) collect(t *take) {
	defer t.wg.Done()

	for chunk := range t.stream.Chunks() {
		r.mu.Lock()
		t.data.Write(chunk)
		r.mu.Unlock()
	}
}

// watch stops the take when the source ends and drives the tick callback.
func (r *Recorder) watch(t *take) {
	defer t.wg.Done()

	var tick <-chan time.Time
	if t.ticker != nil {
		tick = t.ticker.C
	}

	for {
		select {
		case <-t.quit:
			return
		case <-t.stream.Ended():
			r.stop(t, "source ended")
			return
		case <-tick:
			r.onTick(r.Elapsed())
		}
	}
}

// stop ends t exactly once, whoever calls it first.
func (r *Recorder) stop(t *take, reason string) {
	t.once.Do(func() {
		r.mu.Lock()
		t.stopped = r.now()
		if t.ticker != nil {
			t.ticker.Stop()
		}
		close(t.quit)
		if r.cur == t {
			r.state = StateStopped
		}
		r.mu.Unlock()

		if err := t.stream.Stop(); err != nil {
			r.log.Warn("stop stream", "error", err)
		}

		r.log.Info("recording stopped", "reason", reason, "elapsed", t.stopped.Sub(t.started))
	})
}

// Stop ends the recording and waits until every chunk is collected.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	t := r.cur
	if r.state != StateRecording || t == nil {
		r.mu.Unlock()
		return ErrNotRecording
	}
	r.mu.Unlock()

	r.stop(t, "user")
	<-t.done

	return nil
}

// Done returns a channel closed once the current recording is stopped and
// collected. It returns nil when nothing has been started.
func (r *Recorder) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cur == nil {
		return nil
	}

	return r.cur.done
}

// Result returns the stopped recording. It may be called more than once.
func (r *Recorder) Result() (Recording, error) {
	r.mu.Lock()
	t := r.cur
	if r.state != StateStopped || t == nil {
		r.mu.Unlock()
		return Recording{}, ErrNotStopped
	}
	r.mu.Unlock()

	<-t.done

	r.mu.Lock()
	defer r.mu.Unlock()

	if t.data.Len() == 0 {
		return Recording{}, ErrEmptyRecording
	}

	return Recording{
		Data:    bytes.Clone(t.data.Bytes()),
		Name:    "Recording_" + r.now().UTC().Format(NameLayout),
		Mode:    t.mode,
		Elapsed: t.stopped.Sub(t.started),
	}, nil
}

// Discard drops the current recording, stopping it first if needed.
func (r *Recorder) Discard() error {
	r.mu.Lock()
	t := r.cur
	switch r.state {
	case StateRequesting:
		r.mu.Unlock()
		return ErrBusy
	case StateIdle:
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	r.stop(t, "discarded")
	<-t.done

	r.mu.Lock()
	if r.cur == t {
		r.cur = nil
		r.state = StateIdle
	}
	r.mu.Unlock()

	return nil
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Elapsed is the wall-clock recording time, frozen once stopped.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.cur
	switch {
	case t == nil:
		return 0
	case r.state == StateRecording:
		return r.now().Sub(t.started)
	default:
		return t.stopped.Sub(t.started)
	}
}

func (r *Recorder) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}
