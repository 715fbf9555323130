// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/edit"
	"github.com/ik5/audibites/formats/wav"
	"github.com/ik5/audibites/internal/audiotest"
)

// fakeWaveform records every command it receives.
type fakeWaveform struct {
	mu      sync.Mutex
	loads   [][]byte
	plays   int
	stops   int
	seeks   []float64
	loadErr error
	onLoad  func(data []byte)
}

func (w *fakeWaveform) Load(data []byte) error {
	w.mu.Lock()
	w.loads = append(w.loads, data)
	err, hook := w.loadErr, w.onLoad
	w.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		hook(data)
	}
	return nil
}

func (w *fakeWaveform) PlayPause() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plays++
	return nil
}

func (w *fakeWaveform) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stops++
	return nil
}

func (w *fakeWaveform) Seek(position float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seeks = append(w.seeks, position)
	return nil
}

func (w *fakeWaveform) loadCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.loads)
}

func (w *fakeWaveform) lastLoad() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loads[len(w.loads)-1]
}

func testRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	return r
}

// oneSecondStereo is 44100 frames of stereo ramp encoded as WAV.
func oneSecondStereo(t *testing.T) []byte {
	t.Helper()

	b, err := audio.NewBuffer(44100, audiotest.Channels(2, 44100, audiotest.Ramp))
	if err != nil {
		t.Fatal(err)
	}
	return wav.Encode(b)
}

func openSession(t *testing.T) (*Session, *fakeWaveform) {
	t.Helper()

	wf := &fakeWaveform{}
	s, err := Open(Config{Registry: testRegistry(), Waveform: wf}, oneSecondStereo(t), "take one")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	return s, wf
}

func openReady(t *testing.T) (*Session, *fakeWaveform) {
	t.Helper()

	s, wf := openSession(t)
	s.Handle(Ready{Duration: 1})
	if s.State() != StateReady {
		t.Fatalf("State() = %v, want ready", s.State())
	}

	return s, wf
}

func TestOpen_DecodeFailure(t *testing.T) {
	t.Parallel()

	wf := &fakeWaveform{}
	_, err := Open(Config{Registry: testRegistry(), Waveform: wf}, []byte("webm bytes nobody can read"), "x")

	if !errors.Is(err, audio.ErrDecode) {
		t.Fatalf("Open() error = %v, want ErrDecode", err)
	}
	if wf.loadCount() != 0 {
		t.Error("waveform loaded audio that failed to decode")
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{Waveform: &fakeWaveform{}}, nil, "x"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Open() without registry error = %v, want ErrInvalidConfig", err)
	}
	if _, err := Open(Config{Registry: testRegistry()}, nil, "x"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Open() without waveform error = %v, want ErrInvalidConfig", err)
	}
}

func TestOpen_WaveformLoadFailure(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("media element gone")
	wf := &fakeWaveform{loadErr: loadErr}

	_, err := Open(Config{Registry: testRegistry(), Waveform: wf}, oneSecondStereo(t), "x")
	if !errors.Is(err, loadErr) {
		t.Errorf("Open() error = %v, want %v", err, loadErr)
	}
}

func TestSession_LoadingUntilReady(t *testing.T) {
	t.Parallel()

	s, wf := openSession(t)

	if s.State() != StateLoading {
		t.Fatalf("State() = %v, want loading", s.State())
	}
	if wf.loadCount() != 1 {
		t.Fatalf("waveform loads = %d, want 1", wf.loadCount())
	}

	// region events before the waveform is ready are stale
	s.Handle(RegionCreated{Start: 0.1, End: 0.2})
	if _, ok := s.Region(); ok {
		t.Error("region accepted while loading")
	}
	if err := s.Trim(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Trim() while loading error = %v, want ErrNotReady", err)
	}
	if _, err := s.Save(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Save() while loading error = %v, want ErrNotReady", err)
	}

	s.Handle(Ready{Duration: 1})
	if s.State() != StateReady || s.Duration() != 1 {
		t.Errorf("after Ready: state %v, duration %v", s.State(), s.Duration())
	}
}

func TestSession_SingleActiveRegion(t *testing.T) {
	t.Parallel()

	s, _ := openReady(t)

	s.Handle(RegionCreated{Start: 0.1, End: 0.3})
	s.Handle(RegionCreated{Start: 0.5, End: 0.9})

	r, ok := s.Region()
	if !ok || r != (edit.Region{Start: 0.5, End: 0.9}) {
		t.Fatalf("Region() = %v, %v, want [0.5, 0.9)", r, ok)
	}

	s.Handle(RegionUpdated{Start: 0.4, End: 2})
	r, _ = s.Region()
	if r != (edit.Region{Start: 0.4, End: 1}) {
		t.Errorf("Region() after update = %v, want clamped [0.4, 1)", r)
	}

	// an empty selection leaves the previous one in place
	s.Handle(RegionUpdated{Start: 0.7, End: 0.7})
	if r, _ := s.Region(); r.Start != 0.4 {
		t.Errorf("Region() after empty update = %v, want [0.4, 1)", r)
	}
}

func TestSession_TrimResetsPositionAndRegion(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)

	s.Handle(TimeUpdate{Position: 0.8})
	s.Handle(RegionCreated{Start: 0.25, End: 0.5})

	if err := s.Trim(); err != nil {
		t.Fatalf("Trim() error = %v", err)
	}

	if s.State() != StateEditing {
		t.Errorf("State() = %v, want editing until the waveform reloads", s.State())
	}
	if s.Position() != 0 {
		t.Errorf("Position() = %v, want 0", s.Position())
	}
	if _, ok := s.Region(); ok {
		t.Error("region still active after trim")
	}
	if got := s.Buffer().Frames(); got != 11025 {
		t.Errorf("Frames() = %d, want 11025", got)
	}

	if wf.loadCount() != 2 {
		t.Fatalf("waveform loads = %d, want 2", wf.loadCount())
	}
	if got, want := len(wf.lastLoad()), 44+11025*2*2; got != want {
		t.Errorf("reloaded %d bytes, want %d", got, want)
	}

	s.Handle(Ready{Duration: 0.25})
	if s.State() != StateReady || s.Duration() != 0.25 {
		t.Errorf("after reload: state %v, duration %v", s.State(), s.Duration())
	}
}

func TestSession_CutThenTrim(t *testing.T) {
	t.Parallel()

	s, _ := openReady(t)

	s.Handle(RegionCreated{Start: 0.25, End: 0.5})
	if err := s.Cut(); err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	s.Handle(Ready{Duration: 0.75})

	if got := s.Buffer().Frames(); got != 33075 {
		t.Fatalf("Frames() after cut = %d, want 33075", got)
	}

	s.Handle(RegionCreated{Start: 0, End: 0.5})
	if err := s.Trim(); err != nil {
		t.Fatalf("Trim() error = %v", err)
	}
	s.Handle(Ready{Duration: 0.5})

	b := s.Buffer()
	if b.Frames() != 22050 {
		t.Fatalf("Frames() after trim = %d, want 22050", b.Frames())
	}
	// frame 11025 of the result was frame 22050 of the original
	if got, want := b.Sample(0, 11025), audiotest.Ramp(22050, 0); got-want > 1.0/32767 || want-got > 1.0/32767 {
		t.Errorf("Sample(0, 11025) = %v, want %v", got, want)
	}
}

func TestSession_EditWithoutRegionIsNoop(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)
	s.Handle(TimeUpdate{Position: 0.4})
	before := s.Buffer()

	for _, op := range []func() error{s.Trim, s.Cut} {
		if err := op(); err != nil {
			t.Errorf("edit without region error = %v, want nil", err)
		}
	}

	if s.Buffer() != before || s.State() != StateReady || s.Position() != 0.4 || wf.loadCount() != 1 {
		t.Error("edit without region had an observable effect")
	}
}

func TestSession_RejectsEditWhileEditing(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)

	s.Handle(RegionCreated{Start: 0, End: 0.5})
	if err := s.Trim(); err != nil {
		t.Fatalf("Trim() error = %v", err)
	}
	afterTrim := s.Buffer()

	// the waveform has not confirmed yet, so new regions are stale
	s.Handle(RegionCreated{Start: 0.1, End: 0.2})
	if err := s.Cut(); !errors.Is(err, ErrEditInProgress) {
		t.Errorf("Cut() while editing error = %v, want ErrEditInProgress", err)
	}
	if s.Buffer() != afterTrim || wf.loadCount() != 2 {
		t.Error("second edit was applied while the first was reloading")
	}
	if err := s.Seek(0.1); !errors.Is(err, ErrEditInProgress) {
		t.Errorf("Seek() while editing error = %v, want ErrEditInProgress", err)
	}
}

func TestSession_StaleReadyKeepsEditedBuffer(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)

	s.Handle(RegionCreated{Start: 0.25, End: 0.5})
	if err := s.Cut(); err != nil {
		t.Fatal(err)
	}

	// a late notification from the original load
	s.Handle(Ready{Duration: 1})

	if s.State() != StateEditing {
		t.Errorf("State() after stale Ready = %v, want editing", s.State())
	}
	if s.Duration() != 0.75 {
		t.Errorf("Duration() after stale Ready = %v, want 0.75", s.Duration())
	}
	s.Handle(RegionCreated{Start: 0.1, End: 0.2})
	if err := s.Cut(); !errors.Is(err, ErrEditInProgress) {
		t.Errorf("Cut() before reload confirmed error = %v, want ErrEditInProgress", err)
	}
	if wf.loadCount() != 2 {
		t.Errorf("waveform loads = %d, want 2", wf.loadCount())
	}

	s.Handle(Ready{Duration: 0.75})
	if s.State() != StateReady {
		t.Fatalf("State() after reload = %v, want ready", s.State())
	}
	if got := s.Buffer().Frames(); got != 33075 {
		t.Errorf("Frames() = %d, want the edited 33075", got)
	}

	// stale once more, now while ready: the duration stays with the buffer
	s.Handle(Ready{Duration: 1})
	if s.Duration() != 0.75 {
		t.Errorf("Duration() = %v, want 0.75", s.Duration())
	}
	if err := s.Seek(0.9); err != nil {
		t.Fatal(err)
	}
	if s.Position() != 0.75 {
		t.Errorf("Position() after Seek(0.9) = %v, want clamped to 0.75", s.Position())
	}

	exp, err := s.Save()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(exp.Data), 44+33075*2*2; got != want {
		t.Errorf("saved %d bytes, want %d", got, want)
	}
}

func TestSession_LoadingAcceptsDifferingDuration(t *testing.T) {
	t.Parallel()

	s, _ := openSession(t)

	s.Handle(Ready{Duration: 1.02})
	if s.State() != StateReady {
		t.Fatalf("State() = %v, want ready", s.State())
	}
	if s.Duration() != 1 {
		t.Errorf("Duration() = %v, want the decoded 1", s.Duration())
	}
}

func TestSession_UnknownEdit(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)
	s.Handle(RegionCreated{Start: 0.25, End: 0.5})
	before := s.Buffer()

	if err := s.apply(edit.Op("reverse")); !errors.Is(err, ErrUnknownEdit) {
		t.Fatalf("apply(reverse) error = %v, want ErrUnknownEdit", err)
	}

	if s.State() != StateReady || s.Buffer() != before || wf.loadCount() != 1 {
		t.Errorf("unknown edit changed the session: state %v, loads %d", s.State(), wf.loadCount())
	}
	if _, ok := s.Region(); !ok {
		t.Error("unknown edit cleared the region")
	}
}

func TestSession_SynchronousReadyDuringReload(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)
	wf.mu.Lock()
	wf.onLoad = func(data []byte) {
		s.Handle(Ready{Duration: float64(len(data)-44) / 4 / 44100})
	}
	wf.mu.Unlock()

	s.Handle(RegionCreated{Start: 0, End: 0.5})
	if err := s.Trim(); err != nil {
		t.Fatalf("Trim() error = %v", err)
	}

	if s.State() != StateReady || s.Duration() != 0.5 {
		t.Errorf("state %v, duration %v, want ready and 0.5", s.State(), s.Duration())
	}
}

func TestSession_ReloadFailureReturnsToReady(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)
	loadErr := errors.New("decode in waveform failed")
	wf.mu.Lock()
	wf.loadErr = loadErr
	wf.mu.Unlock()

	s.Handle(RegionCreated{Start: 0, End: 0.5})
	if err := s.Trim(); !errors.Is(err, loadErr) {
		t.Fatalf("Trim() error = %v, want %v", err, loadErr)
	}

	if s.State() != StateReady {
		t.Errorf("State() = %v, want ready", s.State())
	}
	if s.Buffer().Frames() != 22050 {
		t.Errorf("Frames() = %d, want the edit kept", s.Buffer().Frames())
	}
}

func TestSession_ConcurrentEditsApplyOnce(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)
	s.Handle(RegionCreated{Start: 0.5, End: 1})

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				errs <- s.Cut()
			} else {
				errs <- s.Trim()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil && !errors.Is(err, ErrEditInProgress) {
			t.Errorf("edit error = %v", err)
		}
	}

	if wf.loadCount() != 2 {
		t.Errorf("waveform loads = %d, want exactly one edit reload", wf.loadCount())
	}
	if got := s.Buffer().Frames(); got != 22050 {
		t.Errorf("Frames() = %d, want 22050", got)
	}
}

func TestSession_Transport(t *testing.T) {
	t.Parallel()

	s, wf := openReady(t)

	if err := s.PlayPause(); err != nil {
		t.Fatal(err)
	}
	s.Handle(TimeUpdate{Position: 0.3})
	if s.Position() != 0.3 {
		t.Errorf("Position() = %v, want 0.3", s.Position())
	}

	if err := s.Seek(5); err != nil {
		t.Fatal(err)
	}
	if s.Position() != 1 {
		t.Errorf("Position() after Seek(5) = %v, want clamped 1", s.Position())
	}

	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if s.Position() != 0 {
		t.Errorf("Position() after Stop = %v, want 0", s.Position())
	}

	wf.mu.Lock()
	defer wf.mu.Unlock()
	if wf.plays != 1 || wf.stops != 1 || len(wf.seeks) != 1 || wf.seeks[0] != 1 {
		t.Errorf("waveform saw plays=%d stops=%d seeks=%v", wf.plays, wf.stops, wf.seeks)
	}
}

func TestSession_SaveIsTerminal(t *testing.T) {
	t.Parallel()

	s, _ := openReady(t)
	if err := s.SetName("final mix"); err != nil {
		t.Fatal(err)
	}

	exp, err := s.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if exp.Name != "final mix" || exp.Duration != 1 || len(exp.Data) != 44+44100*4 {
		t.Errorf("Save() = %q, %v s, %d bytes", exp.Name, exp.Duration, len(exp.Data))
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed after Save")
	}

	if s.State() != StateSaved || s.Buffer() != nil {
		t.Errorf("after Save: state %v, buffer %v", s.State(), s.Buffer())
	}
	if err := s.Trim(); !errors.Is(err, ErrClosed) {
		t.Errorf("Trim() after Save error = %v, want ErrClosed", err)
	}
	if _, err := s.Save(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Save() error = %v, want ErrClosed", err)
	}
	if err := s.SetName("again"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetName() after Save error = %v, want ErrClosed", err)
	}
	if err := s.Close(); err != nil || s.State() != StateSaved {
		t.Errorf("Close() after Save = %v, state %v", err, s.State())
	}
}

func TestSession_CloseWhileLoading(t *testing.T) {
	t.Parallel()

	s, _ := openSession(t)

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	s.Handle(Ready{Duration: 1})
	if s.State() != StateClosed || s.Buffer() != nil {
		t.Errorf("after Close: state %v, buffer %v", s.State(), s.Buffer())
	}
	if err := s.PlayPause(); !errors.Is(err, ErrClosed) {
		t.Errorf("PlayPause() after Close error = %v, want ErrClosed", err)
	}
}

func TestSession_AwaitAndRun(t *testing.T) {
	t.Parallel()

	s, _ := openSession(t)
	events := make(chan Event, 4)
	events <- TimeUpdate{Position: 0.2}
	events <- Ready{Duration: 1}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Await(ctx, events); err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if s.State() != StateReady {
		t.Fatalf("State() = %v, want ready", s.State())
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, events) }()

	events <- RegionCreated{Start: 0.1, End: 0.6}
	deadline := time.After(5 * time.Second)
	for {
		if _, ok := s.Region(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Run() never delivered the region")
		case <-time.After(time.Millisecond):
		}
	}

	s.Close()
	if err := <-done; err != nil {
		t.Errorf("Run() after Close = %v, want nil", err)
	}
}

func TestSession_AwaitErrors(t *testing.T) {
	t.Parallel()

	s, _ := openSession(t)

	events := make(chan Event)
	close(events)
	if err := s.Await(context.Background(), events); !errors.Is(err, ErrEventsClosed) {
		t.Errorf("Await() on closed channel error = %v, want ErrEventsClosed", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Await(ctx, make(chan Event)); !errors.Is(err, context.Canceled) {
		t.Errorf("Await() on cancelled ctx error = %v, want context.Canceled", err)
	}

	s.Close()
	if err := s.Await(context.Background(), make(chan Event)); !errors.Is(err, ErrClosed) {
		t.Errorf("Await() after Close error = %v, want ErrClosed", err)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	want := map[State]string{
		StateLoading: "loading",
		StateReady:   "ready",
		StateEditing: "editing",
		StateSaved:   "saved",
		StateClosed:  "closed",
		State(42):    "State(42)",
	}
	for st, w := range want {
		if st.String() != w {
			t.Errorf("State(%d).String() = %q, want %q", int(st), st.String(), w)
		}
	}
}
