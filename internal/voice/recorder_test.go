package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeTrack struct {
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeStream struct {
	track *fakeTrack
	data  []byte
}

func (s *fakeStream) Tracks() []Track  { return []Track{s.track} }
func (s *fakeStream) Data() []byte     { return s.data }
func (s *fakeStream) MIMEType() string { return "audio/webm" }

type fakeDevice struct {
	granted   bool
	permErr   error
	openErr   error
	prompts   int
	lastTrack *fakeTrack
}

func (d *fakeDevice) RequestPermission(context.Context) (bool, error) {
	d.prompts++
	return d.granted, d.permErr
}

func (d *fakeDevice) Open(context.Context) (Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.lastTrack = &fakeTrack{}
	return &fakeStream{track: d.lastTrack, data: []byte("blob")}, nil
}

func TestRecorder_HoldFlow(t *testing.T) {
	dev := &fakeDevice{granted: true}
	var got Blob
	done := make(chan struct{})
	r := NewRecorder(Config{
		Mode:   ModeHold,
		Device: dev,
		OnComplete: func(b Blob) {
			got = b
			close(done)
		},
	})
	defer r.Close()

	if err := r.Press(context.Background()); err != nil {
		t.Fatalf("press failed: %v", err)
	}
	if r.State() != StateRecording {
		t.Fatalf("expected recording state")
	}
	r.Release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("completion callback never fired")
	}

	if string(got.Data) != "blob" || got.MIMEType != "audio/webm" {
		t.Fatalf("unexpected blob: %+v", got)
	}
	if !dev.lastTrack.Stopped() {
		t.Fatalf("tracks must be stopped after release")
	}
	if r.State() != StateIdle {
		t.Fatalf("recorder should return to idle")
	}
}

func TestRecorder_PermissionDenied(t *testing.T) {
	dev := &fakeDevice{granted: false}
	var gotErr error
	r := NewRecorder(Config{
		Mode:    ModeHold,
		Device:  dev,
		OnError: func(err error) { gotErr = err },
	})
	defer r.Close()

	if err := r.Press(context.Background()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if !errors.Is(gotErr, ErrPermissionDenied) {
		t.Fatalf("error callback missing, got %v", gotErr)
	}
	if r.Permission() != PermissionDenied {
		t.Fatalf("denial should stick")
	}

	// Denial is remembered; the device is not prompted again.
	_ = r.Press(context.Background())
	if dev.prompts != 1 {
		t.Fatalf("expected a single prompt, got %d", dev.prompts)
	}
}

func TestRecorder_CancelNeverCompletes(t *testing.T) {
	dev := &fakeDevice{granted: true}
	completed := false
	r := NewRecorder(Config{
		Mode:       ModeToggle,
		Device:     dev,
		OnComplete: func(Blob) { completed = true },
	})
	defer r.Close()

	if err := r.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	r.Cancel()

	if completed {
		t.Fatalf("cancel must not fire completion")
	}
	if !dev.lastTrack.Stopped() {
		t.Fatalf("tracks must be stopped on cancel")
	}
	if r.State() != StateIdle {
		t.Fatalf("cancel should return to idle")
	}
}

func TestRecorder_WrongMode(t *testing.T) {
	r := NewRecorder(Config{Mode: ModeToggle, Device: &fakeDevice{granted: true}})
	defer r.Close()

	if err := r.Press(context.Background()); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("press on toggle recorder should fail, got %v", err)
	}

	r2 := NewRecorder(Config{Mode: ModeHold, Device: &fakeDevice{granted: true}})
	defer r2.Close()
	if err := r2.Toggle(context.Background()); !errors.Is(err, ErrWrongMode) {
		t.Fatalf("toggle on hold recorder should fail, got %v", err)
	}
}

func TestRecorder_StartWhileRecording(t *testing.T) {
	r := NewRecorder(Config{Mode: ModeHold, Device: &fakeDevice{granted: true}})
	defer r.Close()

	if err := r.Press(context.Background()); err != nil {
		t.Fatalf("press failed: %v", err)
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrNotIdle) {
		t.Fatalf("expected ErrNotIdle, got %v", err)
	}
}

func TestRecorder_TickReportsElapsed(t *testing.T) {
	ticks := make(chan int, 16)
	r := NewRecorder(Config{
		Mode:         ModeToggle,
		Device:       &fakeDevice{granted: true},
		OnTick:       func(s int) { ticks <- s },
		TickInterval: 5 * time.Millisecond,
	})
	defer r.Close()

	if err := r.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	select {
	case n := <-ticks:
		if n != 1 {
			t.Fatalf("first tick should report 1, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("no tick fired")
	}
	r.Cancel()
}

func TestRecorder_ClosedRejectsStart(t *testing.T) {
	r := NewRecorder(Config{Mode: ModeHold, Device: &fakeDevice{granted: true}})
	r.Close()
	if err := r.Press(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRecorder_OpenFailure(t *testing.T) {
	openErr := errors.New("device busy")
	var gotErr error
	r := NewRecorder(Config{
		Mode:    ModeHold,
		Device:  &fakeDevice{granted: true, openErr: openErr},
		OnError: func(err error) { gotErr = err },
	})
	defer r.Close()

	if err := r.Press(context.Background()); !errors.Is(err, openErr) {
		t.Fatalf("expected open error, got %v", err)
	}
	if !errors.Is(gotErr, openErr) {
		t.Fatalf("error callback missing")
	}
	if r.State() != StateIdle {
		t.Fatalf("failed start should stay idle")
	}
}
