// Package voice implements the microphone capture controller used by the CLI
// voice client: an explicit state machine over an abstract capture device,
// with a permission gate and hold/toggle interaction modes.
package voice

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateRecording
	StateProcessing
)

type Permission int

const (
	PermissionUnknown Permission = iota
	PermissionGranted
	PermissionDenied
)

// Mode is fixed per recorder instance.
type Mode int

const (
	// ModeHold records while pressed; release or pointer-leave stops.
	ModeHold Mode = iota
	// ModeToggle starts on one activation and stops on the next.
	ModeToggle
)

var (
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrWrongMode        = errors.New("interaction does not match recorder mode")
	ErrNotIdle          = errors.New("recorder is not idle")
	ErrClosed           = errors.New("recorder is closed")
)

// Blob is the finalized recording handed to the completion callback.
type Blob struct {
	Data     []byte
	MIMEType string
	Duration time.Duration
}

type Config struct {
	Mode   Mode
	Device Device

	// OnComplete receives the finalized blob after a successful stop. Never
	// called for a cancelled recording.
	OnComplete func(Blob)
	// OnError receives permission and device failures.
	OnError func(error)
	// OnTick receives elapsed whole seconds while recording, once per second.
	OnTick func(seconds int)

	// TickInterval defaults to one second; tests shorten it.
	TickInterval time.Duration
}

// Recorder drives one capture session at a time. All methods are safe for
// concurrent use; callbacks run outside the internal lock.
type Recorder struct {
	mu sync.Mutex

	mode   Mode
	device Device

	onComplete func(Blob)
	onError    func(error)
	onTick     func(int)
	tick       time.Duration

	state      State
	permission Permission
	closed     bool

	stream    Stream
	startedAt time.Time
	elapsed   int
	stopTick  chan struct{}
}

func NewRecorder(cfg Config) *Recorder {
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Second
	}
	return &Recorder{
		mode:       cfg.Mode,
		device:     cfg.Device,
		onComplete: cfg.OnComplete,
		onError:    cfg.OnError,
		onTick:     cfg.OnTick,
		tick:       tick,
		state:      StateIdle,
		permission: PermissionUnknown,
	}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) Permission() Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.permission
}

// Elapsed reports whole seconds recorded so far.
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Press begins a hold-mode recording.
func (r *Recorder) Press(ctx context.Context) error {
	if r.mode != ModeHold {
		return ErrWrongMode
	}
	return r.Start(ctx)
}

// Release ends a hold-mode recording. Releasing while idle is a no-op so a
// stray pointer-up after an error does nothing.
func (r *Recorder) Release() {
	if r.mode != ModeHold {
		return
	}
	r.Stop()
}

// Leave mirrors the pointer leaving the control mid-hold; it stops exactly
// like Release.
func (r *Recorder) Leave() {
	r.Release()
}

// Toggle starts a toggle-mode recording, or stops the one in progress.
func (r *Recorder) Toggle(ctx context.Context) error {
	if r.mode != ModeToggle {
		return ErrWrongMode
	}
	r.mu.Lock()
	recording := r.state == StateRecording
	r.mu.Unlock()

	if recording {
		r.Stop()
		return nil
	}
	return r.Start(ctx)
}

// Start acquires the stream and begins recording. When permission is still
// unknown it prompts first; a denial fails without acquiring any capture
// resource.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrNotIdle
	}
	if r.permission == PermissionDenied {
		r.mu.Unlock()
		r.fail(ErrPermissionDenied)
		return ErrPermissionDenied
	}
	needPrompt := r.permission == PermissionUnknown
	r.mu.Unlock()

	if needPrompt {
		granted, err := r.device.RequestPermission(ctx)
		if err != nil {
			r.fail(err)
			return err
		}
		r.mu.Lock()
		if granted {
			r.permission = PermissionGranted
		} else {
			r.permission = PermissionDenied
		}
		r.mu.Unlock()
		if !granted {
			r.fail(ErrPermissionDenied)
			return ErrPermissionDenied
		}
	}

	stream, err := r.device.Open(ctx)
	if err != nil {
		r.fail(err)
		return err
	}

	r.mu.Lock()
	if r.closed || r.state != StateIdle {
		// Lost the race against Close or another Start; release immediately.
		r.mu.Unlock()
		stopTracks(stream)
		return ErrNotIdle
	}
	r.stream = stream
	r.state = StateRecording
	r.startedAt = time.Now()
	r.elapsed = 0
	r.stopTick = make(chan struct{})
	stop := r.stopTick
	r.mu.Unlock()

	go r.runTicker(stop)
	return nil
}

// Stop finalizes the recording and fires the completion callback.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return
	}
	r.state = StateProcessing
	stream := r.stream
	r.stream = nil
	duration := time.Since(r.startedAt)
	r.stopTicker()
	r.mu.Unlock()

	blob := Blob{
		Data:     stream.Data(),
		MIMEType: stream.MIMEType(),
		Duration: duration,
	}
	stopTracks(stream)

	if r.onComplete != nil {
		r.onComplete(blob)
	}

	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()
}

// Cancel discards the recording. The completion callback never fires.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return
	}
	stream := r.stream
	r.stream = nil
	r.stopTicker()
	r.state = StateIdle
	r.mu.Unlock()

	stopTracks(stream)
}

// Close cancels any recording in progress and makes the recorder unusable.
// Safe to call more than once.
func (r *Recorder) Close() {
	r.Cancel()
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// fail releases nothing (no stream exists on these paths) and reports the
// error.
func (r *Recorder) fail(err error) {
	if r.onError != nil {
		r.onError(err)
	}
}

// stopTicker must be called with the lock held.
func (r *Recorder) stopTicker() {
	if r.stopTick != nil {
		close(r.stopTick)
		r.stopTick = nil
	}
}

func (r *Recorder) runTicker(stop <-chan struct{}) {
	t := time.NewTicker(r.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			r.mu.Lock()
			if r.state != StateRecording {
				r.mu.Unlock()
				return
			}
			r.elapsed++
			n := r.elapsed
			cb := r.onTick
			r.mu.Unlock()
			if cb != nil {
				cb(n)
			}
		}
	}
}

func stopTracks(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
