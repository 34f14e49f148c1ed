package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

type RecordingState int

const (
	StateIdle RecordingState = iota
	StateRecording
	StateRecorded
)

func (s RecordingState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateRecorded:
		return "recorded"
	}
	return "unknown"
}

// ErrPermissionDenied is returned by an AudioSource when microphone
// access is refused; the form surfaces it to the user.
var ErrPermissionDenied = errors.New("microphone access denied")

// AudioSource is the capture device. Open acquires the microphone and
// returns the raw audio stream; closing the stream releases the device.
type AudioSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Player plays back a finished recording.
type Player interface {
	Play(data []byte) error
}

// RecordingSession is the form's recording state machine:
//
//	Idle --Start--> Recording --Stop--> Recorded --Delete--> Idle
//
// Play is only valid in Recorded and does not transition. The session
// owns the capture stream for the lifetime of a recording and releases
// it on Stop and on Close, whichever comes first.
type RecordingSession struct {
	source AudioSource
	now    func() time.Time

	mu        sync.Mutex
	state     RecordingState
	stream    io.ReadCloser
	chunks    [][]byte
	audio     []byte
	startedAt time.Time
	elapsed   int
	readDone  chan struct{}
}

func NewRecordingSession(source AudioSource) *RecordingSession {
	return &RecordingSession{
		source: source,
		now:    func() time.Time { return time.Now() },
	}
}

func (s *RecordingSession) State() RecordingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns whole seconds: running while recording, frozen once
// recorded, zero when idle.
func (s *RecordingSession) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRecording {
		return int(s.now().Sub(s.startedAt).Seconds())
	}
	return s.elapsed
}

// Start acquires the microphone and begins buffering audio chunks.
func (s *RecordingSession) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return fmt.Errorf("cannot start recording while %s", s.state)
	}
	stream, err := s.source.Open(ctx)
	if err != nil {
		return fmt.Errorf("open microphone: %w", err)
	}
	s.stream = stream
	s.chunks = nil
	s.startedAt = s.now()
	s.elapsed = 0
	s.state = StateRecording
	s.readDone = make(chan struct{})
	go s.buffer(stream, s.readDone)
	return nil
}

func (s *RecordingSession) buffer(stream io.Reader, done chan struct{}) {
	defer close(done)
	for {
		chunk := make([]byte, 4096)
		n, err := stream.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.chunks = append(s.chunks, chunk[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Stop releases the microphone and finalizes the buffered chunks into
// one audio object.
func (s *RecordingSession) Stop() error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return fmt.Errorf("cannot stop recording while %s", s.state)
	}
	stream, done := s.stream, s.readDone
	s.mu.Unlock()

	_ = stream.Close()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		// Close intervened while we waited for the read loop.
		return fmt.Errorf("cannot stop recording while %s", s.state)
	}
	s.audio = bytes.Join(s.chunks, nil)
	s.chunks = nil
	s.stream = nil
	s.elapsed = int(s.now().Sub(s.startedAt).Seconds())
	s.state = StateRecorded
	return nil
}

// Delete discards the recording and resets the counter.
func (s *RecordingSession) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecorded {
		return fmt.Errorf("cannot delete recording while %s", s.state)
	}
	s.audio = nil
	s.elapsed = 0
	s.state = StateIdle
	return nil
}

// Play plays the finished recording. It does not transition and does
// not guard against overlapping playback.
func (s *RecordingSession) Play(p Player) error {
	s.mu.Lock()
	if s.state != StateRecorded {
		s.mu.Unlock()
		return fmt.Errorf("cannot play recording while %s", s.state)
	}
	audio := s.audio
	s.mu.Unlock()
	return p.Play(audio)
}

// Audio returns the finished recording, or nil when none exists.
func (s *RecordingSession) Audio() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecorded {
		return nil
	}
	return s.audio
}

// Close releases the capture device regardless of state. It is called
// on every form exit path.
func (s *RecordingSession) Close() {
	s.mu.Lock()
	stream, done := s.stream, s.readDone
	s.mu.Unlock()
	if stream != nil {
		_ = stream.Close()
		<-done
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stream = nil
	s.chunks = nil
	s.audio = nil
	s.elapsed = 0
	s.state = StateIdle
}
