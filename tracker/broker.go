package tracker

import (
	"sync"
	"time"

	"github.com/cavetracker/cavesynth"
)

type (
	// Broker is the centralized message broker between the control side, the
	// player and the level detector. Each recipient has one bounded channel;
	// senders on the render thread never block on them (see TrySend).
	// Additionally, the broker has a sync.Pool for *cavesynth.AudioBuffers, so
	// the player can hand rendered audio to the detector without allocating
	// every time.
	//
	// The detector goroutine is closed with the CloseDetector and
	// FinishedDetector pair. CloseDetector has a capacity of 1, so an empty
	// message can always be sent to it without blocking; if it is already
	// full, someone else has already requested the closure. Nothing is ever
	// sent to FinishedDetector, it is only closed once the goroutine has
	// cleaned up:
	//    select {
	//      case <-FinishedDetector:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToPlayer   chan any // control messages, see messages.go
		ToModel    chan MsgToModel
		ToDetector chan MsgToDetector

		CloseDetector    chan struct{}
		FinishedDetector chan struct{}

		bufferPool sync.Pool
	}

	// MsgToModel is a message from the player or the detector to whoever
	// drives the session. The frequently sent status is not boxed, to avoid
	// allocations on the render thread.
	MsgToModel struct {
		HasStatus    bool
		Playing      bool
		Row          int
		ActiveVoices int

		HasDetectorResult bool
		DetectorResult    DetectorResult

		Data any // Alert, or another infrequent message
	}

	// MsgToDetector carries rendered audio (*cavesynth.AudioBuffer) or a
	// func() executed in the detector goroutine. Reset clears the meters.
	MsgToDetector struct {
		Reset bool
		Data  any
	}
)

// QueueSize is the capacity of each broker channel.
const QueueSize = 1024

func NewBroker() *Broker {
	return &Broker{
		ToPlayer:         make(chan any, QueueSize),
		ToModel:          make(chan MsgToModel, QueueSize),
		ToDetector:       make(chan MsgToDetector, QueueSize),
		CloseDetector:    make(chan struct{}, 1),
		FinishedDetector: make(chan struct{}),
		bufferPool:       sync.Pool{New: func() any { return &cavesynth.AudioBuffer{} }},
	}
}

// GetAudioBuffer returns an empty audio buffer from the pool. After use, give
// it back with PutAudioBuffer.
func (b *Broker) GetAudioBuffer() *cavesynth.AudioBuffer {
	return b.bufferPool.Get().(*cavesynth.AudioBuffer)
}

// PutAudioBuffer returns a buffer to the pool, truncating it but keeping its
// capacity.
func (b *Broker) PutAudioBuffer(buf *cavesynth.AudioBuffer) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

// TrySend sends v to c if c is not full. It never blocks. Returns true if the
// value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value is received from c or t has passed.
// ok is false on timeout or if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
