package gomidi

import (
	"errors"
	"fmt"

	"github.com/cavetracker/cavesynth/tracker"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	// RTMIDIContext receives MIDI from an rtmidi input device and hands the
	// note events to the player, as a tracker.PlayerProcessContext. Events
	// arrive on the driver's goroutine timestamped in milliseconds; the
	// context converts them to frames and keeps a clock following the
	// render thread.
	RTMIDIContext struct {
		driver        *rtmididrv.Driver
		currentIn     drivers.In
		stopListening func()
		inputDevices  []RTMIDIDevice
		sampleRate    int

		events        chan timestampedMsg
		eventsBuf     []timestampedMsg
		eventIndex    int
		startFrame    int
		startFrameSet bool
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
	}

	timestampedMsg struct {
		frame int
		msg   midi.Message
	}
)

var ErrNoDriver = errors.New("no MIDI driver available")

// NewContext opens the rtmidi driver. If that fails, the context has no
// devices, but is still usable as a PlayerProcessContext.
func NewContext(sampleRate int) *RTMIDIContext {
	m := newContext(sampleRate)
	m.driver, _ = rtmididrv.New()
	return m
}

func newContext(sampleRate int) *RTMIDIContext {
	return &RTMIDIContext{events: make(chan timestampedMsg, 1024), sampleRate: sampleRate}
}

func (m *RTMIDIContext) InputDevices(yield func(tracker.MIDIDevice) bool) {
	if m.driver == nil {
		return
	}
	if m.inputDevices == nil {
		ins, err := m.driver.Ins()
		if err != nil {
			return
		}
		for _, in := range ins {
			m.inputDevices = append(m.inputDevices, RTMIDIDevice{context: m, in: in})
		}
	}
	for _, d := range m.inputDevices {
		if !yield(d) {
			return
		}
	}
}

// Open the input device, closing the currently open one if necessary.
func (d RTMIDIDevice) Open() error {
	c := d.context
	if c.currentIn == d.in {
		return nil
	}
	if c.driver == nil {
		return ErrNoDriver
	}
	c.closeInput()
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input %v failed: %w", d.in, err)
	}
	stop, err := midi.ListenTo(d.in, c.HandleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input %v failed: %w", d.in, err)
	}
	c.currentIn = d.in
	c.stopListening = stop
	return nil
}

func (d RTMIDIDevice) String() string {
	return d.in.String()
}

func (c *RTMIDIContext) closeInput() {
	if c.stopListening != nil {
		c.stopListening()
		c.stopListening = nil
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.currentIn = nil
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	c.closeInput()
	c.driver.Close()
}

func (c *RTMIDIContext) HasDeviceOpen() bool {
	return c.currentIn != nil && c.currentIn.IsOpen()
}

// HandleMessage is called by the driver for every received message. If the
// queue is full, the message is dropped.
func (c *RTMIDIContext) HandleMessage(msg midi.Message, timestampms int32) {
	select {
	case c.events <- timestampedMsg{frame: int(int64(timestampms) * int64(c.sampleRate) / 1000), msg: msg}:
	default:
	}
}

// NextEvent returns the next note event. The event stays pending until
// NextEvent is called again, so an event not yet due at the end of a buffer
// is returned again in the next one.
func (c *RTMIDIContext) NextEvent(frame int) (event tracker.MIDINoteEvent, ok bool) {
F:
	for {
		select {
		case msg := <-c.events:
			c.eventsBuf = append(c.eventsBuf, msg)
			if !c.startFrameSet {
				c.startFrame = msg.frame
				c.startFrameSet = true
			}
		default:
			break F
		}
	}
	if c.eventIndex > 0 && c.eventIndex <= len(c.eventsBuf) {
		// an event was consumed: if it was consumed late, pull the clock
		// towards it
		delta := frame + c.startFrame - c.eventsBuf[c.eventIndex-1].frame
		c.startFrame -= delta / 5
	}
	for c.eventIndex < len(c.eventsBuf) {
		var channel, key, velocity uint8
		m := c.eventsBuf[c.eventIndex]
		c.eventIndex++
		isNoteOn := m.msg.GetNoteOn(&channel, &key, &velocity)
		isNoteOff := !isNoteOn && m.msg.GetNoteOff(&channel, &key, &velocity)
		if isNoteOn || isNoteOff {
			return tracker.MIDINoteEvent{
				Frame:    m.frame - c.startFrame,
				On:       isNoteOn,
				Channel:  int(channel),
				Note:     key,
				Velocity: velocity,
			}, true
		}
	}
	c.eventIndex = len(c.eventsBuf) + 1 // nothing pending
	return tracker.MIDINoteEvent{}, false
}

// FinishBlock advances the clock by the frames rendered and drops the
// consumed events, keeping the pending one.
func (c *RTMIDIContext) FinishBlock(frame int) {
	c.startFrame += frame
	if c.eventIndex > 0 {
		keep := c.eventsBuf[min(c.eventIndex-1, len(c.eventsBuf)):]
		c.eventsBuf = c.eventsBuf[:copy(c.eventsBuf, keep)]
		if len(c.eventsBuf) > 0 {
			// events are waiting: pull the clock towards the first of them
			delta := c.startFrame - c.eventsBuf[0].frame
			c.startFrame -= delta / 5
		}
	}
	c.eventIndex = 0
}

func (c *RTMIDIContext) BPM() (bpm float64, ok bool) {
	return 0, false
}
