package tracker

import (
	"fmt"
	"math"

	"github.com/cavetracker/cavesynth"
	"github.com/cavetracker/cavesynth/engine"
)

type (
	// Player renders the audio. It is owned by the render thread: everything
	// else talks to it through Broker.ToPlayer, drained once per buffer, and
	// the MIDI events of the PlayerProcessContext. The player reports back
	// through Broker.ToModel and Broker.ToDetector without ever blocking.
	Player struct {
		rack      engine.Rack
		sequencer *StepSequencer
		playing   bool
		gain      float32

		broker *Broker
	}

	// PlayerProcessContext is the context given to the player when processing
	// audio. It is used to get MIDI events and the current BPM, typically
	// from a MIDI driver or a plugin host.
	PlayerProcessContext interface {
		NextEvent(frame int) (event MIDINoteEvent, ok bool)
		FinishBlock(frame int)
		BPM() (bpm float64, ok bool)
	}

	// MIDINoteEvent is a MIDI event triggering or releasing a note. Frame is
	// relative to the start of the current buffer.
	MIDINoteEvent struct {
		Frame    int
		On       bool
		Channel  int
		Note     byte
		Velocity byte
	}
)

func NewPlayer(broker *Broker, sampleRate int) *Player {
	return &Player{
		broker:    broker,
		sequencer: NewStepSequencer(sampleRate),
		gain:      1,
	}
}

// Process renders audio to the given buffer, filling it completely. Control
// messages are applied first; MIDI events of the context are applied at
// their frames. If a synth renders a non-finite sample, it is removed, the
// whole buffer is silenced and an alert is sent. If only the mix of finite
// synths overflows, all synths are removed.
func (p *Player) Process(buffer cavesynth.AudioBuffer, context PlayerProcessContext) {
	p.processMessages()
	if bpm, ok := context.BPM(); ok && bpm != p.sequencer.BPM() {
		p.sequencer.SetTempo(bpm, 0)
	}
	midi, midiOk := context.NextEvent(0)
	crashed := false
	for i := range buffer {
		for midiOk && i >= midi.Frame {
			p.handleMIDIInput(midi)
			midi, midiOk = context.NextEvent(i)
		}
		if p.playing {
			p.sequencer.Tick(&p.rack)
		}
		v := p.rack.NextSample()
		if !crashed && (math.IsNaN(v) || math.IsInf(v, 0)) {
			crashed = true
			buffer[:i].Clear()
			if slot, ok := p.rack.Faulty(); ok {
				p.rack.Set(slot, nil)
				p.SendAlert("PlayerCrash", fmt.Sprintf("synth on channel %d rendered %v and was removed", slot, v), Error)
			} else {
				// every synth was finite but their sum was not
				p.rack.Clear()
				p.SendAlert("PlayerCrash", fmt.Sprintf("mix overflowed to %v, all synths were removed", v), Error)
			}
		}
		if crashed {
			buffer[i] = [2]float32{}
			continue
		}
		s := float32(v) * p.gain
		buffer[i] = [2]float32{s, s}
	}
	context.FinishBlock(len(buffer))

	bufPtr := p.broker.GetAudioBuffer() // borrow a buffer from the broker
	*bufPtr = append(*bufPtr, buffer...)
	if len(*bufPtr) == 0 || !TrySend(p.broker.ToDetector, MsgToDetector{Data: bufPtr}) {
		p.broker.PutAudioBuffer(bufPtr)
	}
	p.send(nil)
}

func (p *Player) handleMIDIInput(midi MIDINoteEvent) {
	if midi.On && midi.Velocity > 0 {
		p.rack.NoteOn(midi.Channel, midi.Note, midi.Velocity)
		return
	}
	p.rack.NoteOff(midi.Channel, midi.Note)
}

func (p *Player) processMessages() {
loop:
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case NoteOnMsg:
				p.rack.NoteOn(m.Channel, m.Note, m.Velocity)
			case NoteOffMsg:
				p.rack.NoteOff(m.Channel, m.Note)
			case StartMsg:
				p.playing = true
				p.sequencer.Release(&p.rack)
				p.sequencer.Rewind()
				TrySend(p.broker.ToDetector, MsgToDetector{Reset: true})
			case StopMsg:
				p.playing = false
				p.sequencer.Release(&p.rack)
				p.rack.ReleaseAll()
			case PatchMsg:
				p.rack.Set(m.Channel, m.Synth)
			case PanicMsg:
				p.playing = false
				p.sequencer.Release(&p.rack)
				p.rack.Cut()
			case GainMsg:
				p.gain = m.Gain
			case SequenceMsg:
				p.sequencer.Release(&p.rack)
				p.sequencer.Channel = m.Channel
				p.sequencer.SetPattern(m.Pattern)
				p.sequencer.SetTempo(float64(m.BPM), m.RowsPerBeat)
			default:
				// ignore unknown messages
			}
		default:
			break loop
		}
	}
}

// Render renders length frames offline, processing in blocks of blockSize
// frames as an audio driver would.
func (p *Player) Render(length, blockSize int, context PlayerProcessContext) cavesynth.AudioBuffer {
	if blockSize <= 0 {
		blockSize = length
	}
	ret := make(cavesynth.AudioBuffer, length)
	for start := 0; start < length; start += blockSize {
		p.Process(ret[start:min(start+blockSize, length)], context)
	}
	return ret
}

func (p *Player) SendAlert(name, message string, priority AlertPriority) {
	p.send(Alert{
		Name:     name,
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	})
}

// all sends from the player are non-blocking, so the render thread cannot
// dead-lock
func (p *Player) send(message any) {
	TrySend(p.broker.ToModel, MsgToModel{
		HasStatus:    true,
		Playing:      p.playing,
		Row:          p.sequencer.Row(),
		ActiveVoices: p.rack.ActiveVoices(),
		Data:         message,
	})
}
