//go:build plugin

package main

import (
	"log"

	"github.com/cavetracker/cavesynth"
	"github.com/cavetracker/cavesynth/tracker"
	"pipelined.dev/audio/vst2"
)

var (
	pluginID   = [4]byte{'C', 'v', 'S', 'y'}
	pluginName = "CaveSynth"
)

const (
	pluginVersion = int32(100)
	polyphony     = 16
	defaultPreset = "pluck"
)

type VSTIProcessContext struct {
	events     []vst2.MIDIEvent
	eventIndex int
	host       vst2.Host
}

func (c *VSTIProcessContext) NextEvent(frame int) (event tracker.MIDINoteEvent, ok bool) {
	for c.eventIndex < len(c.events) {
		ev := c.events[c.eventIndex]
		c.eventIndex++
		switch {
		case ev.Data[0] >= 0x80 && ev.Data[0] < 0x90:
			channel := ev.Data[0] - 0x80
			note := ev.Data[1]
			return tracker.MIDINoteEvent{Frame: int(ev.DeltaFrames), On: false, Channel: int(channel), Note: note}, true
		case ev.Data[0] >= 0x90 && ev.Data[0] < 0xA0:
			channel := ev.Data[0] - 0x90
			note := ev.Data[1]
			return tracker.MIDINoteEvent{Frame: int(ev.DeltaFrames), On: true, Channel: int(channel), Note: note, Velocity: ev.Data[2]}, true
		default:
			// ignore all other MIDI messages
		}
	}
	return tracker.MIDINoteEvent{}, false
}

func (c *VSTIProcessContext) FinishBlock(frame int) {
	c.events = c.events[:0] // reset buffer, but keep the allocated memory
	c.eventIndex = 0
}

func (c *VSTIProcessContext) BPM() (bpm float64, ok bool) {
	timeInfo := c.host.GetTimeInfo(vst2.TempoValid)
	if timeInfo == nil || timeInfo.Flags&vst2.TempoValid == 0 || timeInfo.Tempo == 0 {
		return 0, false
	}
	return timeInfo.Tempo, true
}

func init() {
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		sampleRate := int(h.GetSampleRate())
		if sampleRate <= 0 {
			sampleRate = 44100
		}
		broker := tracker.NewBroker()
		control := tracker.NewControl(broker, polyphony)
		// only channel 0 is loaded: every loaded channel counts in the mix
		if err := control.LoadPatch(0, cavesynth.Presets[defaultPreset].WithSampleRate(float64(sampleRate))); err != nil {
			log.Printf("could not load preset %v: %v", defaultPreset, err)
		}
		player := tracker.NewPlayer(broker, sampleRate)
		context := VSTIProcessContext{host: h}
		buf := make(cavesynth.AudioBuffer, 1024)
		return vst2.Plugin{
				UniqueID:       pluginID,
				Version:        pluginVersion,
				InputChannels:  0,
				OutputChannels: 2,
				Name:           pluginName,
				Vendor:         "cavetracker",
				Category:       vst2.PluginCategorySynth,
				Flags:          vst2.PluginIsSynth,
				ProcessFloatFunc: func(in, out vst2.FloatBuffer) {
					left := out.Channel(0)
					right := out.Channel(1)
					if len(buf) < out.Frames {
						buf = append(buf, make(cavesynth.AudioBuffer, out.Frames-len(buf))...)
					}
					buf = buf[:out.Frames]
					player.Process(buf, &context)
					for i := 0; i < out.Frames; i++ {
						left[i], right[i] = buf[i][0], buf[i][1]
					}
					// nobody reads the status in a plugin; keep the queue from filling up
					for len(broker.ToModel) > 0 {
						<-broker.ToModel
					}
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					switch pcds {
					case vst2.PluginCanReceiveEvents, vst2.PluginCanReceiveMIDIEvent, vst2.PluginCanReceiveTimeInfo:
						return vst2.YesCanDo
					}
					return vst2.NoCanDo
				},
				ProcessEventsFunc: func(ev *vst2.EventsPtr) {
					for i := 0; i < ev.NumEvents(); i++ {
						a := ev.Event(i)
						switch v := a.(type) {
						case *vst2.MIDIEvent:
							context.events = append(context.events, *v)
						}
					}
				},
				CloseFunc: func() {
					control.Panic()
				},
			}
	}
}

func main() {}
