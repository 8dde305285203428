package engine

import "math"

// RackSlots is the number of synth slots in a Rack, one per MIDI channel.
const RackSlots = 16

// Rack mixes several Synths, one per MIDI channel.
type Rack struct {
	slots [RackSlots]*Synth
	last  [RackSlots]float64 // output of each slot in the last NextSample
}

// Set replaces the synth in a slot; nil empties it. Out of range slots are
// ignored.
func (r *Rack) Set(slot int, s *Synth) {
	if slot < 0 || slot >= RackSlots {
		return
	}
	r.slots[slot] = s
	r.last[slot] = 0
}

// Clear empties every slot.
func (r *Rack) Clear() {
	r.slots = [RackSlots]*Synth{}
	r.last = [RackSlots]float64{}
}

// Synth returns the synth in a slot, or nil.
func (r *Rack) Synth(slot int) *Synth {
	if slot < 0 || slot >= RackSlots {
		return nil
	}
	return r.slots[slot]
}

// NextSample returns the mean of one sample of every non-empty slot.
func (r *Rack) NextSample() float64 {
	var sum float64
	count := 0
	for i, s := range r.slots {
		if s == nil {
			continue
		}
		r.last[i] = s.NextSample()
		sum += r.last[i]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (r *Rack) NoteOn(slot int, note, velocity byte) {
	if s := r.Synth(slot); s != nil {
		s.NoteOn(note, velocity)
	}
}

func (r *Rack) NoteOff(slot int, note byte) {
	if s := r.Synth(slot); s != nil {
		s.NoteOff(note)
	}
}

// ReleaseAll releases all voices in all slots.
func (r *Rack) ReleaseAll() {
	for _, s := range r.slots {
		if s != nil {
			s.ReleaseAll()
		}
	}
}

// ActiveVoices returns the number of sounding voices over all slots.
func (r *Rack) ActiveVoices() (ret int) {
	for _, s := range r.slots {
		if s != nil {
			ret += s.ActiveVoices()
		}
	}
	return
}

// Cut silences all voices in all slots immediately.
func (r *Rack) Cut() {
	for _, s := range r.slots {
		if s != nil {
			s.Cut()
		}
	}
}

// Faulty returns the first slot whose last output was NaN or infinite.
func (r *Rack) Faulty() (slot int, ok bool) {
	for i, v := range r.last {
		if r.slots[i] != nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return i, true
		}
	}
	return 0, false
}
