package tracker_test

import (
	"reflect"
	"testing"

	"github.com/cavetracker/cavesynth/tracker"
)

type recordedNote struct {
	Frame   int
	On      bool
	Channel int
	Note    byte
}

type noteRecorder struct {
	frame int
	notes []recordedNote
}

func (r *noteRecorder) NoteOn(channel int, note, velocity byte) {
	r.notes = append(r.notes, recordedNote{r.frame, true, channel, note})
}

func (r *noteRecorder) NoteOff(channel int, note byte) {
	r.notes = append(r.notes, recordedNote{r.frame, false, channel, note})
}

func TestStepSequencer(t *testing.T) {
	s := tracker.NewStepSequencer(8)
	s.SetTempo(60, 2)
	if s.SamplesPerRow() != 4 {
		t.Fatalf("SamplesPerRow %d, expected 4", s.SamplesPerRow())
	}
	s.Channel = 3
	s.SetPattern([]byte{60, 1, 0, 64})
	s.Rewind()
	r := &noteRecorder{}
	for r.frame = 0; r.frame < 17; r.frame++ {
		s.Tick(r)
	}
	expected := []recordedNote{
		{0, true, 3, 60},
		{8, false, 3, 60},
		{12, true, 3, 64},
		{16, false, 3, 64},
		{16, true, 3, 60},
	}
	if !reflect.DeepEqual(r.notes, expected) {
		t.Fatalf("got notes %v, expected %v", r.notes, expected)
	}
	if s.Row() != 0 {
		t.Fatalf("row %d after wrapping, expected 0", s.Row())
	}
	s.Release(r)
	s.Release(r)
	if n := len(r.notes); n != 6 || r.notes[5].On {
		t.Fatalf("Release should send exactly one note off, got %v", r.notes[5:])
	}
}

func TestEmptySequencerIsSilent(t *testing.T) {
	s := tracker.NewStepSequencer(44100)
	r := &noteRecorder{}
	for i := 0; i < 100000; i++ {
		s.Tick(r)
	}
	if len(r.notes) != 0 {
		t.Fatalf("empty pattern produced %v", r.notes)
	}
}
