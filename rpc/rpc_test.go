package rpc_test

import (
	"errors"
	"net"
	"net/rpc"
	"strings"
	"testing"
	"time"

	remote "github.com/cavetracker/cavesynth/rpc"
	"github.com/cavetracker/cavesynth/tracker"
)

func TestRemoteControl(t *testing.T) {
	broker := tracker.NewBroker()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen failed: %v", err)
	}
	defer l.Close()
	go remote.Serve(l, tracker.NewControl(broker, 4), 44100)
	client, err := remote.Dial(l.Addr().String())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	if err := client.NoteOn(1, 60, 100); err != nil {
		t.Fatalf("NoteOn failed: %v", err)
	}
	msg, ok := tracker.TimeoutReceive(broker.ToPlayer, time.Second)
	if !ok || msg != any(tracker.NoteOnMsg{Channel: 1, Note: 60, Velocity: 100}) {
		t.Fatalf("player got %#v, expected the note on", msg)
	}
	if err := client.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if msg, _ := tracker.TimeoutReceive(broker.ToPlayer, time.Second); msg != any(tracker.StartMsg{}) {
		t.Fatalf("player got %#v, expected start", msg)
	}
	if err := client.LoadPreset(0, "pad"); err != nil {
		t.Fatalf("LoadPreset failed: %v", err)
	}
	msg, _ = tracker.TimeoutReceive(broker.ToPlayer, time.Second)
	if p, ok := msg.(tracker.PatchMsg); !ok || p.Synth.Patch().SampleRate != 44100 || p.Synth.Polyphony() != 4 {
		t.Fatalf("player got %#v, expected a 4 voice patch at 44100 Hz", msg)
	}

	err = client.LoadPreset(0, "kazoo")
	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) || !strings.Contains(err.Error(), "unknown preset") {
		t.Fatalf("expected a server error about the unknown preset, got %v", err)
	}
	if err := client.NoteOff(99, 60); err == nil {
		t.Fatalf("invalid channel should fail")
	}
}
