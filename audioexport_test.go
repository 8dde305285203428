package cavesynth_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cavetracker/cavesynth"
)

func TestRawPCM16(t *testing.T) {
	buf := cavesynth.AudioBuffer{{0, 0.5}, {1.5, -2}}
	b, err := cavesynth.Raw(buf, true)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	got := make([]int16, 4)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, got); err != nil {
		t.Fatalf("could not read back: %v", err)
	}
	expected := []int16{0, 16383, 32767, -32767}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("sample %d: %d, expected %d", i, got[i], expected[i])
		}
	}
}

func TestRawFloat(t *testing.T) {
	b, err := cavesynth.Raw(cavesynth.AudioBuffer{{0.25, -0.25}}, false)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if len(b) != 8 {
		t.Fatalf("one stereo float32 frame should be 8 bytes, got %d", len(b))
	}
}

func TestWriteWav(t *testing.T) {
	buf := make(cavesynth.AudioBuffer, 1000)
	buf.Fill(func() float64 { return 0.5 }, 1)
	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatalf("could not create file: %v", err)
	}
	defer f.Close()
	if err := cavesynth.WriteWav(f, buf, 44100); err != nil {
		t.Fatalf("WriteWav failed: %v", err)
	}
	info, err := f.Stat()
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	// 1000 frames * 2 channels * 2 bytes, plus the header
	if info.Size() <= 4000 {
		t.Fatalf("file size %d, expected more than 4000 bytes", info.Size())
	}
	if err := cavesynth.WriteWav(f, buf, 0); !errors.Is(err, cavesynth.ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
}

func TestFillAndClear(t *testing.T) {
	buf := make(cavesynth.AudioBuffer, 3)
	buf.Fill(func() float64 { return 1 }, 0.5)
	if buf[2] != [2]float32{0.5, 0.5} {
		t.Fatalf("Fill wrote %v, expected both channels at 0.5", buf[2])
	}
	buf.Clear()
	if buf[0] != [2]float32{} {
		t.Fatalf("Clear left %v", buf[0])
	}
}
