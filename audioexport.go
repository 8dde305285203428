package cavesynth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// WriteWav encodes the buffer as a 16-bit stereo PCM .wav file.
func WriteWav(w io.WriteSeeker, buffer AudioBuffer, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("WriteWav: %w", ErrInvalidSampleRate)
	}
	enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 2,
		},
		Data:           buffer.Interleave(make([]float32, 0, len(buffer)*2)),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("WriteWav: could not write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("WriteWav: could not finish file: %w", err)
	}
	return nil
}

// Raw returns the buffer as interleaved little-endian samples without any
// header, either as float32 or, if pcm16 is true, as clamped int16.
func Raw(buffer AudioBuffer, pcm16 bool) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if pcm16 {
		data := make([]int16, 0, len(buffer)*2)
		for _, s := range buffer {
			data = append(data, toInt16(s[0]), toInt16(s[1]))
		}
		err = binary.Write(&buf, binary.LittleEndian, data)
	} else {
		err = binary.Write(&buf, binary.LittleEndian, buffer.Interleave(nil))
	}
	if err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

func toInt16(v float32) int16 {
	switch {
	case v >= 1:
		return math.MaxInt16
	case v <= -1:
		return -math.MaxInt16
	}
	return int16(v * math.MaxInt16)
}
