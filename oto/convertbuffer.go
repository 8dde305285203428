package oto

import (
	"encoding/binary"
	"math"

	"github.com/cavetracker/cavesynth"
)

// AudioBufferToFloat32LE writes the buffer as interleaved little-endian
// float32 samples to dst, as many whole frames as fit. Returns the number of
// bytes written.
func AudioBufferToFloat32LE(buf cavesynth.AudioBuffer, dst []byte) int {
	n := min(len(buf), len(dst)/bytesPerFrame)
	for i, s := range buf[:n] {
		binary.LittleEndian.PutUint32(dst[i*8:], math.Float32bits(s[0]))
		binary.LittleEndian.PutUint32(dst[i*8+4:], math.Float32bits(s[1]))
	}
	return n * bytesPerFrame
}
