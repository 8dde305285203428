package tracker

import (
	"math"

	"github.com/cavetracker/cavesynth"
	"github.com/viterin/vek/vek32"
)

type (
	// Detector measures the level of the rendered audio in its own
	// goroutine. The player sends it the rendered buffers; results go to
	// Broker.ToModel, one per chunk of audio.
	Detector struct {
		broker    *Broker
		chunkSize int
		history   cavesynth.AudioBuffer
		peaks     [2]float32 // maximum absolute value since the last reset
		tmp, tmp2 []float32
	}

	Decibel float32

	// DetectorResult holds the levels of one chunk, per channel.
	DetectorResult struct {
		RMS      [2]Decibel
		Peak     [2]Decibel
		MaxPeak  [2]Decibel // since the last reset
		Clipping bool
	}
)

// silenceDB is reported for a level of exactly zero.
const silenceDB = -120

// NewDetector creates a detector producing one result every chunkSize frames,
// e.g. sampleRate/10 for 100 ms chunks.
func NewDetector(b *Broker, chunkSize int) *Detector {
	if chunkSize <= 0 {
		chunkSize = 4410
	}
	return &Detector{broker: b, chunkSize: chunkSize}
}

// Run processes messages until CloseDetector is signalled.
func (d *Detector) Run() {
	for {
		select {
		case <-d.broker.CloseDetector:
			close(d.broker.FinishedDetector)
			return
		case msg := <-d.broker.ToDetector:
			if msg.Reset {
				d.reset()
			}
			switch data := msg.Data.(type) {
			case *cavesynth.AudioBuffer:
				d.process(*data)
				d.broker.PutAudioBuffer(data)
			case func():
				data()
			}
		}
	}
}

func (d *Detector) reset() {
	d.history = d.history[:0]
	d.peaks = [2]float32{}
}

func (d *Detector) process(buf cavesynth.AudioBuffer) {
	for len(buf) > 0 {
		l := min(len(buf), d.chunkSize-len(d.history))
		d.history = append(d.history, buf[:l]...)
		buf = buf[l:]
		if len(d.history) < d.chunkSize {
			return
		}
		TrySend(d.broker.ToModel, MsgToModel{HasDetectorResult: true, DetectorResult: d.Measure(d.history)})
		d.history = d.history[:0]
	}
}

// Measure computes the levels of a chunk and updates the running peaks.
func (d *Detector) Measure(chunk cavesynth.AudioBuffer) (ret DetectorResult) {
	if len(chunk) == 0 {
		return
	}
	if cap(d.tmp) < len(chunk) {
		d.tmp = make([]float32, len(chunk))
		d.tmp2 = make([]float32, len(chunk))
	}
	for chn := 0; chn < 2; chn++ {
		x := d.tmp[:len(chunk)]
		for i := range chunk {
			x[i] = chunk[i][chn]
		}
		power := vek32.Mean(vek32.Mul_Into(d.tmp2[:len(chunk)], x, x))
		ret.RMS[chn] = toDecibel(float32(math.Sqrt(float64(power))))
		vek32.Abs_Inplace(x)
		peak := vek32.Max(x)
		d.peaks[chn] = max(d.peaks[chn], peak)
		ret.Peak[chn] = toDecibel(peak)
		ret.MaxPeak[chn] = toDecibel(d.peaks[chn])
		if peak >= 1 {
			ret.Clipping = true
		}
	}
	return
}

func toDecibel(amplitude float32) Decibel {
	if amplitude <= 0 {
		return silenceDB
	}
	return Decibel(20 * math.Log10(float64(amplitude)))
}
