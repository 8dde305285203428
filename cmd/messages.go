package cmd

import (
	"log"

	"github.com/cavetracker/cavesynth/tracker"
)

// LogMessages logs the alerts, and optionally the detector results, sent to
// the model until ToModel is closed or done is.
func LogMessages(broker *tracker.Broker, meter bool, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-broker.ToModel:
			if !ok {
				return
			}
			logMessage(msg, meter)
		}
	}
}

// DrainMessages logs the messages waiting in ToModel without blocking.
func DrainMessages(broker *tracker.Broker, meter bool) {
	for {
		select {
		case msg := <-broker.ToModel:
			logMessage(msg, meter)
		default:
			return
		}
	}
}

func logMessage(msg tracker.MsgToModel, meter bool) {
	if a, ok := msg.Data.(tracker.Alert); ok {
		log.Print(a)
	}
	if meter && msg.HasDetectorResult {
		r := msg.DetectorResult
		log.Printf("rms %5.1f dB  peak %5.1f dB  max %5.1f dB", r.RMS[0], r.Peak[0], r.MaxPeak[0])
	}
}
