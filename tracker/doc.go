/*
Package tracker runs the synth engine in real time.

The Player renders audio on the thread of the audio driver and is never
called from anywhere else. The rest of the program talks to it through the
Broker: Control puts note, transport and patch messages on Broker.ToPlayer,
and the player drains that queue once per buffer. Rendered audio goes to the
Detector for metering, and the player status and Alerts go to Broker.ToModel.
No send on these channels blocks; a full queue drops the message.

Everything that allocates, validating patches and building voices, happens in
Control on the caller's goroutine. The player only swaps in finished synths.
*/
package tracker
