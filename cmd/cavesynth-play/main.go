package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"

	"github.com/cavetracker/cavesynth"
	"github.com/cavetracker/cavesynth/cmd"
	"github.com/cavetracker/cavesynth/oto"
	"github.com/cavetracker/cavesynth/rpc"
	"github.com/cavetracker/cavesynth/tracker"
	"github.com/cavetracker/cavesynth/version"
)

func main() {
	configFile := flag.String("c", "", "Read the settings from a YAML config `file`. Missing settings keep their defaults.")
	preset := flag.String("p", "", "Play this preset on channel 0, overriding the config.")
	polyphony := flag.Int("poly", 0, "Number of voices per channel, overriding the config.")
	sequence := flag.Bool("s", false, "Start the step sequencer playing the pattern of the config.")
	wavOut := flag.String("w", "", "Render offline to a .wav `file` instead of playing.")
	rawOut := flag.String("r", "", "Render offline to a .raw `file` of stereo float32 samples instead of playing.")
	pcm := flag.Bool("pcm", false, "Write 16-bit signed PCM instead of float32 to the .raw file.")
	length := flag.Float64("len", 8, "Length of the offline render in seconds.")
	describe := flag.Bool("describe", false, "Print the patches of the configured channels and exit.")
	listen := flag.String("listen", "", "Serve remote control on this `address`, overriding the config.")
	midiInput := flag.String("midi-input", "", "Connect MIDI input to the device with matching name `prefix`, overriding the config.")
	meter := flag.Bool("meter", false, "Log the output levels.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	cfg := cavesynth.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = cavesynth.LoadConfig(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if *preset != "" {
		cfg.Channels[0] = *preset
	}
	if isFlagPassed("poly") {
		cfg.Polyphony = *polyphony
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if isFlagPassed("midi-input") {
		cfg.MIDIInput = *midiInput
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if *describe {
		for ch := 0; ch < 16; ch++ {
			name, ok := cfg.Channels[ch]
			if !ok {
				continue
			}
			fmt.Printf("channel %d: ", ch)
			if err := cavesynth.DescribePatch(os.Stdout, name, cavesynth.Presets[name]); err != nil {
				log.Fatal(err)
			}
		}
		os.Exit(0)
	}

	broker := tracker.NewBroker()
	control := tracker.NewControl(broker, cfg.Polyphony)
	if err := control.LoadConfig(cfg); err != nil {
		log.Fatal(err)
	}
	player := tracker.NewPlayer(broker, cfg.SampleRate)
	detector := tracker.NewDetector(broker, cfg.SampleRate/10)
	go detector.Run()
	defer func() {
		tracker.TrySend(broker.CloseDetector, struct{}{})
		<-broker.FinishedDetector
	}()

	if *wavOut != "" || *rawOut != "" {
		if err := render(cfg, control, player, *length, *wavOut, *rawOut, *pcm); err != nil {
			log.Fatal(err)
		}
		cmd.DrainMessages(broker, *meter)
		return
	}

	audioContext, err := oto.NewContext(cfg.SampleRate, cfg.BufferSize)
	if err != nil {
		log.Fatal(err)
	}
	defer audioContext.Close()

	midiContext := cmd.NewMIDIContext(cfg.SampleRate)
	defer midiContext.Close()
	if cfg.MIDIInput != "" {
		input, err := tracker.OpenMIDIInput(midiContext, cfg.MIDIInput)
		if err != nil {
			log.Printf("failed to open MIDI input '%s': %v", cfg.MIDIInput, err)
		} else {
			log.Printf("listening to MIDI input %v", input)
		}
	}

	if cfg.Listen != "" {
		l, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			log.Fatal(err)
		}
		defer l.Close()
		go func() {
			if err := rpc.Serve(l, control, cfg.SampleRate); err != nil {
				log.Print(err)
			}
		}()
		log.Printf("remote control listening on %v", l.Addr())
	}

	if *sequence {
		if err := control.Start(); err != nil {
			log.Print(err)
		}
	}

	stream := audioContext.Play(func(buf cavesynth.AudioBuffer) error {
		player.Process(buf, midiContext)
		return nil
	})
	done := make(chan struct{})
	go cmd.LogMessages(broker, *meter, done)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		stream.Close()
	}()
	log.Printf("playing %v at %d Hz, press Ctrl+C to quit", channelList(cfg), cfg.SampleRate)
	stream.Wait()
	close(done)
}

func render(cfg cavesynth.Config, control *tracker.Control, player *tracker.Player, seconds float64, wavOut, rawOut string, pcm bool) error {
	if err := control.Start(); err != nil {
		return err
	}
	buffer := player.Render(int(seconds*float64(cfg.SampleRate)), cfg.BufferSize, tracker.NullMIDIContext{})
	if wavOut != "" {
		f, err := os.Create(wavOut)
		if err != nil {
			return fmt.Errorf("could not create %v: %w", wavOut, err)
		}
		defer f.Close()
		if err := cavesynth.WriteWav(f, buffer, cfg.SampleRate); err != nil {
			return err
		}
	}
	if rawOut != "" {
		b, err := cavesynth.Raw(buffer, pcm)
		if err != nil {
			return err
		}
		if err := os.WriteFile(rawOut, b, 0644); err != nil {
			return fmt.Errorf("could not write %v: %w", rawOut, err)
		}
	}
	return nil
}

func channelList(cfg cavesynth.Config) string {
	var parts []string
	for ch := 0; ch < 16; ch++ {
		if name, ok := cfg.Channels[ch]; ok {
			parts = append(parts, fmt.Sprintf("%d:%s", ch, name))
		}
	}
	return strings.Join(parts, " ")
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
