package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/cavetracker/cavesynth/rpc"
	"github.com/cavetracker/cavesynth/version"
)

func main() {
	address := flag.String("a", "localhost:7070", "Address of the player.")
	channel := flag.Int("ch", 0, "MIDI channel (0-15) of note and preset commands.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(0)
	}
	client, err := rpc.Dial(*address)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()
	if err := run(client, *channel, args); err != nil {
		log.Fatal(err)
	}
}

func run(client *rpc.Client, channel int, args []string) error {
	switch args[0] {
	case "on":
		note, err := byteArg(args, 1, 60)
		if err != nil {
			return err
		}
		velocity, err := byteArg(args, 2, 100)
		if err != nil {
			return err
		}
		return client.NoteOn(channel, note, velocity)
	case "off":
		note, err := byteArg(args, 1, 60)
		if err != nil {
			return err
		}
		return client.NoteOff(channel, note)
	case "start":
		return client.Start()
	case "stop":
		return client.Stop()
	case "panic":
		return client.Panic()
	case "preset":
		if len(args) < 2 {
			return fmt.Errorf("preset: missing preset name")
		}
		return client.LoadPreset(channel, args[1])
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func byteArg(args []string, i int, def byte) (byte, error) {
	if len(args) <= i {
		return def, nil
	}
	v, err := strconv.ParseUint(args[i], 10, 7)
	if err != nil {
		return 0, fmt.Errorf("%v: not a value between 0 and 127: %w", args[i], err)
	}
	return byte(v), nil
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Sends commands to a running cavesynth-play -listen.\nUsage: %s [flags] command [arguments]\n\nCommands:\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "  on [note [velocity]]  trigger a note\n  off [note]            release a note\n  start, stop           start or stop the step sequencer\n  panic                 silence all voices\n  preset name           load a preset\n\nFlags:\n")
	flag.PrintDefaults()
}
