package rpc

import (
	"errors"
	"fmt"
	"net"
	"net/rpc"

	"github.com/cavetracker/cavesynth"
	"github.com/cavetracker/cavesynth/tracker"
)

type (
	// Remote is the net/rpc service forwarding remote calls to a Control.
	Remote struct {
		control    *tracker.Control
		sampleRate float64
	}

	NoteArgs struct {
		Channel  int
		Note     byte
		Velocity byte
	}

	PresetArgs struct {
		Channel int
		Name    string
	}

	Empty struct{}

	// Client calls a Remote over a network connection.
	Client struct {
		client *rpc.Client
	}
)

const serviceName = "Remote"

var ErrUnknownPreset = errors.New("unknown preset")

// Serve registers a Remote for the control and serves connections from l
// until l is closed.
func Serve(l net.Listener, control *tracker.Control, sampleRate int) error {
	server := rpc.NewServer()
	if err := server.RegisterName(serviceName, &Remote{control: control, sampleRate: float64(sampleRate)}); err != nil {
		return fmt.Errorf("could not register remote: %w", err)
	}
	server.Accept(l)
	return nil
}

func (r *Remote) NoteOn(args NoteArgs, reply *Empty) error {
	return r.control.NoteOn(args.Channel, args.Note, args.Velocity)
}

func (r *Remote) NoteOff(args NoteArgs, reply *Empty) error {
	return r.control.NoteOff(args.Channel, args.Note)
}

func (r *Remote) Start(args Empty, reply *Empty) error { return r.control.Start() }
func (r *Remote) Stop(args Empty, reply *Empty) error  { return r.control.Stop() }
func (r *Remote) Panic(args Empty, reply *Empty) error { return r.control.Panic() }

// LoadPreset loads one of the built-in presets on a channel.
func (r *Remote) LoadPreset(args PresetArgs, reply *Empty) error {
	p, ok := cavesynth.Presets[args.Name]
	if !ok {
		return fmt.Errorf("%q: %w", args.Name, ErrUnknownPreset)
	}
	return r.control.LoadPatch(args.Channel, p.WithSampleRate(r.sampleRate))
}

// Dial connects to a server started with Serve.
func Dial(address string) (*Client, error) {
	c, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("rpc.Dial failed: %w", err)
	}
	return &Client{client: c}, nil
}

func (c *Client) NoteOn(channel int, note, velocity byte) error {
	return c.call("NoteOn", NoteArgs{Channel: channel, Note: note, Velocity: velocity})
}

func (c *Client) NoteOff(channel int, note byte) error {
	return c.call("NoteOff", NoteArgs{Channel: channel, Note: note})
}

func (c *Client) Start() error { return c.call("Start", Empty{}) }
func (c *Client) Stop() error  { return c.call("Stop", Empty{}) }
func (c *Client) Panic() error { return c.call("Panic", Empty{}) }

func (c *Client) LoadPreset(channel int, name string) error {
	return c.call("LoadPreset", PresetArgs{Channel: channel, Name: name})
}

func (c *Client) Close() error { return c.client.Close() }

// call returns errors of the server as rpc.ServerError; the sentinel errors
// do not survive the connection.
func (c *Client) call(method string, args any) error {
	var reply Empty
	if err := c.client.Call(serviceName+"."+method, args, &reply); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}
