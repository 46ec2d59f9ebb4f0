package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"tracklab/midi"
	"tracklab/scale"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "bank":
		playBank(arg(2))
	case "keys":
		watchKeys(arg(2))
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func arg(i int) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return ""
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI ports")
	fmt.Println("  bank <out>    - Play the C major chord bank on an output")
	fmt.Println("  keys <in>     - Print bank keys played on a keyboard")
	fmt.Println("  poll          - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, err := midi.InPorts()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, name := range ins {
		fmt.Printf("  %d: %s\n", i, name)
	}

	outs, err := midi.OutPorts()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		return
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func playBank(port string) {
	if port == "" {
		fmt.Println("usage: miditest bank <output port>")
		return
	}

	outputs := midi.NewOutputs()
	defer outputs.Close()

	send, err := outputs.Sender(port)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	banks, _ := scale.NewBanks(scale.C)
	sink := midi.NewSink(func(msg gomidi.Message) error {
		fmt.Printf("  -> %s\n", msg)
		return send(msg)
	}, midi.SinkConfig{Velocity: 100, Octave: 4, Gate: 400 * time.Millisecond})
	sink.SetBanks(banks)

	for i, t := range banks.Triads {
		fmt.Printf("%d: %s\n", i+1, t.Entry().Label)
		sink.Trigger(t.Entry().Code)
		time.Sleep(500 * time.Millisecond)
	}
	fmt.Println("Done!")
}

func watchKeys(name string) {
	if name == "" {
		fmt.Println("usage: miditest keys <input port>")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dm := midi.NewDeviceManager(name)
	go dm.Run(ctx)

	banks, _ := scale.NewBanks(scale.C)
	fmt.Printf("Waiting for %q. Ctrl+C to exit.\n", name)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-dm.Events():
			if ev.Type == midi.DeviceConnected {
				fmt.Printf("[%s] connected %s\n", time.Now().Format("15:04:05"), ev.ID)
			} else {
				fmt.Printf("[%s] disconnected %s\n", time.Now().Format("15:04:05"), ev.ID)
			}
		case key := <-dm.Keys():
			if _, entry, ok := banks.ForKey(key); ok {
				fmt.Printf("  %-2s %s (%s)\n", key, entry.Label, entry.Code)
			}
		}
	}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a keyboard to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		inNames, err := midi.InPorts()
		if err != nil {
			fmt.Println(err)
			return
		}
		outNames, err := midi.OutPorts()
		if err != nil {
			fmt.Println(err)
			return
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
