package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	mrecv "go-midirecv/midi"
	"go-midirecv/uart"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "decode":
		err = decodeHex(os.Args[2:])
	case "file":
		err = decodeFile(os.Args[2:])
	case "serial":
		err = decodeSerial(os.Args[2:])
	case "listen":
		err = listen(os.Args[2:])
	case "poll":
		pollDevices()
	default:
		usage()
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                  - List MIDI and serial ports")
	fmt.Println("  decode <hex bytes>    - Decode bytes, e.g. decode 90 3c 7f 3e 00")
	fmt.Println("  file <path> [chunk]   - Decode a raw byte dump, chunk bytes at a time")
	fmt.Println("  serial <port> [baud]  - Decode a UART MIDI input")
	fmt.Println("  listen <name>         - Decode a host MIDI input port")
	fmt.Println("  poll                  - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- midi.GetInPorts()
	}()

	select {
	case ins := <-ch:
		for i, p := range ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}

	fmt.Println("\n=== Serial Ports ===")
	ports, err := uart.Ports()
	if err != nil {
		fmt.Printf("  error: %v\n", err)
		return
	}
	for i, p := range ports {
		fmt.Printf("  %d: %s\n", i, p)
	}
}

// parseHex accepts "90 3c 7f", "903c7f" or "0x90,0x3c"
func parseHex(args []string) ([]byte, error) {
	s := strings.Join(args, "")
	s = strings.NewReplacer("0x", "", "0X", "", ",", "", " ", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

// decodeHex steps the decoder once per call and shows each outcome
func decodeHex(args []string) error {
	data, err := parseHex(args)
	if err != nil {
		return err
	}

	src := mrecv.NewBytesSource(data)
	st := mrecv.NewState()
	for src.Len() > 0 {
		before := len(data) - src.Len()
		var m mrecv.Message
		var res mrecv.Result
		st, m, res = mrecv.Step(st, src)
		consumed := data[before : len(data)-src.Len()]

		fmt.Printf("% X  -> %-10s", consumed, res)
		if res == mrecv.Delivered {
			fmt.Printf(" %s  (gomidi: %s)", m, m.Raw())
		}
		fmt.Printf("  status=%02X pending=%d\n", st.Status, st.Pending)
	}
	return nil
}

// decodeFile feeds a file through a Buffer in chunks, like a UART
// delivering bytes slower than the decoder polls
func decodeFile(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("file: missing path")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	chunk := 3
	if len(args) > 1 {
		if chunk, err = strconv.Atoi(args[1]); err != nil || chunk <= 0 {
			return fmt.Errorf("file: bad chunk size %q", args[1])
		}
	}

	buf := mrecv.NewBuffer(len(data))
	count := 0
	r := mrecv.NewReceiver(buf, func(m mrecv.Message) {
		count++
		fmt.Println(m)
	})

	for off := 0; off < len(data); off += chunk {
		end := min(off+chunk, len(data))
		buf.Write(data[off:end])
		r.Drain(0)
	}

	stats := r.Decoder.Stats()
	fmt.Printf("\n%d bytes, %d messages, %d invalid sequences\n", len(data), stats.Delivered, stats.Invalid)
	return nil
}

func decodeSerial(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("serial: missing port")
	}
	cfg := uart.Config{PortName: args[0]}
	if len(args) > 1 {
		baud, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("serial: bad baud rate %q", args[1])
		}
		cfg.BaudRate = baud
	}

	port, err := uart.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	buf := mrecv.NewBuffer(mrecv.DefaultBufferSize)
	go port.Run(ctx, buf)

	fmt.Printf("Decoding %s. Ctrl+C to exit.\n", port.Name())
	return pollLoop(ctx, mrecv.NewReceiver(buf, printMessage))
}

func listen(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("listen: missing port name")
	}
	inPort, err := mrecv.FindInPort(args[0])
	if err != nil {
		return err
	}

	in, err := mrecv.NewInput(inPort.String(), inPort, mrecv.DefaultBufferSize, printMessage)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Printf("Decoding %s. Ctrl+C to exit.\n", in.ID())
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			in.Poll()
		}
	}
}

// pollLoop polls much faster than MIDI delivers bytes (~320µs each)
func pollLoop(ctx context.Context, r *mrecv.Receiver) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Drain(0)
		}
	}
}

func printMessage(m mrecv.Message) {
	fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), m)
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	lastIn := ""

	for {
		ins := midi.GetInPorts()

		var inNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")

		if currentIn != lastIn {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			lastIn = currentIn
		}

		time.Sleep(2 * time.Second)
	}
}
