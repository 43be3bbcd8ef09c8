// tipetch-monitor tails the status stream the controller prints over
// its USB CDC port. Useful during recipe tuning to watch mode
// transitions and the homing baseline without touching the panel.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"tipetch/host/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	stamps = flag.Bool("timestamps", true, "Prefix each line with the host time")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Printf("Connected to %s, waiting for status lines...\n", *device)

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if *stamps {
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), line)
		} else {
			fmt.Println(line)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: read failed: %v\n", err)
		os.Exit(1)
	}
}
