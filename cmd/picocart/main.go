// picocart is the development harness for the Videocart firmware
// core: it loads images the same way the firmware does, prints what
// the guest would see, and can replay a recorded ROMC trace against
// the emulation with a live websocket monitor attached.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ZX-80/PicoVideocart/internal/bus"
	"github.com/ZX-80/PicoVideocart/internal/cartridge"
	"github.com/ZX-80/PicoVideocart/internal/filecache"
	"github.com/ZX-80/PicoVideocart/internal/memory"
	"github.com/ZX-80/PicoVideocart/internal/monitor"
	"github.com/ZX-80/PicoVideocart/internal/romc"
	"github.com/ZX-80/PicoVideocart/internal/videocart"
	"github.com/ZX-80/PicoVideocart/pkg/utils"
)

func main() {
	romFile := flag.String("rom", "", "the image file to load (.bin or .chf, optionally compressed)")
	dir := flag.String("dir", "", "directory to snapshot the way the firmware's file cache does")
	trace := flag.String("trace", "", "ROMC trace file to replay (one 'romc dbus' hex pair per line)")
	monitorAddr := flag.String("monitor", "", "serve bus events to websocket clients on this address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := logrus.New()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *dir != "" {
		cache, err := filecache.Scan(*dir, logger)
		if err != nil {
			logger.Fatalf("scanning %s: %v", *dir, err)
		}
		for i := 0; i < cache.Len(); i++ {
			kind := "dir "
			if cache.IsFile(i) {
				kind = "file"
			}
			fmt.Printf("%3d  %s  %q\n", i, kind, cache.Title(i))
		}
		return
	}

	if *romFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	image, err := utils.LoadFile(*romFile)
	if err != nil {
		logger.Fatalf("reading %s: %v", *romFile, err)
	}

	var script []bus.Cycle
	if *trace != "" {
		script, err = readTrace(*trace)
		if err != nil {
			logger.Fatalf("reading %s: %v", *trace, err)
		}
	}

	b := bus.NewScriptedBus(script)
	opts := []videocart.Opt{videocart.WithLogger(logger)}

	var hub *monitor.Hub
	if *monitorAddr != "" {
		hub = monitor.NewHub(logger)
		go func() {
			if err := hub.Run(*monitorAddr); err != nil {
				logger.Errorf("monitor: %v", err)
			}
		}()
		opts = append(opts, videocart.WithCycleHook(hub.BroadcastCycle))
	}

	v := videocart.New(b, opts...)
	if err := v.LoadImage(image); err != nil {
		os.Exit(1)
	}
	if hub != nil {
		hub.Broadcast(monitor.AppendLoad(nil, cartridge.Fingerprint(image)))
	}

	describe(v)

	if len(script) > 0 {
		v.Run()
		fmt.Printf("\nreplayed %d cycles, %d drives\n", len(script), len(b.Drives))
		for _, d := range b.Drives {
			c := script[d.Cycle]
			fmt.Printf("  cycle %5d  %-12s drove %02X\n", d.Cycle, romc.Mnemonic(c.ROMC), d.Value)
		}
	}
}

// describe prints the guest-visible memory map and port assignments.
func describe(v *videocart.Videocart) {
	mem := v.Memory()

	fmt.Println("memory map:")
	start := 0
	id := mem.Attribute(0)
	for a := 1; a <= memory.Size; a++ {
		cur := uint8(memory.Reserved)
		if a < memory.Size {
			cur = mem.Attribute(uint16(a))
		}
		if a == memory.Size || cur != id {
			if id != memory.Reserved {
				fmt.Printf("  %04X-%04X  %s\n", start, a-1, chipName(id))
			}
			start, id = a, cur
		}
	}

	if installed := v.Ports().Installed(); len(installed) > 0 {
		fmt.Println("ports:")
		for _, addr := range installed {
			fmt.Printf("  %02X  %T\n", addr, v.Ports().Lookup(addr))
		}
	}
}

func chipName(id uint8) string {
	switch id {
	case memory.ROM:
		return "ROM"
	case memory.RAM:
		return "RAM"
	case memory.LED:
		return "LED"
	case memory.NVRAM:
		return "NVRAM"
	case memory.Reserved:
		return "RESERVED"
	}
	return fmt.Sprintf("chip %02X", id)
}

// readTrace parses a ROMC trace: one "romc dbus" hex pair per line,
// '#' starting a comment.
func readTrace(path string) ([]bus.Cycle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cycles []bus.Cycle
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: want 'romc dbus', got %q", path, line, text)
		}
		r, err := strconv.ParseUint(fields[0], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", path, line, err)
		}
		d, err := strconv.ParseUint(fields[1], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", path, line, err)
		}
		cycles = append(cycles, bus.Cycle{ROMC: uint8(r) & 0x1F, DBus: uint8(d)})
	}
	return cycles, scanner.Err()
}
