// tconsole attaches to a physical board over USB serial and decodes
// the bus-event stream the firmware emits: one framed event per
// serviced cycle, plus load announcements. Useful for watching real
// software exercise the cartridge.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	"github.com/sirupsen/logrus"

	"github.com/ZX-80/PicoVideocart/internal/monitor"
	"github.com/ZX-80/PicoVideocart/internal/romc"
)

var (
	tty   = flag.String("tty", "/dev/ttyACM0", "serial device connected by USB to the board")
	baud  = flag.Uint("baud", 115200, "serial device baud rate")
	debug = flag.Bool("debug", false, "log unknown stream bytes")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	options := serial.OpenOptions{
		PortName:        *tty,
		BaudRate:        *baud,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(options)
	if err != nil {
		logger.Fatalf("serial.Open: %v", err)
	}
	defer port.Close()

	logger.Infof("listening on %s at %d baud", *tty, *baud)

	r := bufio.NewReader(port)
	var cycle uint64
	for {
		event, err := r.ReadByte()
		if err != nil {
			if err != io.EOF {
				logger.Errorf("read: %v", err)
			}
			return
		}

		n := monitor.BodyLen(event)
		if n < 0 {
			// stream noise; resynchronize on the next event byte
			logger.Debugf("unknown event byte %02X", event)
			continue
		}

		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			logger.Errorf("read: %v", err)
			return
		}

		switch event {
		case monitor.EventCycle:
			e, _ := monitor.DecodeCycle(body)
			fmt.Printf("%8d  %-12s romc=%02X dbus=%02X pc0=%04X\n",
				cycle, romc.Mnemonic(e.ROMC), e.ROMC, e.DBus, e.PC0)
			cycle++
		case monitor.EventLoad:
			fp, _ := monitor.DecodeLoad(body)
			fmt.Printf("========  image loaded, fingerprint %016x\n", fp)
			cycle = 0
		}
	}
}
