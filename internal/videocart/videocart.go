// Package videocart assembles the emulated cartridge: attributed
// memory, port table, ROMC dispatcher and main loop, plus the loader
// glue that swaps images when the menu requests one.
package videocart

import (
	"time"

	"github.com/ZX-80/PicoVideocart/internal/bus"
	"github.com/ZX-80/PicoVideocart/internal/cartridge"
	"github.com/ZX-80/PicoVideocart/internal/filecache"
	"github.com/ZX-80/PicoVideocart/internal/memory"
	"github.com/ZX-80/PicoVideocart/internal/monitor"
	"github.com/ZX-80/PicoVideocart/internal/ports"
	"github.com/ZX-80/PicoVideocart/internal/romc"
	"github.com/ZX-80/PicoVideocart/pkg/log"
)

// Videocart impersonates original cartridge hardware on the console's
// external bus. All state is owned by the goroutine that calls Run;
// the loader runs on the same goroutine between bus cycles.
type Videocart struct {
	bus   bus.Interface
	mem   *memory.Memory
	table *ports.Table
	disp  *romc.Dispatcher

	files *filecache.Cache

	// load is the single-slot trigger the Launcher port announces
	// selections on; Run polls it between cycles.
	load chan int

	logger  log.Logger
	entropy ports.BitSource
	onCycle func(monitor.CycleEvent)
	sleep   func(time.Duration)
}

// Opt configures a Videocart.
type Opt func(*Videocart)

// WithLogger routes loader and cache messages to l. The bus loop
// itself never logs.
func WithLogger(l log.Logger) Opt {
	return func(v *Videocart) { v.logger = l }
}

// WithFiles attaches a directory snapshot for the Launcher menu.
func WithFiles(c *filecache.Cache) Opt {
	return func(v *Videocart) { v.files = c }
}

// WithEntropy overrides the RNG port's entropy source.
func WithEntropy(b ports.BitSource) Opt {
	return func(v *Videocart) { v.entropy = b }
}

// WithCycleHook registers fn to observe every serviced bus cycle.
// Intended for the monitor; fn runs on the bus goroutine and must be
// cheap.
func WithCycleHook(fn func(monitor.CycleEvent)) Opt {
	return func(v *Videocart) { v.onCycle = fn }
}

// WithNVStore attaches a persistence layer to the NVRAM chip type.
func WithNVStore(s memory.NVStore) Opt {
	return func(v *Videocart) { v.mem.AttachNVStore(s) }
}

// New returns a Videocart on the given bus with cleared memory and no
// image loaded.
func New(b bus.Interface, opts ...Opt) *Videocart {
	v := &Videocart{
		bus:    b,
		load:   make(chan int, 1),
		logger: log.NewNullLogger(),
		sleep:  time.Sleep,
	}
	v.mem = memory.New(b.ToggleLED)
	v.table = ports.NewTable()
	v.disp = romc.NewDispatcher(v.mem, v.table, b)
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Memory exposes the attributed memory, for tools and tests.
func (v *Videocart) Memory() *memory.Memory { return v.mem }

// Ports exposes the I/O port table, for tools and tests.
func (v *Videocart) Ports() *ports.Table { return v.table }

// Dispatcher exposes the ROMC dispatcher, for tools and tests.
func (v *Videocart) Dispatcher() *romc.Dispatcher { return v.disp }

// LoadImage replaces the current image. On a bad image the memory is
// left cleared and the failure is signalled on the debug LED.
func (v *Videocart) LoadImage(data []byte) error {
	cfg := cartridge.Config{
		Trigger: v.load,
		Entropy: v.entropy,
		Logger:  v.logger,
	}
	if v.files != nil {
		cfg.Files = v.files
	}

	err := cartridge.Load(v.mem, v.table, data, cfg)
	if err != nil {
		v.logger.Errorf("load failed: %v", err)
		v.Blink(BlinkNoValidFiles)
	}
	return err
}

// Run services the bus until the host powers down. Each cycle: wait
// for the falling WRITE edge and release the data bus, wait for the
// rising edge, sample ROMC and data, dispatch. The dispatcher may
// drive the data bus; it is released again at the next falling edge.
//
// Between cycles Run polls the load trigger and yields to the loader
// when the Launcher has selected an entry.
func (v *Videocart) Run() {
	for v.bus.Present() {
		for v.bus.WriteLevel() {
		}

		// Falling edge
		v.bus.ReleaseDBus()

		for !v.bus.WriteLevel() {
		}

		// Rising edge
		romcCmd := v.bus.ReadROMC()
		dbus := v.bus.ReadDBus()
		v.disp.Step(romcCmd, dbus)

		if v.onCycle != nil {
			v.onCycle(monitor.CycleEvent{ROMC: romcCmd, DBus: dbus, PC0: v.disp.PC0})
		}

		select {
		case i := <-v.load:
			v.loadEntry(i)
		default:
		}
	}
}

// loadEntry re-reads a cached file and installs it.
func (v *Videocart) loadEntry(i int) {
	if v.files == nil {
		return
	}
	data, err := v.files.Open(i)
	if err != nil {
		v.logger.Errorf("reading %s: %v", v.files.Path(i), err)
		v.Blink(BlinkNoValidFiles)
		return
	}
	_ = v.LoadImage(data)
}

// TriggerInterruptRequest drives the INTRQ wire high. The interrupt
// priority chain itself is not emulated.
func (v *Videocart) TriggerInterruptRequest() { v.bus.SetINTRQ(true) }

// ResetInterruptRequest drives the INTRQ wire low.
func (v *Videocart) ResetInterruptRequest() { v.bus.SetINTRQ(false) }
