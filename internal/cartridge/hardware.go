package cartridge

import (
	"github.com/ZX-80/PicoVideocart/internal/memory"
	"github.com/ZX-80/PicoVideocart/internal/ports"
)

// Hardware types named by the CHF header. The type determines which
// ports (if any) are installed alongside the image.
const (
	HardwareVideocart     = 0
	HardwareVideocart1018 = 1
	HardwareROMRAM        = 2
	HardwareSABA          = 3
	HardwareMulticart     = 4
	HardwareFlashcart     = 5
)

// Port assignments. The SRAM ports are the ones Videocart 10 and 18
// used; the RNG and stack ports are the experimental flashcart
// devices.
const (
	portSRAM0A    = 0x20
	portSRAM1A    = 0x21
	portSRAM0B    = 0x24
	portSRAM1B    = 0x25
	portRandom    = 0x08
	portDataStack = 0x09
	portRetStack  = 0x0A
	portLauncher  = 0xFF
)

// installHardware installs the port profile selected by the CHF
// hardware type. Unknown types behave as a plain Videocart: no ports.
func installHardware(mem *memory.Memory, table *ports.Table, hw uint16, cfg Config) {
	switch hw {
	case HardwareVideocart1018:
		installSRAM(table)
	case HardwareFlashcart:
		installFlashcart(mem, table, cfg)
		table.Install(portRandom, ports.NewRandom(cfg.Entropy))
		table.Install(portDataStack, ports.NewHardwareStack())
		table.Install(portRetStack, ports.NewHardwareStack())
	}
}

// installSRAM wires a single 2102 across its four port addresses. Both
// pairs share one backing store.
func installSRAM(table *ports.Table) {
	sram := ports.NewSRAM2102()
	a, b := sram.Port(0), sram.Port(1)
	table.Install(portSRAM0A, a)
	table.Install(portSRAM1A, b)
	table.Install(portSRAM0B, a)
	table.Install(portSRAM1B, b)
}

// installFlashcart is the default profile for BIN images and the base
// of the flashcart profile: the 2102 plus the Launcher menu port.
func installFlashcart(mem *memory.Memory, table *ports.Table, cfg Config) {
	installSRAM(table)
	table.Install(portLauncher, ports.NewLauncher(cfg.Files, mem, cfg.Trigger))
}
