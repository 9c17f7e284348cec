package romc

import (
	"testing"

	"github.com/ZX-80/PicoVideocart/internal/bus"
	"github.com/ZX-80/PicoVideocart/internal/memory"
	"github.com/ZX-80/PicoVideocart/internal/ports"
)

func newTestDispatcher() (*Dispatcher, *memory.Memory, *ports.Table, *bus.ScriptedBus) {
	mem := memory.New(nil)
	table := ports.NewTable()
	b := bus.NewScriptedBus(nil)
	return NewDispatcher(mem, table, b), mem, table, b
}

// lastDrive returns the most recent byte driven on the bus.
func lastDrive(t *testing.T, b *bus.ScriptedBus) uint8 {
	t.Helper()
	if len(b.Drives) == 0 {
		t.Fatal("nothing driven on the data bus")
	}
	return b.Drives[len(b.Drives)-1].Value
}

func TestFetchDrivesAndIncrements(t *testing.T) {
	d, mem, _, b := newTestDispatcher()
	mem.TagRange(0x0801, 1, memory.ROM)
	mem.Poke(0x0801, 0x42)
	d.PC0 = 0x0801

	d.Step(0x00, 0x00)

	if got := lastDrive(t, b); got != 0x42 {
		t.Errorf("drove %02X, want 42", got)
	}
	if d.PC0 != 0x0802 {
		t.Errorf("PC0 = %04X, want 0802", d.PC0)
	}
}

func TestFetchFromReservedDoesNotDrive(t *testing.T) {
	d, _, _, b := newTestDispatcher()
	d.PC0 = 0x0100 // BIOS range, permanently reserved

	d.Step(0x00, 0x00)

	if len(b.Drives) != 0 {
		t.Errorf("drove %02X from a reserved address", b.Drives[0].Value)
	}
	if d.PC0 != 0x0101 {
		t.Errorf("PC0 = %04X, want 0101", d.PC0)
	}
}

func TestRelativeBranchUsesDrivenByte(t *testing.T) {
	d, mem, _, b := newTestDispatcher()
	mem.TagRange(0x0900, 1, memory.ROM)
	mem.Poke(0x0900, 0xFE) // -2
	d.PC0 = 0x0900

	d.Step(0x01, 0x00)

	if got := lastDrive(t, b); got != 0xFE {
		t.Errorf("drove %02X, want FE", got)
	}
	if d.PC0 != 0x08FE {
		t.Errorf("PC0 = %04X, want 08FE (0900 - 2)", d.PC0)
	}
}

func TestRelativeBranchSuppressedKeepsSampledByte(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.PC0 = 0x0100 // reserved: the drive is suppressed, the latch stale

	d.Step(0x01, 0x05)

	if d.PC0 != 0x0105 {
		t.Errorf("PC0 = %04X, want 0105 (sampled byte added)", d.PC0)
	}
}

func TestReadDC0AndIncrement(t *testing.T) {
	d, mem, _, b := newTestDispatcher()
	mem.TagRange(0x2000, 1, memory.ROM)
	mem.Poke(0x2000, 0x99)
	d.DC0 = 0x2000

	d.Step(0x02, 0x00)

	if got := lastDrive(t, b); got != 0x99 {
		t.Errorf("drove %02X, want 99", got)
	}
	if d.DC0 != 0x2001 {
		t.Errorf("DC0 = %04X, want 2001", d.DC0)
	}
}

func TestImmediateOperandLatchesIOAddress(t *testing.T) {
	d, mem, _, b := newTestDispatcher()
	mem.TagRange(0x0850, 1, memory.ROM)
	mem.Poke(0x0850, 0x20)
	d.PC0 = 0x0850

	d.Step(0x03, 0x00)

	if d.IOAddress != 0x20 {
		t.Errorf("io address = %02X, want 20", d.IOAddress)
	}
	if got := lastDrive(t, b); got != 0x20 {
		t.Errorf("drove %02X, want 20", got)
	}
	if d.PC0 != 0x0851 {
		t.Errorf("PC0 = %04X, want 0851", d.PC0)
	}
}

func TestPC1ToPC0(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.PC1 = 0x1234

	d.Step(0x04, 0x00)

	if d.PC0 != 0x1234 {
		t.Errorf("PC0 = %04X, want 1234", d.PC0)
	}
}

func TestStoreGoesThroughChipDispatch(t *testing.T) {
	t.Run("ram", func(t *testing.T) {
		d, mem, _, _ := newTestDispatcher()
		mem.TagRange(0x2800, 1, memory.RAM)
		d.DC0 = 0x2800

		d.Step(0x05, 0x77)

		if got := mem.Peek(0x2800); got != 0x77 {
			t.Errorf("ram byte = %02X, want 77", got)
		}
		if d.DC0 != 0x2801 {
			t.Errorf("DC0 = %04X, want 2801", d.DC0)
		}
	})

	t.Run("rom", func(t *testing.T) {
		d, mem, _, _ := newTestDispatcher()
		mem.TagRange(0x0900, 1, memory.ROM)
		mem.Poke(0x0900, 0x42)
		d.DC0 = 0x0900

		d.Step(0x05, 0x77)

		if got := mem.Peek(0x0900); got != 0x42 {
			t.Errorf("rom byte = %02X after store, want 42", got)
		}
		if d.DC0 != 0x0901 {
			t.Errorf("DC0 = %04X, want 0901", d.DC0)
		}
	})

	t.Run("led", func(t *testing.T) {
		toggles := 0
		mem := memory.New(func() { toggles++ })
		d := NewDispatcher(mem, ports.NewTable(), bus.NewScriptedBus(nil))
		mem.TagRange(0x3000, 1, memory.LED)
		d.DC0 = 0x3000

		d.Step(0x05, 0x01)

		if toggles != 1 {
			t.Errorf("led toggled %d times, want 1", toggles)
		}
	})
}

func TestRegisterHalfDrives(t *testing.T) {
	tests := []struct {
		name string
		romc uint8
		prep func(d *Dispatcher)
		want uint8
	}{
		{"dc0 high", 0x06, func(d *Dispatcher) { d.DC0 = 0x1234 }, 0x12},
		{"pc1 high", 0x07, func(d *Dispatcher) { d.PC1 = 0x1234 }, 0x12},
		{"dc0 low", 0x09, func(d *Dispatcher) { d.DC0 = 0x1234 }, 0x34},
		{"pc1 low", 0x0B, func(d *Dispatcher) { d.PC1 = 0x1234 }, 0x34},
		{"pc0 low", 0x1E, func(d *Dispatcher) { d.PC0 = 0x1234 }, 0x34},
		{"pc0 high", 0x1F, func(d *Dispatcher) { d.PC0 = 0x1234 }, 0x12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mem, _, b := newTestDispatcher()
			mem.TagRange(0x1234, 1, memory.ROM)
			tt.prep(d)

			d.Step(tt.romc, 0x00)

			if got := lastDrive(t, b); got != tt.want {
				t.Errorf("drove %02X, want %02X", got, tt.want)
			}
		})
	}
}

func TestResetClearsPC0ThroughDataBus(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.PC0 = 0x0876

	d.Step(0x08, 0x00)

	if d.PC1 != 0x0876 {
		t.Errorf("PC1 = %04X, want 0876", d.PC1)
	}
	if d.PC0 != 0x0000 {
		t.Errorf("PC0 = %04X, want 0000", d.PC0)
	}
}

func TestDC0SignedAdd(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.DC0 = 0x2000

	d.Step(0x0A, 0x80) // -128

	if d.DC0 != 0x1F80 {
		t.Errorf("DC0 = %04X, want 1F80", d.DC0)
	}
}

func TestSignedAddWrapsAround(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.DC0 = 0x0001

	d.Step(0x0A, 0xFE) // -2, wrapping below zero

	if d.DC0 != 0xFFFF {
		t.Errorf("DC0 = %04X, want FFFF", d.DC0)
	}
}

func TestLoadPC0LowFromMemory(t *testing.T) {
	d, mem, _, _ := newTestDispatcher()
	mem.TagRange(0x0A00, 1, memory.ROM)
	mem.Poke(0x0A00, 0x42)
	d.PC0 = 0x0A00

	d.Step(0x0C, 0x00)

	// the driven byte lands in the low half of PC0
	if d.PC0 != 0x0A42 {
		t.Errorf("PC0 = %04X, want 0A42", d.PC0)
	}
}

func TestPC1FromPC0PlusOne(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.PC0 = 0x0FFF

	d.Step(0x0D, 0x00)

	if d.PC1 != 0x1000 {
		t.Errorf("PC1 = %04X, want 1000", d.PC1)
	}
	if d.PC0 != 0x0FFF {
		t.Errorf("PC0 = %04X, want unchanged 0FFF", d.PC0)
	}
}

func TestLoadDC0HalvesFromMemory(t *testing.T) {
	d, mem, _, _ := newTestDispatcher()
	mem.TagRange(0x0B00, 2, memory.ROM)
	mem.Poke(0x0B00, 0x34)
	mem.Poke(0x0B01, 0x12)
	d.PC0 = 0x0B00
	d.DC0 = 0xAAAA

	d.Step(0x0E, 0x00) // low byte
	if d.DC0 != 0xAA34 {
		t.Fatalf("DC0 = %04X, want AA34", d.DC0)
	}

	d.PC0 = 0x0B01
	d.Step(0x11, 0x00) // high byte
	if d.DC0 != 0x1234 {
		t.Errorf("DC0 = %04X, want 1234", d.DC0)
	}
}

func TestInterruptVectorStates(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.PC0 = 0x0855

	d.Step(0x0F, 0x20) // vector low
	if d.PC1 != 0x0855 {
		t.Errorf("PC1 = %04X, want 0855", d.PC1)
	}
	if d.PC0 != 0x0820 {
		t.Errorf("PC0 = %04X, want 0820", d.PC0)
	}

	d.Step(0x13, 0x0F) // vector high
	if d.PC0 != 0x0F20 {
		t.Errorf("PC0 = %04X, want 0F20", d.PC0)
	}
}

func TestInterruptHoldIsNoOp(t *testing.T) {
	d, _, _, b := newTestDispatcher()
	d.PC0, d.PC1, d.DC0, d.DC1 = 1, 2, 3, 4

	d.Step(0x10, 0xFF)

	if d.PC0 != 1 || d.PC1 != 2 || d.DC0 != 3 || d.DC1 != 4 {
		t.Error("interrupt hold mutated a register")
	}
	if len(b.Drives) != 0 {
		t.Error("interrupt hold drove the bus")
	}
}

func TestDataBusToRegisterHalves(t *testing.T) {
	tests := []struct {
		name  string
		romc  uint8
		dbus  uint8
		check func(d *Dispatcher) (uint16, uint16)
	}{
		{"pc0 high", 0x14, 0x12, func(d *Dispatcher) (uint16, uint16) { return d.PC0, 0x12AA }},
		{"pc1 high", 0x15, 0x12, func(d *Dispatcher) (uint16, uint16) { return d.PC1, 0x12AA }},
		{"dc0 high", 0x16, 0x12, func(d *Dispatcher) (uint16, uint16) { return d.DC0, 0x12AA }},
		{"pc0 low", 0x17, 0x34, func(d *Dispatcher) (uint16, uint16) { return d.PC0, 0xAA34 }},
		{"pc1 low", 0x18, 0x34, func(d *Dispatcher) (uint16, uint16) { return d.PC1, 0xAA34 }},
		{"dc0 low", 0x19, 0x34, func(d *Dispatcher) (uint16, uint16) { return d.DC0, 0xAA34 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _, _ := newTestDispatcher()
			d.PC0, d.PC1, d.DC0 = 0xAAAA, 0xAAAA, 0xAAAA

			d.Step(tt.romc, tt.dbus)

			if got, want := tt.check(d); got != want {
				t.Errorf("register = %04X, want %04X", got, want)
			}
		})
	}
}

func TestPC0ToPC1WithLowLoad(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.PC0 = 0x0842

	d.Step(0x12, 0x99)

	if d.PC1 != 0x0842 {
		t.Errorf("PC1 = %04X, want 0842", d.PC1)
	}
	if d.PC0 != 0x0899 {
		t.Errorf("PC0 = %04X, want 0899", d.PC0)
	}
}

type stubPort struct {
	value   uint8
	written []uint8
}

func (p *stubPort) Read() uint8 { return p.value }

func (p *stubPort) Write(data uint8) { p.written = append(p.written, data) }

func TestIdleLatchesPortForOutput(t *testing.T) {
	d, _, table, _ := newTestDispatcher()
	p := &stubPort{}
	table.Install(0x20, p)

	d.Step(0x1C, 0x20) // IDLE carries the port address
	d.Step(0x1A, 0x05) // OUT writes to the latched port

	if len(p.written) != 1 || p.written[0] != 0x05 {
		t.Errorf("port received %v, want [05]", p.written)
	}
}

func TestIdleLatchesPortForInput(t *testing.T) {
	d, mem, table, b := newTestDispatcher()
	mem.TagRange(VideocartStart, 1, memory.ROM) // the guard's source address
	p := &stubPort{value: 0x77}
	table.Install(0x21, p)

	d.Step(0x1C, 0x21)
	d.Step(0x1B, 0x00)

	if got := lastDrive(t, b); got != 0x77 {
		t.Errorf("drove %02X, want 77", got)
	}
}

func TestEmptyPortSlotIsNoOp(t *testing.T) {
	d, _, _, b := newTestDispatcher()

	d.Step(0x1C, 0x42)
	d.Step(0x1A, 0x05)
	d.Step(0x1B, 0x00)

	if len(b.Drives) != 0 {
		t.Error("an empty port slot drove the data bus")
	}
}

func TestSRAMThroughPortStates(t *testing.T) {
	d, _, table, _ := newTestDispatcher()
	sram := ports.NewSRAM2102()
	table.Install(0x20, sram.Port(0))
	table.Install(0x21, sram.Port(1))

	d.Step(0x1C, 0x20)
	d.Step(0x1A, 0x05)

	if got := sram.Port(0).Read(); got != 0x05 {
		t.Errorf("port A = %02X, want 05", got)
	}
}

func TestDC0DC1Swap(t *testing.T) {
	d, _, _, _ := newTestDispatcher()
	d.DC0, d.DC1 = 0x1111, 0x2222

	d.Step(0x1D, 0x00)

	if d.DC0 != 0x2222 || d.DC1 != 0x1111 {
		t.Errorf("DC0/DC1 = %04X/%04X, want 2222/1111", d.DC0, d.DC1)
	}
}

func TestMnemonicsCoverAllStates(t *testing.T) {
	for i, m := range Mnemonics {
		if m == "" {
			t.Errorf("state %02X has no mnemonic", i)
		}
	}
	if Mnemonic(0x3C) != "IDLE" { // masked to five bits
		t.Errorf("Mnemonic(3C) = %q, want IDLE", Mnemonic(0x3C))
	}
}
