package bus

// Cycle is one host bus cycle as seen at the connector: the ROMC
// command and data byte the console drives while WRITE is high.
type Cycle struct {
	ROMC uint8
	DBus uint8
}

// Drive records a byte the cartridge placed on the data bus, and the
// cycle it was driven in.
type Drive struct {
	Cycle int
	Value uint8
}

// ScriptedBus replays a fixed sequence of bus cycles, standing in for
// the host console. It synthesizes WRITE edges in the order the main
// loop observes them on real hardware and records everything the
// cartridge drives back. Used by tests and by trace replay.
type ScriptedBus struct {
	Cycles []Cycle

	// Drives holds every byte the cartridge drove, in order.
	Drives []Drive
	// Releases counts ReleaseDBus calls.
	Releases int
	// LEDToggles counts ToggleLED calls.
	LEDToggles int
	// INTRQ holds the last level driven on the interrupt-request wire.
	INTRQ bool

	pos   int
	phase int
}

// NewScriptedBus returns a bus that will replay the given cycles.
func NewScriptedBus(cycles []Cycle) *ScriptedBus {
	return &ScriptedBus{Cycles: cycles}
}

// Present reports true until every scripted cycle has been consumed.
func (b *ScriptedBus) Present() bool {
	if b.phase == 3 {
		b.pos++
		b.phase = 0
	}
	return b.pos < len(b.Cycles)
}

// WriteLevel synthesizes the WRITE clock: high, then the falling edge,
// then the rising edge that starts the current cycle.
func (b *ScriptedBus) WriteLevel() bool {
	switch b.phase {
	case 0:
		b.phase = 1
		return true
	case 1:
		b.phase = 2
		return false
	default:
		b.phase = 3
		return true
	}
}

func (b *ScriptedBus) ReadROMC() uint8 {
	return b.Cycles[b.pos].ROMC
}

func (b *ScriptedBus) ReadDBus() uint8 {
	return b.Cycles[b.pos].DBus
}

func (b *ScriptedBus) DriveDBus(value uint8) {
	b.Drives = append(b.Drives, Drive{Cycle: b.pos, Value: value})
}

func (b *ScriptedBus) ReleaseDBus() {
	b.Releases++
}

func (b *ScriptedBus) SetINTRQ(level bool) {
	b.INTRQ = level
}

func (b *ScriptedBus) ToggleLED() {
	b.LEDToggles++
}

func (b *ScriptedBus) SetLED(on bool) {
}

// DrivenAt returns the byte driven during the given cycle, if any.
func (b *ScriptedBus) DrivenAt(cycle int) (uint8, bool) {
	for _, d := range b.Drives {
		if d.Cycle == cycle {
			return d.Value, true
		}
	}
	return 0, false
}
