package romc

// Mnemonics names the 32 ROMC states for trace output. The names
// follow the register-transfer shorthand of the F8 data sheets.
var Mnemonics = [32]string{
	0x00: "FETCH",
	0x01: "FETCH+REL",
	0x02: "READ-DC0",
	0x03: "FETCH-IO",
	0x04: "PC1>PC0",
	0x05: "STORE-DC0",
	0x06: "DC0H>DB",
	0x07: "PC1H>DB",
	0x08: "RESET",
	0x09: "DC0L>DB",
	0x0A: "DC0+REL",
	0x0B: "PC1L>DB",
	0x0C: "READ>PC0L",
	0x0D: "PC0+1>PC1",
	0x0E: "READ>DC0L",
	0x0F: "INT-VECL",
	0x10: "INT-HOLD",
	0x11: "READ>DC0H",
	0x12: "PC0>PC1,PC0L",
	0x13: "INT-VECH",
	0x14: "DB>PC0H",
	0x15: "DB>PC1H",
	0x16: "DB>DC0H",
	0x17: "DB>PC0L",
	0x18: "DB>PC1L",
	0x19: "DB>DC0L",
	0x1A: "OUT-PORT",
	0x1B: "IN-PORT",
	0x1C: "IDLE",
	0x1D: "DC0<>DC1",
	0x1E: "PC0L>DB",
	0x1F: "PC0H>DB",
}

// Mnemonic returns the name of a ROMC state, masking to the five
// command bits.
func Mnemonic(romc uint8) string {
	return Mnemonics[romc&0x1F]
}
