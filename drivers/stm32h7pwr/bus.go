package stm32h7pwr

// Bus is the memory-mapped register access this driver performs. Addresses
// are absolute. Implementations must not cache: every Read32 is a real bus
// read, every Write32 a real bus write, because the sequencing below leans
// on hardware side effects of both.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
}

func setBits(b Bus, addr uintptr, bits uint32) {
	b.Write32(addr, b.Read32(addr)|bits)
}

func hasBits(b Bus, addr uintptr, bits uint32) bool {
	return b.Read32(addr)&bits != 0
}

// modifyField replaces the masked field with v (pre-shifted).
func modifyField(b Bus, addr uintptr, mask, v uint32) {
	b.Write32(addr, b.Read32(addr)&^mask|v&mask)
}
