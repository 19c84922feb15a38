package stm32h7pwr

import "testing"

// Compile-time check.
var _ Bus = (*fakeBus)(nil)

// fakeBus is a scripted register file that models the PWR status behaviour:
// ready flags assert after `lat` polls, the active VOS tracks the last VOS
// write, and an optional XOR corrupts CR3 readbacks to mimic a low byte
// latched by an earlier power cycle.
type fakeBus struct {
	mem    map[uintptr]uint32
	writes []busWrite
	reads  map[uintptr]int

	lat int // not-ready polls before each status flag asserts

	csr1Polls  int
	vosPolls   int
	brPolls    int
	actvos     uint32
	corruptCR3 uint32
}

type busWrite struct {
	addr uintptr
	val  uint32
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		mem:   make(map[uintptr]uint32),
		reads: make(map[uintptr]int),
		lat:   2,
	}
}

func (f *fakeBus) Read32(addr uintptr) uint32 {
	f.reads[addr]++
	v := f.mem[addr]
	switch addr {
	case regCSR1:
		f.csr1Polls++
		if f.csr1Polls > f.lat {
			v |= csr1ACTVOSRDY
		}
		v = v&^csr1ACTVOS | f.actvos
	case regD3CR:
		f.vosPolls++
		if f.vosPolls > f.lat {
			v |= d3crVOSRDY
			f.actvos = v & d3crVOS
		}
	case regCR2:
		if v&cr2BREN != 0 {
			f.brPolls++
			if f.brPolls > f.lat {
				v |= cr2BRRDY
			}
		}
	case regCR3:
		v ^= f.corruptCR3
	}
	return v
}

func (f *fakeBus) Write32(addr uintptr, v uint32) {
	f.writes = append(f.writes, busWrite{addr, v})
	f.mem[addr] = v
	if addr == regD3CR {
		f.vosPolls = 0
	}
}

// writesTo returns the ordered values written to addr.
func (f *fakeBus) writesTo(addr uintptr) []uint32 {
	var out []uint32
	for _, w := range f.writes {
		if w.addr == addr {
			out = append(out, w.val)
		}
	}
	return out
}

// writeIndex returns the position of the first write to addr, or -1.
func (f *fakeBus) writeIndex(addr uintptr) int {
	for i, w := range f.writes {
		if w.addr == addr {
			return i
		}
	}
	return -1
}

// resetBackup clears the process-wide backup handle flag so each test can
// run its own Freeze.
func resetBackup(t *testing.T) {
	t.Helper()
	backupConstructed.Store(false)
	t.Cleanup(func() { backupConstructed.Store(false) })
}

// applySupply drives the chainable setter for a table-driven selection.
func applySupply(p *Pwr, c SupplyConfiguration) *Pwr {
	switch c {
	case SupplyLDO:
		return p.LDO()
	case SupplyDirectSMPS:
		return p.SMPS()
	case SupplySMPS1V8FeedsLDO:
		return p.SMPS1V8FeedsLDO()
	case SupplySMPS2V5FeedsLDO:
		return p.SMPS2V5FeedsLDO()
	case SupplyBypass:
		return p.Bypass()
	}
	return p
}

// applyVOS drives the scale setters; Scale0 needs the aux window.
func applyVOS(p *Pwr, s VoltageScale, aux Bus) *Pwr {
	switch s {
	case Scale0:
		return p.VOS0(aux)
	case Scale2:
		return p.VOS2()
	case Scale3:
		return p.VOS3()
	}
	return p.VOS1()
}
