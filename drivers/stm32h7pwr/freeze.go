package stm32h7pwr

import "powercode-go/errcode"

const mismatchMsg = "values in the lower byte of PWR.CR3 do not match the " +
	"configured power mode. They can only be set once per POR (power-on " +
	"reset). Remove power to the board to clear them."

// Freeze commits the accumulated configuration to hardware and consumes the
// builder. It writes the supply configuration (once per POR), waits for the
// supply to report ready, walks the voltage scale to the target, unlocks the
// backup domain and, if requested, enables the backup regulator.
//
// Every wait below is an unbounded busy poll. The transitions complete in
// bounded hardware time on a correctly wired board; a hang means the board
// voltages do not match the configuration and software cannot tell which.
//
// Freeze panics with errcode.SupplyMismatch if the CR3 readback disagrees
// with the selection: a previous power cycle already latched a different
// supply configuration and only a full POR can clear it. It panics with
// errcode.BuilderConsumed if the builder is reused.
func (p *Pwr) Freeze() PowerConfiguration {
	if p.frozen {
		panic(&errcode.E{C: errcode.BuilderConsumed, Op: "pwr.Freeze", Msg: "builder already frozen"})
	}
	p.frozen = true

	p.writeSupplyConfiguration()
	if p.variant.HasSMPS() {
		p.verifySupplyConfiguration()
	}

	// If stuck here the board voltages do not match the supply selection.
	// After reset VOS = Scale3, so the VCAP pins must sit at 1.0V.
	for !hasBits(p.bus, regCSR1, csr1ACTVOSRDY) {
	}

	// Scale0 cannot be entered directly; hop to Scale1 first.
	vos := p.targetVOS
	if vos == Scale0 {
		vos = Scale1
	}
	p.voltageScalingTransition(vos)

	if p.targetVOS == Scale0 {
		switch p.variant.scale0Path() {
		case scale0Overdrive:
			// The overdrive enable lives behind SYSCFG, which needs its
			// bus clock on first.
			setBits(p.aux, regAPB4ENR, apb4enrSYSCFGEN)
			modifyField(p.aux, regPWRCR, p.variant.odenMask(), 0x1)
			for !hasBits(p.bus, regD3CR, d3crVOSRDY) {
			}
			vos = Scale0
		case scale0Direct:
			// RM0468 6.8.6: Scale0 is usable once D3CR.VOS equals
			// CSR1.ACTVOS and ACTVOSRDY is set.
			vos = Scale0
			p.voltageScalingTransition(Scale0)
			for p.bus.Read32(regD3CR)&d3crVOS != p.bus.Read32(regCSR1)&csr1ACTVOS {
			}
			for !hasBits(p.bus, regCSR1, csr1ACTVOSRDY) {
			}
		}
	}

	setBits(p.bus, regCR1, cr1DBP)
	for !hasBits(p.bus, regCR1, cr1DBP) {
	}

	if p.backup {
		setBits(p.bus, regCR2, cr2BREN)
		for !hasBits(p.bus, regCR2, cr2BRRDY) {
		}
	}

	return PowerConfiguration{
		vos:    vos,
		backup: newBackupRegulator(p.backup),
	}
}

// writeSupplyConfiguration sets the write-once lower byte of CR3. On parts
// without an SMPS there is nothing to choose: enable the LDO path and latch
// it with SCUEN. On SMPS parts, SupplyDefault deliberately performs no CR3
// access at all, because the reset value of these bits varies per package
// (RM0399 Section 7.8.4 footnote) and must not be assumed.
func (p *Pwr) writeSupplyConfiguration() {
	if !p.variant.HasSMPS() {
		v := p.bus.Read32(regCR3)
		v |= cr3SCUEN | cr3LDOEN
		v &^= cr3BYPASS
		p.bus.Write32(regCR3, v)
		return
	}
	if p.supply == SupplyDefault {
		return
	}
	mask, want := p.supplyPattern()
	modifyField(p.bus, regCR3, mask, want)
}

// supplyPattern gives the CR3 bits a selection asserts, and the mask over
// which they are meaningful. Used both to write the configuration and to
// verify the readback structurally.
func (p *Pwr) supplyPattern() (mask, want uint32) {
	switch p.supply {
	case SupplyLDO:
		return cr3SDEN | cr3LDOEN, cr3LDOEN
	case SupplyDirectSMPS:
		return cr3SDEN | cr3LDOEN, cr3SDEN
	case SupplySMPS1V8FeedsLDO:
		return cr3SDEN | cr3LDOEN | cr3SDLEVEL, cr3SDEN | cr3LDOEN | cr3Level1V8
	case SupplySMPS2V5FeedsLDO:
		return cr3SDEN | cr3LDOEN | cr3SDLEVEL, cr3SDEN | cr3LDOEN | cr3Level2V5
	case SupplyBypass:
		return cr3SDEN | cr3LDOEN | cr3BYPASS, cr3BYPASS
	}
	return 0, 0
}

// verifySupplyConfiguration checks that the lower byte of CR3 reads as
// written. A mismatch means the write-once byte was latched by an earlier
// power cycle; that is fatal by hardware design, so it panics rather than
// returning an error a caller might be tempted to retry.
func (p *Pwr) verifySupplyConfiguration() {
	if p.supply == SupplyDefault {
		// Deliberately unverified: nothing was requested.
		return
	}
	mask, want := p.supplyPattern()
	if p.bus.Read32(regCR3)&mask != want {
		panic(&errcode.E{C: errcode.SupplyMismatch, Op: "pwr.Freeze", Msg: mismatchMsg})
	}
}

// voltageScalingTransition writes the VOS field and waits for the scaling
// ready flag. Does not implement overdrive.
func (p *Pwr) voltageScalingTransition(s VoltageScale) {
	p.bus.Write32(regD3CR, p.variant.vosBits(s))
	for !hasBits(p.bus, regD3CR, d3crVOSRDY) {
	}
}
