package stm32h7pwr

import "powercode-go/errcode"

// Family enumerates the H7 reference-manual families this driver knows. The
// family fixes the VOS bit encoding, whether an SMPS is integrated, and
// which protocol (if any) reaches Scale0.
type Family uint8

const (
	// RM0433 covers STM32H743/753/750. LDO only, Scale0 via overdrive.
	RM0433 Family = iota
	// RM0399 covers STM32H747/757. SMPS, Scale0 via overdrive.
	RM0399
	// RM0455 covers STM32H7A3/7B3/7B0. SMPS, no Scale0.
	RM0455
	// RM0468 covers STM32H723/725/735. SMPS, Scale0 entered directly.
	RM0468
)

func (f Family) String() string {
	switch f {
	case RM0433:
		return "rm0433"
	case RM0399:
		return "rm0399"
	case RM0455:
		return "rm0455"
	case RM0468:
		return "rm0468"
	}
	return "rm?"
}

// scale0Path selects the hardware protocol that completes a Scale0 request.
type scale0Path uint8

const (
	scale0None      scale0Path = iota
	scale0Overdrive            // SYSCFG.PWRCR.ODEN after the Scale1 hop
	scale0Direct               // second VOS write, confirmed via CSR1.ACTVOS
)

// Variant is the resolved build-time hardware axis: one family plus the
// silicon revision gate. The capability queries below are exhaustive over
// the four families; there is no other configuration input.
type Variant struct {
	Family Family
	// RevisionV marks revision V or later silicon. It gates the Scale0
	// path on RM0433, RM0399 and RM0468 and has no other effect.
	RevisionV bool
}

// HasSMPS reports whether the part integrates a step-down converter, and so
// whether a SupplyConfiguration other than SupplyDefault may be selected.
func (v Variant) HasSMPS() bool { return v.Family != RM0433 }

// SupportsScale0 reports whether the Scale0 boost range is reachable.
func (v Variant) SupportsScale0() bool {
	return v.Family != RM0455 && v.RevisionV
}

func (v Variant) scale0Path() scale0Path {
	switch v.Family {
	case RM0433, RM0399:
		return scale0Overdrive
	case RM0468:
		return scale0Direct
	}
	return scale0None
}

// vosBits returns the D3CR/SRDCR VOS field encoding for s, already shifted
// into place. The tables differ per family and must not be mixed.
func (v Variant) vosBits(s VoltageScale) uint32 {
	var bits uint32
	switch v.Family {
	case RM0433, RM0399:
		// RM0433 Rev 7 6.8.6. Scale0 has no direct encoding here; the
		// commit path hops through Scale1 and enables overdrive instead.
		switch s {
		case Scale3:
			bits = 0b01
		case Scale2:
			bits = 0b10
		case Scale1:
			bits = 0b11
		default:
			panic(errcode.Unsupported)
		}
	case RM0455:
		// RM0455 Rev 3 6.8.6
		switch s {
		case Scale3:
			bits = 0b00
		case Scale2:
			bits = 0b01
		case Scale1:
			bits = 0b10
		case Scale0:
			bits = 0b11
		}
	case RM0468:
		// RM0468 Rev 2 6.8.6
		switch s {
		case Scale0:
			bits = 0b00
		case Scale3:
			bits = 0b01
		case Scale2:
			bits = 0b10
		case Scale1:
			bits = 0b11
		}
	}
	return bits << d3crVOSShift
}

// odenMask is the SYSCFG.PWRCR overdrive-enable field. RM0433 carries a
// four-bit field written with 0b0001; RM0399 a single bit.
func (v Variant) odenMask() uint32 {
	if v.Family == RM0433 {
		return 0xF
	}
	return 0x1
}
