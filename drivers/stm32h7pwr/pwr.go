// Package stm32h7pwr configures the STM32H7 PWR unit that supplies the core
// voltage rail VCORE. It exposes a chainable builder:
//
//	pwr := stm32h7pwr.New(bus, stm32h7pwr.Variant{Family: stm32h7pwr.RM0399, RevisionV: true})
//	pwrcfg := pwr.SMPS().Freeze()
//	// pwrcfg.VOS() == stm32h7pwr.Scale1
//
// The voltage scale is Scale1 (high performance) unless another scale is
// selected before Freeze. Parts with an integrated Switched Mode Power Supply
// (SMPS) additionally let the caller choose how VCORE is sourced: LDO only,
// SMPS only, SMPS feeding the LDO at 1.8V or 2.5V, or an external bypass.
// Selecting the wrong topology for your board gives undefined results.
//
// The VCORE supply configuration lives in the lower byte of PWR.CR3 and can
// only be written once after each POR (power-on reset); hardware enforces
// this. If the selection changes between power cycles, Freeze panics until
// the board is power cycled.
//
// Some parts reach a higher clock ceiling in Scale0 ("boost"). Scale0 is
// requested with VOS0 and is only available on revision V (or later) silicon
// of the RM0433, RM0399 and RM0468 families; RM0455 parts have no Scale0.
package stm32h7pwr

import "powercode-go/x/voltx"

// VoltageScale is the operating point of the VCORE rail. The maximum safe
// core clock frequency depends on this value.
type VoltageScale uint8

const (
	// Scale0 is the boost range, VCORE 1.26V - 1.40V.
	Scale0 VoltageScale = iota
	// Scale1 is the high performance range, VCORE 1.15V - 1.26V.
	Scale1
	// Scale2 covers VCORE 1.05V - 1.15V.
	Scale2
	// Scale3 is the reset default, VCORE 0.95V - 1.05V.
	Scale3
)

func (s VoltageScale) String() string {
	switch s {
	case Scale0:
		return "scale0"
	case Scale1:
		return "scale1"
	case Scale2:
		return "scale2"
	case Scale3:
		return "scale3"
	}
	return "scale?"
}

// Window returns the nominal VCORE band for this scale in millivolts. Useful
// for board bring-up checks against an external rail monitor.
func (s VoltageScale) Window() voltx.Window[int32] {
	switch s {
	case Scale0:
		return voltx.Window[int32]{Lo: 1260, Hi: 1400}
	case Scale1:
		return voltx.Window[int32]{Lo: 1150, Hi: 1260}
	case Scale2:
		return voltx.Window[int32]{Lo: 1050, Hi: 1150}
	default:
		return voltx.Window[int32]{Lo: 950, Hi: 1050}
	}
}

// SupplyConfiguration selects how VCORE is physically sourced on parts with
// an integrated SMPS. Refer to RM0399 Rev 3 Table 32.
type SupplyConfiguration uint8

const (
	// SupplyDefault leaves the CR3 supply bits untouched. Their reset value
	// is package dependent, so this path never reads or writes them.
	SupplyDefault SupplyConfiguration = iota
	// SupplyLDO sources the VCORE domains from the LDO alone.
	SupplyLDO
	// SupplyDirectSMPS sources the VCORE domains from the SMPS step-down
	// converter directly.
	SupplyDirectSMPS
	// SupplySMPS1V8FeedsLDO runs the SMPS at 1.8V into the LDO.
	SupplySMPS1V8FeedsLDO
	// SupplySMPS2V5FeedsLDO runs the SMPS at 2.5V into the LDO.
	SupplySMPS2V5FeedsLDO
	// SupplyBypass expects VCORE from an external source.
	SupplyBypass
)

func (c SupplyConfiguration) String() string {
	switch c {
	case SupplyDefault:
		return "default"
	case SupplyLDO:
		return "ldo"
	case SupplyDirectSMPS:
		return "smps"
	case SupplySMPS1V8FeedsLDO:
		return "smps_1v8_feeds_ldo"
	case SupplySMPS2V5FeedsLDO:
		return "smps_2v5_feeds_ldo"
	case SupplyBypass:
		return "bypass"
	}
	return "supply?"
}

// Pwr accumulates the desired power configuration and is consumed by Freeze.
// Obtain one with New. The zero value is not usable.
type Pwr struct {
	bus     Bus
	aux     Bus // RCC/SYSCFG window for the overdrive enable, set by VOS0
	variant Variant

	supply    SupplyConfiguration
	targetVOS VoltageScale
	backup    bool

	frozen bool
}

// New constrains a PWR register block for one-time configuration. The bus
// grants exclusive access to the PWR registers; the variant names the part
// family and silicon revision being built for.
func New(bus Bus, v Variant) *Pwr {
	return &Pwr{
		bus:       bus,
		variant:   v,
		supply:    SupplyDefault,
		targetVOS: Scale1,
	}
}

// PowerConfiguration is produced by a successful Freeze. Its existence means
// the voltage scaling configuration can no longer change this power cycle.
type PowerConfiguration struct {
	vos    VoltageScale
	backup *BackupRegulator
}

// VOS returns the voltage scale that was reached by Freeze.
func (c *PowerConfiguration) VOS() VoltageScale { return c.vos }

// Backup transfers ownership of the backup-domain regulator handle. The
// first call returns the handle; every later call returns nil.
func (c *PowerConfiguration) Backup() *BackupRegulator {
	b := c.backup
	c.backup = nil
	return b
}
