package stm32h7pwr

import "powercode-go/errcode"

// Supply topology selection. These record intent only; nothing touches
// hardware until Freeze, where hardware itself enforces legality. All of
// them require an integrated SMPS and panic with errcode.Unsupported on
// RM0433 parts — a configuration bug, not a runtime condition.

// LDO sources the VCORE domains from the LDO. LDO voltage follows VOS.
func (p *Pwr) LDO() *Pwr { return p.selectSupply(SupplyLDO) }

// SMPS sources the VCORE domains directly from the step-down converter.
// SMPS output voltage follows VOS.
func (p *Pwr) SMPS() *Pwr { return p.selectSupply(SupplyDirectSMPS) }

// SMPS1V8FeedsLDO runs the SMPS at a fixed 1.8V output into the LDO, which
// in turn supplies the VCORE domains at the VOS-selected voltage.
func (p *Pwr) SMPS1V8FeedsLDO() *Pwr { return p.selectSupply(SupplySMPS1V8FeedsLDO) }

// SMPS2V5FeedsLDO runs the SMPS at a fixed 2.5V output into the LDO.
func (p *Pwr) SMPS2V5FeedsLDO() *Pwr { return p.selectSupply(SupplySMPS2V5FeedsLDO) }

// Bypass expects VCORE to be supplied from an external source.
func (p *Pwr) Bypass() *Pwr { return p.selectSupply(SupplyBypass) }

func (p *Pwr) selectSupply(c SupplyConfiguration) *Pwr {
	if !p.variant.HasSMPS() {
		panic(&errcode.E{
			C:   errcode.Unsupported,
			Op:  "pwr.selectSupply",
			Msg: "supply configuration fields are not available on " + p.variant.Family.String() + " parts",
		})
	}
	p.supply = c
	return p
}

// VOS0 requests the Scale0 boost range. aux is the register window holding
// the RCC clock gate and SYSCFG overdrive control; requiring it here proves
// the caller still owns SYSCFG, the same way the other setters prove PWR
// ownership through the builder. Panics with errcode.Unsupported unless the
// variant is revision V silicon of a family with a Scale0 path.
func (p *Pwr) VOS0(aux Bus) *Pwr {
	if !p.variant.SupportsScale0() {
		panic(&errcode.E{
			C:   errcode.Unsupported,
			Op:  "pwr.VOS0",
			Msg: "scale0 is not available on this part/revision",
		})
	}
	if aux == nil {
		panic(&errcode.E{C: errcode.InvalidParams, Op: "pwr.VOS0", Msg: "nil aux bus"})
	}
	p.aux = aux
	p.targetVOS = Scale0
	return p
}

// VOS1 selects Scale1. This is the default.
func (p *Pwr) VOS1() *Pwr {
	p.targetVOS = Scale1
	return p
}

// VOS2 selects Scale2.
func (p *Pwr) VOS2() *Pwr {
	p.targetVOS = Scale2
	return p
}

// VOS3 selects Scale3.
func (p *Pwr) VOS3() *Pwr {
	p.targetVOS = Scale3
	return p
}

// BackupRegulator asks Freeze to enable the backup domain voltage
// regulator, which maintains backup SRAM content in Standby and VBAT modes.
func (p *Pwr) BackupRegulator() *Pwr {
	p.backup = true
	return p
}
