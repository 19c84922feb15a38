//go:build tinygo

// boardtest brings up the core supply on a development board and reports
// what it did over the serial console. Before freezing, it checks the VCAP
// rail through an external INA219: after reset VOS = Scale3, so a rail
// outside the Scale3 window means the supply selection below is wrong for
// this board and freezing would latch it until the next POR.
package main

import (
	"time"

	"machine"

	"powercode-go/drivers/ina219"
	"powercode-go/drivers/stm32h7pwr"
)

// Board under test. Adjust per target before flashing.
var (
	variant     = stm32h7pwr.Variant{Family: stm32h7pwr.RM0433, RevisionV: true}
	enableBkReg = true
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boardtest: start")

	machine.I2C0.Configure(machine.I2CConfig{})
	mon := ina219.New(machine.I2C0)
	if err := mon.Configure(); err != nil {
		println("ina219 configure failed:", err.Error())
		return
	}

	mv := readRail(&mon)
	win := stm32h7pwr.Scale3.Window()
	println("vcap:", mv, "mV (expect", win.Lo, "-", win.Hi, ")")
	if !win.In(mv) {
		println("vcap outside the reset-default window; not freezing")
		return
	}

	pwr := stm32h7pwr.New(stm32h7pwr.HW, variant).VOS1()
	if enableBkReg {
		pwr = pwr.BackupRegulator()
	}
	pwrcfg := pwr.Freeze()

	println("frozen, vos:", pwrcfg.VOS().String())
	if b := pwrcfg.Backup(); b != nil {
		println("backup regulator enabled:", b.Enabled())
	}

	for {
		time.Sleep(time.Second)
	}
}

func readRail(mon *ina219.Device) int32 {
	for {
		mv, err := mon.BusMillivolts()
		if err == ina219.ErrNotReady {
			time.Sleep(time.Millisecond)
			continue
		}
		if err != nil {
			println("ina219 read failed:", err.Error())
			return 0
		}
		return mv
	}
}
