// Package ina219 is a minimal driver for the INA219 bus voltage/current
// monitor, covering what board bring-up needs: reading the bus and shunt
// voltage with integer-only scaling. Current/power readout via the on-chip
// calibration engine is intentionally left out.
//
// Registers are 16-bit, transferred high byte first.
package ina219

import (
	"errors"

	"tinygo.org/x/drivers"
)

// 7-bit I2C address with A1=A0=GND.
const AddressDefault = 0x40

// Register sub-addresses.
const (
	regConfiguration = 0x00 // R/W
	regShuntVoltage  = 0x01 // R, signed, LSB 10 µV
	regBusVoltage    = 0x02 // R, value in bits 15:3, LSB 4 mV
	regPower         = 0x03 // R, needs calibration
	regCurrent       = 0x04 // R, needs calibration
	regCalibration   = 0x05 // R/W
)

// Bus voltage register flags.
const (
	busCNVR = 1 << 1 // conversion ready
	busOVF  = 1 << 0 // math overflow
)

// Configuration reset value (32V range, ±320mV PGA, 12-bit, continuous).
const configReset = 0x399F

var (
	ErrOverflow = errors.New("ina219: math overflow flag set")
	ErrNotReady = errors.New("ina219: conversion not ready")
)

// Device wraps an I2C connection to an INA219. The I2C bus must already be
// configured.
type Device struct {
	bus     drivers.I2C
	Address uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [2]byte
}

func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: AddressDefault}
}

// Configure resets the part to its default continuous-conversion mode.
func (d *Device) Configure() error {
	return d.writeWord(regConfiguration, configReset)
}

// BusMillivolts returns the bus voltage in mV. ErrNotReady is returned
// until the first conversion since the last read completes; ErrOverflow if
// the internal math overflowed.
func (d *Device) BusMillivolts() (int32, error) {
	raw, err := d.readWord(regBusVoltage)
	if err != nil {
		return 0, err
	}
	if raw&busOVF != 0 {
		return 0, ErrOverflow
	}
	if raw&busCNVR == 0 {
		return 0, ErrNotReady
	}
	return int32(raw>>3) * 4, nil
}

// ShuntMicrovolts returns the voltage across the shunt in µV, signed.
func (d *Device) ShuntMicrovolts() (int32, error) {
	raw, err := d.readWord(regShuntVoltage)
	if err != nil {
		return 0, err
	}
	return int32(int16(raw)) * 10, nil
}

func (d *Device) readWord(reg uint8) (uint16, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(d.r[0])<<8 | uint16(d.r[1]), nil
}

func (d *Device) writeWord(reg uint8, v uint16) error {
	d.w[0] = reg
	d.w[1] = byte(v >> 8)
	d.w[2] = byte(v)
	return d.bus.Tx(d.Address, d.w[:3], nil)
}
