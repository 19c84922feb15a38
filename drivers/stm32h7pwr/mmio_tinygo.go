//go:build tinygo

package stm32h7pwr

import (
	"runtime/volatile"
	"unsafe"
)

// HW is the live MMIO bus on hardware builds. Volatile accessors keep the
// compiler from folding the status polls.
var HW Bus = mmioBus{}

type mmioBus struct{}

func (mmioBus) Read32(addr uintptr) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(addr)).Get()
}

func (mmioBus) Write32(addr uintptr, v uint32) {
	(*volatile.Register32)(unsafe.Pointer(addr)).Set(v)
}
