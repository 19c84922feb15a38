package stm32h7pwr

import "strconv"

// RegName names a register address touched by this driver, for trace logs.
// Unknown addresses are formatted as hex.
func RegName(addr uintptr) string {
	switch addr {
	case regCR1:
		return "PWR.CR1"
	case regCSR1:
		return "PWR.CSR1"
	case regCR2:
		return "PWR.CR2"
	case regCR3:
		return "PWR.CR3"
	case regD3CR:
		return "PWR.D3CR"
	case regAPB4ENR:
		return "RCC.APB4ENR"
	case regPWRCR:
		return "SYSCFG.PWRCR"
	}
	return "0x" + strconv.FormatUint(uint64(addr), 16)
}
