// Register addresses and bitfields used to sequence the STM32H7 PWR unit.
// Bit positions are common across the H7 families handled here; fields that
// are named differently per family (SCUEN / SDEN / SMPSEN) share a position
// and are noted below.
package stm32h7pwr

const (
	pwrBase    uintptr = 0x5802_4800
	rccBase    uintptr = 0x5802_4400
	syscfgBase uintptr = 0x5800_0400

	// --- PWR registers ---

	regCR1  = pwrBase + 0x00 // control 1: backup domain write protection
	regCSR1 = pwrBase + 0x04 // status 1: active voltage scale
	regCR2  = pwrBase + 0x08 // control 2: backup regulator
	regCR3  = pwrBase + 0x0C // control 3: supply configuration (write-once low byte)
	regD3CR = pwrBase + 0x18 // D3 domain control (named SRDCR on RM0455)

	// CR1
	cr1DBP = 1 << 8 // disable backup domain write protection

	// CSR1
	csr1ACTVOSRDY = 1 << 13 // voltage level ready for the currently used VOS
	csr1ACTVOS    = 0x3 << 14

	// CR2
	cr2BREN  = 1 << 0  // backup regulator enable
	cr2BRRDY = 1 << 16 // backup regulator ready

	// CR3 (write-once after POR, RM0433 Rev 7 6.8.4)
	cr3BYPASS  = 1 << 0 // power management unit bypass
	cr3LDOEN   = 1 << 1 // low drop-out regulator enable
	cr3SDEN    = 1 << 2 // SMPS enable (SDEN/SMPSEN); supply-update SCUEN on RM0433
	cr3SCUEN   = 1 << 2
	cr3SDLEVEL = 0x3 << 4 // SMPS output level (SDLEVEL/SMPSLEVEL)

	cr3Level1V8 = 0x1 << 4
	cr3Level2V5 = 0x2 << 4

	// D3CR / SRDCR
	d3crVOSRDY   = 1 << 13 // voltage scaling ready
	d3crVOS      = 0x3 << 14
	d3crVOSShift = 14

	// --- Overdrive enable window (RM0433/RM0399 Scale0 only) ---

	regAPB4ENR = rccBase + 0xF4    // RCC APB4 peripheral clock enable
	regPWRCR   = syscfgBase + 0x2C // SYSCFG power control

	apb4enrSYSCFGEN = 1 << 1
)
