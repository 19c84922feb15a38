package stm32h7pwr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powercode-go/errcode"
)

// All supported variants.
var variants = []Variant{
	{Family: RM0433},
	{Family: RM0433, RevisionV: true},
	{Family: RM0399},
	{Family: RM0399, RevisionV: true},
	{Family: RM0455},
	{Family: RM0455, RevisionV: true},
	{Family: RM0468},
	{Family: RM0468, RevisionV: true},
}

func legalSupplies(v Variant) []SupplyConfiguration {
	if !v.HasSMPS() {
		return []SupplyConfiguration{SupplyDefault}
	}
	return []SupplyConfiguration{
		SupplyDefault, SupplyLDO, SupplyDirectSMPS,
		SupplySMPS1V8FeedsLDO, SupplySMPS2V5FeedsLDO, SupplyBypass,
	}
}

func legalScales(v Variant) []VoltageScale {
	s := []VoltageScale{Scale1, Scale2, Scale3}
	if v.SupportsScale0() {
		s = append(s, Scale0)
	}
	return s
}

// Every legal (variant, supply, scale) triple freezes to the requested
// scale against a faithful register file.
func TestFreezeReachesRequestedScale(t *testing.T) {
	for _, v := range variants {
		for _, sup := range legalSupplies(v) {
			for _, sc := range legalScales(v) {
				t.Run(v.Family.String()+"/"+sup.String()+"/"+sc.String(), func(t *testing.T) {
					resetBackup(t)
					f := newFakeBus()
					p := applyVOS(applySupply(New(f, v), sup), sc, f)
					cfg := p.Freeze()
					require.Equal(t, sc, cfg.VOS())
				})
			}
		}
	}
}

// SupplyDefault must neither read nor write CR3: its reset value is package
// dependent and the driver may not depend on it.
func TestDefaultSupplyNeverTouchesCR3(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	cfg := New(f, Variant{Family: RM0399}).Freeze()
	assert.Equal(t, Scale1, cfg.VOS())
	assert.Zero(t, f.reads[regCR3], "CR3 read on default supply path")
	assert.Empty(t, f.writesTo(regCR3), "CR3 written on default supply path")
}

func TestSupplyMismatchIsFatal(t *testing.T) {
	for _, sup := range []SupplyConfiguration{
		SupplyLDO, SupplyDirectSMPS, SupplySMPS1V8FeedsLDO,
		SupplySMPS2V5FeedsLDO, SupplyBypass,
	} {
		t.Run(sup.String(), func(t *testing.T) {
			resetBackup(t)
			f := newFakeBus()
			f.corruptCR3 = cr3LDOEN | cr3SDEN // latched by a "previous" cycle

			defer func() {
				r := recover()
				require.NotNil(t, r, "freeze did not abort")
				require.Equal(t, errcode.SupplyMismatch, errcode.Of(r.(error)))
				// Aborted before any voltage scaling step.
				assert.Empty(t, f.writesTo(regD3CR))
				assert.Zero(t, f.reads[regCSR1])
			}()
			applySupply(New(f, Variant{Family: RM0399}), sup).Freeze()
		})
	}
}

// Scale0 on the overdrive families must hop through Scale1 before the
// overdrive enable; the VOS write strictly precedes the SYSCFG accesses.
func TestScale0TwoHopOverdrive(t *testing.T) {
	for _, fam := range []Family{RM0433, RM0399} {
		t.Run(fam.String(), func(t *testing.T) {
			resetBackup(t)
			f := newFakeBus()
			v := Variant{Family: fam, RevisionV: true}
			cfg := New(f, v).VOS0(f).Freeze()
			require.Equal(t, Scale0, cfg.VOS())

			d3 := f.writesTo(regD3CR)
			require.Len(t, d3, 1)
			assert.Equal(t, v.vosBits(Scale1), d3[0], "intermediate hop not Scale1")

			assert.Less(t, f.writeIndex(regD3CR), f.writeIndex(regAPB4ENR))
			assert.Less(t, f.writeIndex(regAPB4ENR), f.writeIndex(regPWRCR))
			pw := f.writesTo(regPWRCR)
			require.Len(t, pw, 1)
			assert.EqualValues(t, 0x1, pw[0]&v.odenMask())
		})
	}
}

// RM0468 has no overdrive bit: Scale0 is a second direct transition,
// confirmed against the achieved-scale field.
func TestScale0DirectOnRM0468(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	v := Variant{Family: RM0468, RevisionV: true}
	cfg := New(f, v).VOS0(f).Freeze()
	require.Equal(t, Scale0, cfg.VOS())

	d3 := f.writesTo(regD3CR)
	require.Len(t, d3, 2)
	assert.Equal(t, v.vosBits(Scale1), d3[0])
	assert.Equal(t, v.vosBits(Scale0), d3[1])

	// Never the overdrive protocol.
	assert.Zero(t, f.reads[regPWRCR])
	assert.Empty(t, f.writesTo(regPWRCR))
	assert.Empty(t, f.writesTo(regAPB4ENR))

	// Confirmed: achieved scale equals requested field.
	assert.Equal(t, v.vosBits(Scale0), f.actvos)
}

// Once a simulated status flag asserts, the poll loop returns without extra
// iterations: exactly lat not-ready reads plus the ready read.
func TestPollsReturnWithinOneIteration(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	f.lat = 3
	New(f, Variant{Family: RM0433}).Freeze()
	assert.Equal(t, f.lat+1, f.reads[regCSR1])
	assert.Equal(t, f.lat+1, f.reads[regD3CR])
}

func TestBackupRegulatorEnable(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	cfg := New(f, Variant{Family: RM0433}).BackupRegulator().Freeze()

	cr2 := f.writesTo(regCR2)
	require.Len(t, cr2, 1)
	assert.EqualValues(t, cr2BREN, cr2[0]&cr2BREN)

	b := cfg.Backup()
	require.NotNil(t, b)
	assert.True(t, b.Enabled())
}

func TestBackupHandleTakenOnce(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	cfg := New(f, Variant{Family: RM0455}).LDO().Freeze()

	b := cfg.Backup()
	require.NotNil(t, b)
	assert.False(t, b.Enabled())
	assert.Nil(t, cfg.Backup(), "second take must yield nothing")
}

func TestBackupHandleIsSingleton(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	New(f, Variant{Family: RM0433}).Freeze()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.Equal(t, errcode.HandleTaken, errcode.Of(r.(error)))
	}()
	New(newFakeBus(), Variant{Family: RM0433}).Freeze()
}

func TestFreezeConsumesBuilder(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	p := New(f, Variant{Family: RM0433})
	p.Freeze()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.Equal(t, errcode.BuilderConsumed, errcode.Of(r.(error)))
	}()
	p.Freeze()
}

// Spec scenario: no-SMPS part, Scale1, no backup regulator.
func TestScenarioRM0433Scale1(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	cfg := New(f, Variant{Family: RM0433}).VOS1().Freeze()
	require.Equal(t, Scale1, cfg.VOS())

	cr3 := f.writesTo(regCR3)
	require.Len(t, cr3, 1)
	assert.EqualValues(t, cr3SCUEN|cr3LDOEN, cr3[0]&(cr3SCUEN|cr3LDOEN))
	assert.Zero(t, cr3[0]&cr3BYPASS)

	d3 := f.writesTo(regD3CR)
	require.Len(t, d3, 1)
	assert.EqualValues(t, 0b11<<d3crVOSShift, d3[0])

	// Backup domain unlocked, regulator untouched.
	assert.NotEqual(t, -1, f.writeIndex(regCR1))
	assert.Empty(t, f.writesTo(regCR2))
}

// Spec scenario: SMPS part, direct SMPS supply, Scale0 via overdrive.
func TestScenarioRM0399Scale0DirectSMPS(t *testing.T) {
	resetBackup(t)
	f := newFakeBus()
	v := Variant{Family: RM0399, RevisionV: true}
	cfg := New(f, v).SMPS().VOS0(f).Freeze()
	require.Equal(t, Scale0, cfg.VOS())

	cr3 := f.writesTo(regCR3)
	require.Len(t, cr3, 1)
	assert.EqualValues(t, cr3SDEN, cr3[0]&cr3SDEN)
	assert.Zero(t, cr3[0]&cr3LDOEN)

	// Scale1 hop, then overdrive enable.
	d3 := f.writesTo(regD3CR)
	require.Len(t, d3, 1)
	assert.Equal(t, v.vosBits(Scale1), d3[0])
	assert.NotEqual(t, -1, f.writeIndex(regPWRCR))
}

func TestSupplySelectionRejectedWithoutSMPS(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.Equal(t, errcode.Unsupported, errcode.Of(r.(error)))
	}()
	New(newFakeBus(), Variant{Family: RM0433}).SMPS()
}

func TestScale0Rejected(t *testing.T) {
	cases := []Variant{
		{Family: RM0455, RevisionV: true}, // family has no Scale0 at all
		{Family: RM0399},                  // revision gate not met
		{Family: RM0468},
	}
	for _, v := range cases {
		t.Run(v.Family.String(), func(t *testing.T) {
			f := newFakeBus()
			defer func() {
				r := recover()
				require.NotNil(t, r)
				assert.Equal(t, errcode.Unsupported, errcode.Of(r.(error)))
			}()
			New(f, v).VOS0(f)
		})
	}
}
