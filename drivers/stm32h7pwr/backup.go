package stm32h7pwr

import (
	"sync/atomic"

	"powercode-go/errcode"
)

// BackupRegulator is exclusive runtime control of the backup-domain voltage
// regulator. Exactly one live handle exists per process; it is created by
// Freeze and handed out once through PowerConfiguration.Backup.
type BackupRegulator struct {
	enabled bool
}

// Enabled reports whether the regulator was switched on during Freeze.
func (b *BackupRegulator) Enabled() bool { return b.enabled }

var backupConstructed atomic.Bool

// newBackupRegulator enforces the construct-once contract with a
// process-wide flag. A second construction means a second Freeze completed,
// which already implies a misused power cycle.
func newBackupRegulator(enabled bool) *BackupRegulator {
	if !backupConstructed.CompareAndSwap(false, true) {
		panic(&errcode.E{
			C:   errcode.HandleTaken,
			Op:  "pwr.Freeze",
			Msg: "backup regulator handle was already constructed this power cycle",
		})
	}
	return &BackupRegulator{enabled: enabled}
}
