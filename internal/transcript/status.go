package transcript

import "time"

// Status is the display status shown next to the recording controls.
type Status string

const (
	StatusStandby      Status = "standby"
	StatusInitializing Status = "initializing"
	StatusScanning     Status = "scanning"
	StatusProcessing   Status = "processing"
	StatusReady        Status = "ready"
)

// Delays between status steps.
const (
	BootDelay      = 3 * time.Second
	ScanDelay      = 1 * time.Second
	ProcessDelay   = 1500 * time.Millisecond
	StandbyDelay   = 1 * time.Second
	warnRedSecs    = 5
	warnYellowSecs = 10
)

// Warning classifies the remaining recording time.
type Warning int

const (
	WarnNone Warning = iota
	WarnYellow
	WarnRed
)

// TimerWarning returns the warning level for remaining seconds while listening.
func TimerWarning(listening bool, remaining int) Warning {
	switch {
	case !listening:
		return WarnNone
	case remaining <= warnRedSecs:
		return WarnRed
	case remaining <= warnYellowSecs:
		return WarnYellow
	}
	return WarnNone
}

// SignalBand classifies bar i (0-9) of the signal meter for the given
// strength: 0 inactive, 1 low, 2 medium, 3 high.
func SignalBand(i, strength int) int {
	if i > strength {
		return 0
	}
	return i*3/10 + 1
}
