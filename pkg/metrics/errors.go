package metrics

import (
	"errors"
)

// Sentinel kinds for errors raised by the metrics manager.
var (
	ErrObserveFailed = errors.New("metrics observe failed")
)
