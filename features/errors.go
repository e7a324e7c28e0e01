package features

import (
	"errors"

	"github.com/RyanBlaney/sonido-vista/algorithms/common"
)

// Failures a caller can match with errors.Is. All are detected before any
// heavy computation starts.
var (
	ErrSignalTooShort          = common.ErrSignalTooShort
	ErrInvalidLength           = common.ErrInvalidLength
	ErrInvalidBandCount        = common.ErrInvalidBandCount
	ErrInvalidCoefficientCount = common.ErrInvalidCoefficientCount
	ErrUnsupportedSampleRate   = common.ErrUnsupportedSampleRate
	ErrInvalidHop              = common.ErrInvalidHop
	ErrInvalidFrameLength      = common.ErrInvalidFrameLength
	ErrUnknownWindow           = common.ErrUnknownWindow

	// ErrSuperseded is returned by Session.Load when a newer request or a
	// Clear replaced it before it finished
	ErrSuperseded = errors.New("analysis superseded")
)
