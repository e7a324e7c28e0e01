package common

import "errors"

// Validation failures shared by the analysis stages. Callers wrap these with
// context using fmt.Errorf("...: %w", err) so errors.Is keeps working.
var (
	// ErrSignalTooShort is returned when the frame length exceeds the signal length
	ErrSignalTooShort = errors.New("signal too short")

	// ErrInvalidLength is returned for zero-length (or mismatched) transform input
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidBandCount is returned when the mel band count is < 1 or exceeds the usable bins
	ErrInvalidBandCount = errors.New("invalid band count")

	// ErrInvalidCoefficientCount is returned when more cepstral coefficients are requested than bands exist
	ErrInvalidCoefficientCount = errors.New("invalid coefficient count")

	// ErrUnsupportedSampleRate is returned for zero or negative sample rates
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")

	ErrInvalidHop         = errors.New("invalid hop length")
	ErrInvalidFrameLength = errors.New("invalid frame length")
	ErrUnknownWindow      = errors.New("unknown window type")
)
