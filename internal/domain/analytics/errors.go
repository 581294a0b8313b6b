package analytics

import "errors"

var (
	// ErrDataUnavailable covers every failure to obtain a dataset: not found,
	// transport errors and undecodable payloads.
	ErrDataUnavailable = errors.New("reports not found")
	ErrInvalidEventID  = errors.New("invalid event id")
)
