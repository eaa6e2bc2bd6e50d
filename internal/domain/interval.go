package domain

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when a requested flush cadence is not one
// of the recognized presets.
var ErrInvalidInterval = errors.New("invalid update interval")

// UpdateInterval is the user-selectable flush cadence in seconds.
type UpdateInterval int

// Recognized flush cadence presets.
const (
	Interval1s  UpdateInterval = 1
	Interval5s  UpdateInterval = 5
	Interval10s UpdateInterval = 10
	Interval20s UpdateInterval = 20
)

// IsValid checks if the interval is one of the recognized presets.
func (i UpdateInterval) IsValid() bool {
	switch i {
	case Interval1s, Interval5s, Interval10s, Interval20s:
		return true
	}
	return false
}

// Duration returns the interval as a time.Duration.
func (i UpdateInterval) Duration() time.Duration {
	return time.Duration(i) * time.Second
}
