// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownFarmer is returned when a record refers to a farmer with no
// stored profile.
var ErrUnknownFarmer = errors.New("farmer profile not found")

// InvalidProfileError reports a farmer or crop profile field that is
// missing or outside its declared domain. It is the caller's fault and is
// never retried.
type InvalidProfileError struct {
	// Subject identifies the profile, e.g. "farmer f-12" or "crop rice".
	Subject string

	// Field is the offending field name as it appears in profile files.
	Field string

	// Reason describes the violated constraint.
	Reason string
}

func (e *InvalidProfileError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid profile %s: %s %s", e.Subject, e.Field, e.Reason)
}

func invalid(subject, field, format string, args ...any) *InvalidProfileError {
	return &InvalidProfileError{Subject: subject, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
