// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when a run is requested against a catalog
// with no crops.
var ErrEmptyCatalog = errors.New("crop catalog is empty")

// StoreWriteError reports that a computed batch could not be persisted.
// The batch is discarded; the run has failed.
type StoreWriteError struct {
	FarmerID string
	Err      error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("storing recommendations for farmer %s: %v", e.FarmerID, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
