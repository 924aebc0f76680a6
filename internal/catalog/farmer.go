// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crop-engine/pkg/types"
)

// farmerDoc mirrors types.FarmerProfile with pointer fields so absent
// numbers can be told apart from zeros.
type farmerDoc struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Location         string   `json:"location" yaml:"location"`
	FarmSizeAcres    *float64 `json:"farm_size_acres" yaml:"farm_size_acres"`
	SoilType         string   `json:"soil_type" yaml:"soil_type"`
	SoilPH           *float64 `json:"soil_ph" yaml:"soil_ph"`
	AnnualRainfallMM *float64 `json:"annual_rainfall_mm" yaml:"annual_rainfall_mm"`
	Temperature      *struct {
		MinC *float64 `json:"min_c" yaml:"min_c"`
		MaxC *float64 `json:"max_c" yaml:"max_c"`
	} `json:"temperature" yaml:"temperature"`
}

func (d farmerDoc) profile() (types.FarmerProfile, error) {
	subject := "farmer"
	if d.ID != "" {
		subject = "farmer " + d.ID
	}
	switch {
	case d.FarmSizeAcres == nil:
		return types.FarmerProfile{}, missing(subject, "farm_size_acres")
	case d.SoilPH == nil:
		return types.FarmerProfile{}, missing(subject, "soil_ph")
	case d.AnnualRainfallMM == nil:
		return types.FarmerProfile{}, missing(subject, "annual_rainfall_mm")
	case d.Temperature == nil:
		return types.FarmerProfile{}, missing(subject, "temperature")
	case d.Temperature.MinC == nil:
		return types.FarmerProfile{}, missing(subject, "temperature.min_c")
	case d.Temperature.MaxC == nil:
		return types.FarmerProfile{}, missing(subject, "temperature.max_c")
	}
	return types.NewFarmerProfile(types.FarmerProfile{
		ID:               d.ID,
		Name:             d.Name,
		Location:         d.Location,
		FarmSizeAcres:    *d.FarmSizeAcres,
		SoilType:         d.SoilType,
		SoilPH:           *d.SoilPH,
		AnnualRainfallMM: *d.AnnualRainfallMM,
		Temperature:      types.TemperatureRange{MinC: *d.Temperature.MinC, MaxC: *d.Temperature.MaxC},
	})
}

// LoadFarmer reads and validates a YAML farmer profile file. When id is
// non-empty it overrides any id in the file.
func LoadFarmer(path, id string) (types.FarmerProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FarmerProfile{}, fmt.Errorf("reading farmer profile %s: %w", path, err)
	}
	var doc farmerDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.FarmerProfile{}, fmt.Errorf("parsing farmer profile %s: %w", path, err)
	}
	if id != "" {
		doc.ID = id
	}
	return doc.profile()
}

// DecodeFarmerJSON decodes and validates a JSON farmer profile. Unknown
// fields are rejected. When id is non-empty it overrides any id in the
// document.
func DecodeFarmerJSON(data []byte, id string) (types.FarmerProfile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc farmerDoc
	if err := dec.Decode(&doc); err != nil {
		return types.FarmerProfile{}, &types.InvalidProfileError{Subject: "farmer", Field: "body", Reason: err.Error()}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return types.FarmerProfile{}, &types.InvalidProfileError{Subject: "farmer", Field: "body", Reason: "unexpected data after the profile object"}
	}
	if id != "" {
		doc.ID = id
	}
	return doc.profile()
}
