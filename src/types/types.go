package types

import (
	"fmt"
	"strings"
)

// VehicleType is the single input the prediction backend accepts.
type VehicleType string

const (
	VehicleCar     VehicleType = "car"
	VehicleBike    VehicleType = "bike"
	VehicleScooter VehicleType = "scooter"
	VehicleBus     VehicleType = "bus"
)

// VehicleTypes lists the accepted values in display order.
func VehicleTypes() []VehicleType {
	return []VehicleType{VehicleCar, VehicleBike, VehicleScooter, VehicleBus}
}

// VehicleModel maps a vehicle type to the EV model label the backend trains on.
// Mirrors the backend's vehicle_type_to_model table.
func (v VehicleType) VehicleModel() string {
	switch v {
	case VehicleCar:
		return "Model A"
	case VehicleBike:
		return "Model B"
	case VehicleScooter:
		return "Model C"
	case VehicleBus:
		return "Model D"
	}
	return ""
}

// ParseVehicleType validates raw user input against the accepted enum.
// Input is trimmed and lowercased before matching; empty or unknown values
// return an error and must never reach the wire.
func ParseVehicleType(raw string) (VehicleType, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("vehicle type is required")
	}
	for _, v := range VehicleTypes() {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle type %q (valid: car, bike, scooter, bus)", raw)
}

// ParameterRow is one original-vs-predicted comparison line from the backend.
// Difference is a pointer because older backend builds omit it; rendering
// treats a missing value as "n/a" rather than zero.
type ParameterRow struct {
	Parameter  string   `json:"parameter"`
	Original   float64  `json:"original"`
	Predicted  float64  `json:"predicted"`
	Difference *float64 `json:"difference,omitempty"`
}

// PredictionResponse is the JSON body of a successful POST /predict/ call.
// Error is set (with HTTP 200) by some backend builds instead of a non-2xx
// status; callers must check it before trusting the rest of the payload.
type PredictionResponse struct {
	Status      string         `json:"status,omitempty"`
	VehicleType string         `json:"vehicle_type,omitempty"`
	EVModel     string         `json:"ev_model,omitempty"`
	ChartURL    string         `json:"chart_url"`
	TableData   []ParameterRow `json:"table_data"`
	Error       string         `json:"error,omitempty"`
}

// ServerStatus tracks backend reachability as observed by keep-alive pings.
type ServerStatus int32

const (
	StatusUnknown ServerStatus = iota
	StatusOnline
	StatusOffline
)

func (s ServerStatus) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	}
	return "unknown"
}

// Timeouts groups the per-call deadlines. Zero values fall back to defaults.
type Timeouts struct {
	Predict Duration `yaml:"predict"`
	Health  Duration `yaml:"health"`
	Wake    Duration `yaml:"wake"`
}
