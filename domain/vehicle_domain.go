package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddVehicle    = "vehicle added successfully"
	MessageSuccessGetVehicles   = "vehicles retrieved successfully"
	MessageSuccessUpdateVehicle = "vehicle updated successfully"
	MessageSuccessDeleteVehicle = "vehicle deleted successfully"
	MessageSuccessInstallPart   = "part marked as installed"

	MessageFailedAddVehicle    = "failed to add vehicle"
	MessageFailedGetVehicles   = "failed to retrieve vehicles"
	MessageFailedUpdateVehicle = "failed to update vehicle"
	MessageFailedDeleteVehicle = "failed to delete vehicle"
	MessageFailedInstallPart   = "failed to mark part as installed"

	ErrVehicleNotFound = errors.New("vehicle not found")
)

type (
	AddVehicleRequest struct {
		Make  string `json:"make" validate:"required"`
		Model string `json:"model" validate:"required"`
		Year  int    `json:"year" validate:"required,gte=1900"`
		Trim  string `json:"trim,omitempty"`
		VIN   string `json:"vin" validate:"omitempty,len=17"`
	}

	UpdateVehicleRequest struct {
		Make  string `json:"make" validate:"omitempty"`
		Model string `json:"model" validate:"omitempty"`
		Year  int    `json:"year" validate:"omitempty,gte=1900"`
		Trim  string `json:"trim,omitempty"`
		VIN   string `json:"vin" validate:"omitempty,len=17"`
	}

	InstallPartRequest struct {
		PartID string `json:"part_id" validate:"required,uuid"`
	}

	VehicleResponse struct {
		ID               string    `json:"id"`
		Make             string    `json:"make"`
		Model            string    `json:"model"`
		Year             int       `json:"year"`
		Trim             string    `json:"trim,omitempty"`
		VIN              string    `json:"vin,omitempty"`
		InstalledPartIDs []string  `json:"installed_part_ids"`
		CreatedAt        time.Time `json:"created_at"`
	}
)
