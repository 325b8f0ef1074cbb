package models

import "time"

// DroneStatus is the operational state of a drone
type DroneStatus string

// Drone statuses accepted by the API
const (
	DroneAvailable    DroneStatus = "available"
	DroneAssigned     DroneStatus = "assigned"
	DroneMaintenance  DroneStatus = "maintenance"
	DroneCharging     DroneStatus = "charging"
	DroneOutOfService DroneStatus = "out-of-service"
)

// Drone holds the structure for a drone returned by the API
type Drone struct {
	ID              string      `json:"_id"`
	OrganizationID  string      `json:"organizationId"`
	SerialNumber    string      `json:"serialNumber"`
	Model           string      `json:"model"`
	Status          DroneStatus `json:"status"`
	BatteryLevel    int         `json:"batteryLevel"`
	CurrentLocation Location    `json:"currentLocation"`
	LastMaintenance *time.Time  `json:"lastMaintenance,omitempty"`
}

// DroneInput is the request body used to register a drone. The zero value
// of Status and BatteryLevel are replaced by NewDroneInput defaults.
type DroneInput struct {
	OrganizationID  string      `json:"organizationId" validate:"required"`
	SerialNumber    string      `json:"serialNumber" validate:"required"`
	Model           string      `json:"model" validate:"required"`
	Status          DroneStatus `json:"status" validate:"required,oneof=available assigned maintenance charging out-of-service"`
	BatteryLevel    int         `json:"batteryLevel" validate:"min=0,max=100"`
	CurrentLocation Location    `json:"currentLocation"`
	LastMaintenance *time.Time  `json:"lastMaintenance,omitempty"`
}

// NewDroneInput returns the defaults the add-drone form starts from: an
// available drone with a full battery parked at the origin.
func NewDroneInput(serialNumber, model string) DroneInput {
	return DroneInput{
		SerialNumber:    serialNumber,
		Model:           model,
		Status:          DroneAvailable,
		BatteryLevel:    100,
		CurrentLocation: PointLocation(0, 0),
	}
}

// DronesResponse wraps GET /drones
type DronesResponse struct {
	Drones []Drone `json:"drones"`
}

// DroneResponse wraps POST /drones and DELETE /drones/{id}
type DroneResponse struct {
	Drone Drone `json:"drone"`
}
