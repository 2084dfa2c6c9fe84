// Package fleet holds the canonical domain model and the per-endpoint
// service wrappers. The backend names the same fields inconsistently across
// endpoints; everything entering this package is normalized to the shapes
// below and nothing leaves it undefaulted.
package fleet

import "strings"

type Meta struct {
	IPAddress   string `json:"ip_address"`
	DeviceID    string `json:"device_id"`
	DeviceModel string `json:"device_model"`
}

type Vehicle struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

type User struct {
	ID         int     `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	ImageURL   string  `json:"image_url"`
	UserType   string  `json:"user_type"`
	Status     int     `json:"status"`
	StatusName string  `json:"status_name"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
	Meta       Meta    `json:"meta"`
	Rating     float64 `json:"rating"`
	Active     bool    `json:"active"`
	Vehicle    Vehicle `json:"vehicle"`
}

// DisplayName derives the name shown in the UI header. A driver with no
// name on file still gets a label.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return "Driver"
	}
	return name
}

// DefaultUser keeps UI contracts valid when the profile load fails.
func DefaultUser() User {
	return User{
		ID:      0,
		Rating:  0,
		Active:  false,
		Vehicle: Vehicle{},
	}
}

type BookingDetails struct {
	VariantSummary string  `json:"variant_summary"`
	Equipments     string  `json:"equipments"`
	TotalWeight    float64 `json:"total_weight"`
}

type Job struct {
	ID             int             `json:"id"`
	TrackingID     string          `json:"tracking_id"`
	OrderID        string          `json:"order_id"`
	ParcelID       int             `json:"parcel_id"`
	CustomerName   string          `json:"customer_name"`
	JobType        string          `json:"job_type"`
	ShipmentDate   string          `json:"shipment_date"`
	PickupAddress  string          `json:"pickup_address"`
	DropoffAddress string          `json:"dropoff_address"`
	ProfileImage   string          `json:"profile_image"`
	Status         Status          `json:"status"`
	Booking        *BookingDetails `json:"booking_details,omitempty"`
}

type DashboardCounts struct {
	NewOrder  int `json:"new_order"`
	Accepted  int `json:"accepted"`
	PickedUp  int `json:"picked_up"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
}

// ByStatus returns the count for a UI status tab.
func (c DashboardCounts) ByStatus(s Status) int {
	switch s {
	case StatusNew:
		return c.NewOrder
	case StatusAccepted:
		return c.Accepted
	case StatusPickedUp:
		return c.PickedUp
	case StatusDelivered:
		return c.Delivered
	case StatusCancelled:
		return c.Cancelled
	}
	return 0
}

type Dashboard struct {
	Counts  DashboardCounts `json:"counts"`
	NewJobs []Job           `json:"new_jobs"`
	Meta    map[string]any  `json:"meta,omitempty"`
}

type Notification struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Read    bool   `json:"read"`
}

// Compliance document slots. The backend stores one URL per fixed key.
const (
	DocLicenseFront   = "driver_license_front"
	DocLicenseBack    = "driver_license_back"
	DocInsurance      = "insurance"
	DocMV1Report      = "mv1_report"
	DocIncidentReport = "incident_report"
	DocCuseLogbook    = "cuse_logbook"
)

var DocumentKeys = []string{
	DocLicenseFront,
	DocLicenseBack,
	DocInsurance,
	DocMV1Report,
	DocIncidentReport,
	DocCuseLogbook,
}

var RequiredDocumentKeys = []string{
	DocLicenseFront,
	DocLicenseBack,
	DocInsurance,
}

// Documents maps a document key to its uploaded URL. A missing or empty
// entry means the document has not been uploaded.
type Documents map[string]string

// MissingRequired lists required documents with no upload yet.
func (d Documents) MissingRequired() []string {
	var missing []string
	for _, key := range RequiredDocumentKeys {
		if d[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

type LocationSample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp"`
}
