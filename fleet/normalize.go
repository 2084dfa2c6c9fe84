package fleet

import (
	"fmt"
	"strconv"
	"strings"
)

// Alias tables for the backend's inconsistent field naming. Each canonical
// field lists every spelling seen across endpoints and legacy responses, in
// preference order. Extend the lists as new spellings appear; never rename
// the canonical side.
var (
	trackingIDAliases = []string{"tracking_id", "trackingId", "order_number"}
	orderIDAliases    = []string{"order_id", "orderId", "order_no"}
	parcelIDAliases   = []string{"parcel_id", "parcelId", "id"}
	customerAliases   = []string{"customer_name", "company_name", "customer", "client_name", "name"}
	jobTypeAliases    = []string{"job_type", "type", "service_type"}
	dateAliases       = []string{"shipment_date", "shipmentDate", "pickup_date", "date"}
	pickupAliases     = []string{"from_address_text", "from_address", "pickup_address", "pickup_address_text"}
	dropoffAliases    = []string{"to_address_text", "to_address", "dropoff_address", "delivery_address"}
	imageAliases      = []string{"profile_image", "image", "avatar"}
	statusAliases     = []string{"status", "job_status", "order_status"}
)

// pickString returns the first alias whose value is present and non-nil,
// rendered as a string. Empty strings are legitimate values and are kept
// (not-null semantics, not truthiness).
func pickString(m map[string]any, aliases []string, fallback string) string {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			return s
		case float64:
			if s == float64(int64(s)) {
				return strconv.FormatInt(int64(s), 10)
			}
			return fmt.Sprint(s)
		default:
			return fmt.Sprint(v)
		}
	}
	return fallback
}

// pickInt returns the first alias that holds a usable number. Zero is a
// legitimate value; only absent/nil/unparseable values yield the fallback.
func pickInt(m map[string]any, aliases []string, fallback int) int {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := toInt(v); ok {
			return n
		}
	}
	return fallback
}

func pickFloat(m map[string]any, aliases []string, fallback float64) float64 {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
	}
	return fallback
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		if n == "" {
			return 0, false
		}
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// NormalizeJob maps one raw job object into the canonical shape. The forced
// status wins over whatever the payload carries when non-empty.
func NormalizeJob(raw map[string]any, forced Status) Job {
	job := Job{
		ID:             pickInt(raw, []string{"id"}, 0),
		TrackingID:     pickString(raw, trackingIDAliases, "N/A"),
		OrderID:        pickString(raw, orderIDAliases, "N/A"),
		ParcelID:       pickInt(raw, parcelIDAliases, 0),
		CustomerName:   pickString(raw, customerAliases, "N/A"),
		JobType:        pickString(raw, jobTypeAliases, "LTL"),
		ShipmentDate:   pickString(raw, dateAliases, "N/A"),
		PickupAddress:  pickString(raw, pickupAliases, "N/A"),
		DropoffAddress: pickString(raw, dropoffAliases, "N/A"),
		ProfileImage:   pickString(raw, imageAliases, ""),
	}

	if forced != "" {
		job.Status = forced
	} else {
		job.Status = StatusFromWire(pickString(raw, statusAliases, string(StatusNew)))
	}
	if job.ID == 0 {
		job.ID = job.ParcelID
	}

	if bd, ok := raw["booking_details"].(map[string]any); ok {
		job.Booking = &BookingDetails{
			VariantSummary: pickString(bd, []string{"variant_summary", "variantSummary"}, ""),
			Equipments:     pickString(bd, []string{"equipments", "equipment"}, ""),
			TotalWeight:    pickFloat(bd, []string{"total_weight", "totalWeight"}, 0),
		}
	}

	return job
}

// NormalizeJobs maps a raw list, skipping entries that are not objects.
func NormalizeJobs(raw []any, forced Status) []Job {
	jobs := make([]Job, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			jobs = append(jobs, NormalizeJob(m, forced))
		}
	}
	return jobs
}

// NormalizeUser maps a raw profile object into the canonical User. Synthesized
// fields (rating, active, vehicle) are left at their zero values; the store
// overlays its own defaults or prior state for those.
func NormalizeUser(raw map[string]any) User {
	user := User{
		ID:         pickInt(raw, []string{"id", "user_id", "driver_id"}, 0),
		FirstName:  pickString(raw, []string{"first_name", "firstName"}, ""),
		LastName:   pickString(raw, []string{"last_name", "lastName"}, ""),
		Email:      pickString(raw, []string{"email"}, ""),
		Phone:      pickString(raw, []string{"phone", "phone_number"}, ""),
		Address:    pickString(raw, []string{"address"}, ""),
		ImageURL:   pickString(raw, []string{"image", "image_url", "avatar"}, ""),
		UserType:   pickString(raw, []string{"user_type", "userType"}, ""),
		Status:     pickInt(raw, []string{"status"}, 0),
		StatusName: pickString(raw, []string{"status_name", "statusName"}, ""),
		CreatedAt:  pickString(raw, []string{"created_at", "createdAt"}, ""),
		UpdatedAt:  pickString(raw, []string{"updated_at", "updatedAt"}, ""),
	}

	if meta, ok := raw["meta"].(map[string]any); ok {
		user.Meta = Meta{
			IPAddress:   pickString(meta, []string{"ip_address", "ipAddress"}, ""),
			DeviceID:    pickString(meta, []string{"device_id", "deviceId"}, ""),
			DeviceModel: pickString(meta, []string{"device_model", "deviceModel"}, ""),
		}
	}

	return user
}

// NormalizeCounts extracts dashboard counters with per-field not-null
// coercion: a present zero stays zero, only missing/null/non-numeric values
// become zero.
func NormalizeCounts(raw map[string]any) DashboardCounts {
	return DashboardCounts{
		NewOrder:  pickInt(raw, []string{"new_order", "new_orders", "new"}, 0),
		Accepted:  pickInt(raw, []string{"accepted"}, 0),
		PickedUp:  pickInt(raw, []string{"picked_up", "pickedup"}, 0),
		Delivered: pickInt(raw, []string{"delivered"}, 0),
		Cancelled: pickInt(raw, []string{"cancelled", "canceled"}, 0),
	}
}

// NormalizeNotification maps one raw notification object.
func NormalizeNotification(raw map[string]any) Notification {
	return Notification{
		ID:      pickInt(raw, []string{"id"}, 0),
		Title:   pickString(raw, []string{"title"}, ""),
		Message: pickString(raw, []string{"message", "body"}, ""),
		Time:    pickString(raw, []string{"time", "created_at"}, ""),
		Read:    pickBool(raw, []string{"read", "is_read"}),
	}
}

func pickBool(m map[string]any, aliases []string) bool {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case float64:
			return b != 0
		case string:
			return b == "1" || strings.EqualFold(b, "true")
		}
	}
	return false
}

// NormalizeDocuments maps the raw document object to the fixed key set,
// dropping unknown keys and nulls.
func NormalizeDocuments(raw map[string]any) Documents {
	docs := make(Documents, len(DocumentKeys))
	for _, key := range DocumentKeys {
		if v, ok := raw[key].(string); ok {
			docs[key] = v
		}
	}
	return docs
}
