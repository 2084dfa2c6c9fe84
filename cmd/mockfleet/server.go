package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"drivemate/fleet"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type server struct {
	log *slog.Logger

	mu            sync.Mutex
	accessToken   string
	refreshToken  string
	user          map[string]any
	jobs          []map[string]any
	documents     map[string]any
	notifications []map[string]any
	absences      []string
	locations     int
}

func newServer(log *slog.Logger) *server {
	return &server{
		log: log,
		user: map[string]any{
			"id":          1,
			"first_name":  "Jordan",
			"last_name":   "Velez",
			"email":       "jordan.velez@example.com",
			"phone":       "555-0140",
			"user_type":   "driver",
			"status":      1,
			"status_name": "Active",
		},
		jobs: []map[string]any{
			{
				"id": 101, "parcel_id": 101, "tracking_id": "TRK-101", "order_id": "101",
				"customer_name": "Acme Freight", "job_type": "LTL", "shipment_date": "2025-06-01",
				"from_address_text": "12 Dock Rd", "to_address_text": "88 Bay St", "status": "new",
			},
			{
				"id": 102, "parcel_id": 102, "trackingId": "TRK-102", "orderId": "102",
				"company_name": "Northline", "shipment_date": "2025-06-02",
				"pickup_address": "4 Mill Ln", "delivery_address": "9 Pier Ave", "status": "accepted",
			},
		},
		documents: map[string]any{
			fleet.DocLicenseFront: "https://files.example.com/lic-front.jpg",
		},
		notifications: []map[string]any{
			{"id": 1, "title": "Welcome", "message": "Your account is active", "time": "09:00", "read": false},
			{"id": 2, "title": "New job", "message": "A job was assigned to you", "time": "09:30", "read": false},
		},
	}
}

func ok(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "data": data})
}

func fail(c *gin.Context, status int, msg string, data any) {
	c.JSON(status, gin.H{"success": false, "message": msg, "data": data})
}

func (s *server) register(engine *gin.Engine) {
	engine.POST("/oauth/token", s.token)

	api := engine.Group("/api", s.requireBearer)
	api.GET("/driver/profile", s.profile)
	api.POST("/driver/profile", s.profile)
	api.POST("/driver/profile/update", s.updateProfile)
	api.GET("/driver/documents", s.listDocuments)
	api.POST("/driver/documents/update", s.updateDocuments)
	api.GET("/driver/dashboard", s.dashboard)
	api.POST("/driver/dashboard", s.dashboard)
	api.POST("/driver/current-jobs", s.currentJobs)
	api.POST("/driver/job-details", s.jobDetails)
	api.POST("/driver/my-rides", s.myRides)
	api.POST("/driver/mark-absent", s.markAbsent)
	api.POST("/driver/location", s.location)
	api.POST("/driver/notifications", s.listNotifications)
	api.POST("/driver/notifications/read", s.readNotification)
	api.POST("/jobs/:id/:action", s.jobAction)
}

func (s *server) token(c *gin.Context) {
	var req struct {
		GrantType    string `json:"grant_type"`
		Username     string `json:"username"`
		Password     string `json:"password"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed token request", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.GrantType {
	case "password":
		if req.Username == "" || req.Password == "" {
			fail(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
	case "refresh_token":
		if req.RefreshToken == "" || req.RefreshToken != s.refreshToken {
			fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
			return
		}
	default:
		fail(c, http.StatusBadRequest, "unsupported grant type", nil)
		return
	}

	s.accessToken = uuid.NewString()
	s.refreshToken = uuid.NewString()
	c.JSON(http.StatusOK, gin.H{
		"access_token":  s.accessToken,
		"refresh_token": s.refreshToken,
		"expires_in":    3600,
		"token_type":    "Bearer",
	})
}

func (s *server) requireBearer(c *gin.Context) {
	s.mu.Lock()
	expected := s.accessToken
	s.mu.Unlock()

	header := c.GetHeader("Authorization")
	if expected == "" || header != "Bearer "+expected {
		fail(c, http.StatusUnauthorized, "authentication required", nil)
		c.Abort()
		return
	}
	c.Next()
}

func (s *server) profile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, "profile loaded", gin.H{"user": s.user})
}

func (s *server) updateProfile(c *gin.Context) {
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed body", nil)
		return
	}
	if fmt.Sprint(req["first_name"]) == "" {
		fail(c, http.StatusUnprocessableEntity, "validation failed",
			gin.H{"first_name": []string{"first name is required"}})
		return
	}

	s.mu.Lock()
	for _, key := range []string{"first_name", "last_name", "phone", "email", "address"} {
		if v, okk := req[key]; okk {
			s.user[key] = v
		}
	}
	user := s.user
	s.mu.Unlock()

	ok(c, "profile updated", gin.H{"user": user})
}

func (s *server) listDocuments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, "documents loaded", gin.H{"documents": s.documents})
}

func (s *server) updateDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "expected multipart form", nil)
		return
	}

	s.mu.Lock()
	for field, headers := range form.File {
		if len(headers) > 0 {
			s.documents[field] = "https://files.example.com/" + headers[0].Filename
		}
	}
	docs := s.documents
	s.mu.Unlock()

	ok(c, "documents updated", gin.H{"documents": docs})
}

func (s *server) dashboard(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int{}
	var newJobs []map[string]any
	for _, job := range s.jobs {
		status := fmt.Sprint(job["status"])
		switch status {
		case "new":
			counts["new_order"]++
			newJobs = append(newJobs, job)
		case "picked_up", "pickedup":
			counts["picked_up"]++
		default:
			counts[status]++
		}
	}

	ok(c, "dashboard loaded", gin.H{"counts": counts, "new_jobs": newJobs})
}

func (s *server) currentJobs(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []map[string]any
	for _, job := range s.jobs {
		status := fmt.Sprint(job["status"])
		if status == "accepted" || status == "picked_up" || status == "pickedup" {
			current = append(current, job)
		}
	}
	ok(c, "current jobs loaded", gin.H{"jobs": current})
}

func (s *server) jobDetails(c *gin.Context) {
	var req struct {
		ParcelID int `json:"parcel_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed body", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if id, _ := job["parcel_id"].(int); id == req.ParcelID {
			ok(c, "job loaded", gin.H{"job": job})
			return
		}
	}
	fail(c, http.StatusNotFound, "job not found", nil)
}

func (s *server) myRides(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed body", nil)
		return
	}

	valid := map[string]bool{"accepted": true, "picked_up": true, "delivered": true, "cancelled": true}
	if !valid[req.Status] {
		fail(c, http.StatusUnprocessableEntity, "validation failed",
			gin.H{"status": []string{"invalid status"}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var rides []map[string]any
	for _, job := range s.jobs {
		status := fmt.Sprint(job["status"])
		if status == req.Status || (req.Status == "picked_up" && status == "pickedup") {
			rides = append(rides, job)
		}
	}
	ok(c, "rides loaded", gin.H{"rides": rides})
}

func (s *server) markAbsent(c *gin.Context) {
	var req struct {
		AbsentDate string `json:"absent_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AbsentDate == "" {
		fail(c, http.StatusUnprocessableEntity, "validation failed",
			gin.H{"absent_date": []string{"absent date is required"}})
		return
	}
	if _, err := time.Parse("2006-01-02", req.AbsentDate); err != nil {
		fail(c, http.StatusUnprocessableEntity, "validation failed",
			gin.H{"absent_date": []string{"absent date must be YYYY-MM-DD"}})
		return
	}

	s.mu.Lock()
	s.absences = append(s.absences, req.AbsentDate)
	s.mu.Unlock()
	ok(c, "marked absent", nil)
}

func (s *server) location(c *gin.Context) {
	var req struct {
		DriverID  int     `json:"driver_id"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Timestamp string  `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed body", nil)
		return
	}

	s.mu.Lock()
	s.locations++
	count := s.locations
	s.mu.Unlock()

	s.log.Debug("location received",
		"driver_id", req.DriverID, "lat", req.Latitude, "lng", req.Longitude, "total", count)
	ok(c, "location recorded", nil)
}

func (s *server) listNotifications(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, "notifications loaded", gin.H{"notifications": s.notifications})
}

func (s *server) readNotification(c *gin.Context) {
	var req struct {
		NotificationID int `json:"notification_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed body", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n["id"] == req.NotificationID {
			n["read"] = true
			ok(c, "notification read", nil)
			return
		}
	}
	fail(c, http.StatusNotFound, "notification not found", nil)
}

func (s *server) jobAction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid job id", nil)
		return
	}

	var target string
	switch c.Param("action") {
	case "accept":
		target = "accepted"
	case "pickup":
		target = "picked_up"
	case "deliver":
		target = "delivered"
	default:
		fail(c, http.StatusNotFound, "unknown action", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if jid, _ := job["id"].(int); jid == id {
			job["status"] = target
			ok(c, "job "+target, nil)
			return
		}
	}
	fail(c, http.StatusNotFound, "job not found", nil)
}
