package fleet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"drivemate/api"
	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"
)

// newFixtureServices runs an httptest server with per-path handlers and
// returns a Services wired against it.
func newFixtureServices(t *testing.T, handlers map[string]http.HandlerFunc) *Services {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range handlers {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	log := logger.Discard()
	client := api.NewClient(srv.URL, nil, log, apperrors.NewLog(log))
	return NewServices(client, log)
}

func respondJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestRidesSendsWireStatusAndTagsResults(t *testing.T) {
	var gotStatus string
	svc := newFixtureServices(t, map[string]http.HandlerFunc{
		"/driver/my-rides": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			gotStatus, _ = body["status"].(string)
			respondJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"rides": []any{
						map[string]any{"id": float64(1), "tracking_id": "TRK-1"},
					},
				},
			})
		},
	})

	res := svc.Rides(context.Background(), 7, StatusPickedUp)
	if !res.Success {
		t.Fatalf("rides failed: %s", res.Message)
	}
	if gotStatus != "picked_up" {
		t.Fatalf("wire status = %q, want picked_up", gotStatus)
	}
	if len(res.Rides) != 1 || res.Rides[0].Status != StatusPickedUp {
		t.Fatalf("rides = %+v, want one ride tagged pickedup", res.Rides)
	}
}

func TestTransitionJobHTMLFallback(t *testing.T) {
	svc := newFixtureServices(t, map[string]http.HandlerFunc{
		"/jobs/42/accept": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<!DOCTYPE html><html></html>"))
		},
	})

	res := svc.TransitionJob(context.Background(), 42, StatusAccepted)
	if res.Success {
		t.Fatal("HTML response is not a success")
	}
	if !res.HTMLFallback {
		t.Fatal("expected HTMLFallback to be set")
	}
}

func TestTransitionJobRejectsUnknownStatus(t *testing.T) {
	svc := newFixtureServices(t, nil)
	if res := svc.TransitionJob(context.Background(), 42, StatusCancelled); res.Success {
		t.Fatal("cancelled has no transition endpoint")
	}
	if res := svc.TransitionJob(context.Background(), 0, StatusAccepted); res.Success {
		t.Fatal("zero job id must be rejected locally")
	}
}

func TestLoadDashboardInlineCounts(t *testing.T) {
	svc := newFixtureServices(t, map[string]http.HandlerFunc{
		"/driver/dashboard": func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"new_order": float64(2),
					"accepted":  float64(1),
					"new_jobs": []any{
						map[string]any{"id": float64(5), "status": "delivered"},
					},
				},
			})
		},
	})

	res := svc.LoadDashboard(context.Background(), 7)
	if !res.Success {
		t.Fatalf("dashboard failed: %s", res.Message)
	}
	if res.Dashboard.Counts.NewOrder != 2 || res.Dashboard.Counts.Accepted != 1 {
		t.Fatalf("counts = %+v", res.Dashboard.Counts)
	}
	// the new-jobs feed is always the new cohort regardless of payload status
	if len(res.Dashboard.NewJobs) != 1 || res.Dashboard.NewJobs[0].Status != StatusNew {
		t.Fatalf("new jobs = %+v", res.Dashboard.NewJobs)
	}
}

func TestProfileUnwrapsUserObject(t *testing.T) {
	svc := newFixtureServices(t, map[string]http.HandlerFunc{
		"/driver/profile": func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"user": map[string]any{
						"id":         float64(7),
						"first_name": "Dana",
					},
				},
			})
		},
	})

	res := svc.Profile(context.Background(), 7)
	if !res.Success || res.User == nil {
		t.Fatalf("profile failed: %+v", res.Outcome)
	}
	if res.User.ID != 7 || res.User.FirstName != "Dana" {
		t.Fatalf("user = %+v", res.User)
	}
}

func TestUpdateProfileValidatesLocally(t *testing.T) {
	svc := newFixtureServices(t, nil)
	res := svc.UpdateProfile(context.Background(), 7, ProfilePatch{LastName: "Reyes", Phone: "555"})
	if res.Success {
		t.Fatal("missing first name must fail before the network")
	}
	if res.Message != "first name is required" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestUpdateDocumentsUploadsRecognizedKeysOnly(t *testing.T) {
	var gotFields []string
	svc := newFixtureServices(t, map[string]http.HandlerFunc{
		"/driver/documents/update": func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
				respondJSON(w, http.StatusBadRequest, map[string]any{"success": false})
				return
			}
			for field, headers := range r.MultipartForm.File {
				gotFields = append(gotFields, field)
				for _, h := range headers {
					if h.Filename == "" {
						t.Errorf("field %q uploaded without a filename", field)
					}
				}
			}
			if r.FormValue("driver_id") != "7" {
				t.Errorf("driver_id = %q", r.FormValue("driver_id"))
			}
			respondJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"documents": map[string]any{
						DocInsurance: "https://cdn/ins.pdf",
					},
				},
			})
		},
	})

	res := svc.UpdateDocuments(context.Background(), 7, map[string]FileInput{
		DocInsurance: {Name: "insurance", Content: []byte("pdfbytes")},
		"passport":   {Name: "passport.pdf", Content: []byte("ignored")},
	})
	if !res.Success {
		t.Fatalf("upload failed: %s", res.Message)
	}
	if len(gotFields) != 1 || gotFields[0] != DocInsurance {
		t.Fatalf("uploaded fields = %v", gotFields)
	}
	if res.Documents[DocInsurance] != "https://cdn/ins.pdf" {
		t.Fatalf("documents = %v", res.Documents)
	}
}

func TestUpdateDocumentsRejectsEmptyInput(t *testing.T) {
	svc := newFixtureServices(t, nil)
	if res := svc.UpdateDocuments(context.Background(), 7, nil); res.Success {
		t.Fatal("empty upload must fail locally")
	}
	only := map[string]FileInput{"passport": {Name: "p.pdf"}}
	if res := svc.UpdateDocuments(context.Background(), 7, only); res.Success {
		t.Fatal("upload with no recognized keys must fail locally")
	}
}

func TestPublishLocationValidation(t *testing.T) {
	svc := newFixtureServices(t, nil)
	bad := LocationSample{Latitude: 120, Longitude: 10}
	if res := svc.PublishLocation(context.Background(), 7, bad); res.Success {
		t.Fatal("out-of-range latitude must fail locally")
	}
}

func TestMarkAbsentCoercesDate(t *testing.T) {
	var gotDate string
	svc := newFixtureServices(t, map[string]http.HandlerFunc{
		"/driver/mark-absent": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			gotDate, _ = body["absent_date"].(string)
			respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "marked"})
		},
	})

	res := svc.MarkAbsent(context.Background(), 7, "08/28/2026")
	if !res.Success {
		t.Fatalf("mark absent failed: %s", res.Message)
	}
	if gotDate != "2026-08-28" {
		t.Fatalf("absent_date = %q, want 2026-08-28", gotDate)
	}

	if res := svc.MarkAbsent(context.Background(), 7, "not a date"); res.Success {
		t.Fatal("unparseable date must fail locally")
	}
}

func TestCurrentJobsBareArrayShape(t *testing.T) {
	svc := newFixtureServices(t, map[string]http.HandlerFunc{
		"/driver/current-jobs": func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": []any{
					map[string]any{"id": float64(3), "status": "accepted"},
				},
			})
		},
	})

	res := svc.CurrentJobs(context.Background(), 7)
	if !res.Success {
		t.Fatalf("current jobs failed: %s", res.Message)
	}
	if len(res.Jobs) != 1 || res.Jobs[0].Status != StatusAccepted {
		t.Fatalf("jobs = %+v", res.Jobs)
	}
}

func TestJobDetailsRejectsInvalidParcel(t *testing.T) {
	svc := newFixtureServices(t, nil)
	if res := svc.JobDetails(context.Background(), 7, 0); res.Success {
		t.Fatal("parcel id 0 must fail locally")
	}
}
