package api

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"
)

type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) AccessToken(ctx context.Context) (string, bool) {
	return s.token, s.ok
}

func newTestClient(baseURL string, tokens TokenSource) *Client {
	log := logger.Discard()
	return NewClient(baseURL, tokens, log, apperrors.NewLog(log))
}

func TestRequestEnrichment(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode(Envelope{Success: true})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{token: "tok-123", ok: true})
	if _, err := c.Get(context.Background(), "/driver/profile", nil); err != nil {
		t.Fatalf("get: %v", err)
	}

	if auth := got.Get("Authorization"); auth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", auth)
	}
	if xrw := got.Get("X-Requested-With"); xrw != "XMLHttpRequest" {
		t.Fatalf("X-Requested-With = %q", xrw)
	}
	if accept := got.Get("Accept"); accept != "application/json" {
		t.Fatalf("Accept = %q", accept)
	}
}

func TestNoBearerWithoutToken(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode(Envelope{Success: true})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{ok: false})
	if _, err := c.Get(context.Background(), "/driver/dashboard", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if auth := got.Get("Authorization"); auth != "" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
}

func TestHTMLBodyYieldsSentinelEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<!DOCTYPE html><html><body>login</body></html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{})
	env, err := c.Post(context.Background(), "/jobs/7/accept", map[string]any{})
	if err != nil {
		t.Fatalf("expected envelope, got error %v", err)
	}
	if env.Success {
		t.Fatal("HTML response must not be a success")
	}
	if env.Error != ErrHTMLResponse {
		t.Fatalf("env.Error = %q, want %q", env.Error, ErrHTMLResponse)
	}
}

func TestUnauthorizedInvokesHookAndClassifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(Envelope{Success: false, Message: "Unauthenticated."})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{token: "stale", ok: true})
	hookCalls := 0
	c.OnUnauthorized(func(ctx context.Context) { hookCalls++ })

	_, err := c.Get(context.Background(), "/driver/profile", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if hookCalls != 1 {
		t.Fatalf("hook called %d times, want 1", hookCalls)
	}
	if !apperrors.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if appErr := apperrors.AsAppError(err); appErr.Message != "Unauthenticated." {
		t.Fatalf("message = %q", appErr.Message)
	}
}

func TestValidationErrorsFlattened(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(Envelope{
			Success: false,
			Message: "The given data was invalid.",
			Data: map[string]any{
				"phone":      []any{"The phone field is required."},
				"first_name": []any{"The first name field is required."},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{})
	_, err := c.Post(context.Background(), "/driver/profile/update", map[string]any{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperrors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// fields join in sorted order
	want := "The first name field is required., The phone field is required."
	if appErr := apperrors.AsAppError(err); appErr.Message != want {
		t.Fatalf("message = %q, want %q", appErr.Message, want)
	}
}

func TestGetOrPostFallsBackOnTransportError(t *testing.T) {
	var postBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// kill the connection mid-response to force a transport error
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			conn.Close()
			return
		}
		json.NewDecoder(r.Body).Decode(&postBody)
		json.NewEncoder(w).Encode(Envelope{Success: true, Message: "via post"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{})
	env, err := c.GetOrPost(context.Background(), "/driver/dashboard", map[string]any{"driver_id": 7})
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if env.Message != "via post" {
		t.Fatalf("message = %q, want the POST response", env.Message)
	}
	if postBody["driver_id"] != float64(7) {
		t.Fatalf("post body = %v", postBody)
	}
}

func TestMultipartTransportComputedBoundary(t *testing.T) {
	type partInfo struct {
		name, filename, mime, content string
	}
	var parts []partInfo
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		mt, params, err := mime.ParseMediaType(contentType)
		if err != nil || mt != "multipart/form-data" {
			t.Errorf("content type %q: %v", contentType, err)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			data, err := io.ReadAll(p)
			if err != nil {
				t.Errorf("read part: %v", err)
			}
			parts = append(parts, partInfo{
				name:     p.FormName(),
				filename: p.FileName(),
				mime:     p.Header.Get("Content-Type"),
				content:  string(data),
			})
		}
		json.NewEncoder(w).Encode(Envelope{Success: true})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{token: "tok", ok: true})
	_, err := c.PostMultipart(context.Background(), "/driver/documents/update",
		map[string]string{"driver_id": "7"},
		[]File{{
			Field:   "driver_license_front",
			Name:    "license.jpg",
			MIME:    "image/jpeg",
			Content: []byte("jpegbytes"),
		}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, params, _ := mime.ParseMediaType(contentType)
	if params["boundary"] == "" {
		t.Fatal("no boundary in Content-Type")
	}

	byName := map[string]partInfo{}
	for _, p := range parts {
		byName[p.name] = p
	}
	if f := byName["driver_id"]; f.content != "7" {
		t.Fatalf("driver_id field = %+v", f)
	}
	file := byName["driver_license_front"]
	if file.filename != "license.jpg" || file.mime != "image/jpeg" || file.content != "jpegbytes" {
		t.Fatalf("file part = %+v", file)
	}
}

func TestAPIErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(Envelope{Success: false, Message: "boom"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticTokens{})
	_, err := c.Get(context.Background(), "/driver/notifications", url.Values{})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", appErr.StatusCode)
	}
	if appErr.Message != "boom" {
		t.Fatalf("message = %q", appErr.Message)
	}
}

func TestFlattenFieldErrors(t *testing.T) {
	got := flattenFieldErrors(map[string]any{
		"b_field": []any{"second"},
		"a_field": "first",
	})
	if got != "first, second" {
		t.Fatalf("got %q", got)
	}
	if flattenFieldErrors("not a map") != "" {
		t.Fatal("non-map data must flatten to empty")
	}
}

func TestIsHTMLBody(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{"<!DOCTYPE html><html></html>", true},
		{"  <html lang=\"en\">", true},
		{`{"success":true}`, false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isHTMLBody([]byte(tc.body)); got != tc.want {
			t.Errorf("isHTMLBody(%q) = %v, want %v", tc.body, got, tc.want)
		}
	}
}
