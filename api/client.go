// Package api is the single HTTP pipeline between the companion core and the
// fleet data API. Every request is enriched (bearer token, AJAX marker,
// content negotiation) and every response is normalized into the
// {success, message, data} envelope with categorized errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"
)

const (
	defaultTimeout = 60 * time.Second
	uploadTimeout  = 120 * time.Second
)

// TokenSource supplies the bearer token for outgoing requests. The auth
// service implements it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}

// File describes one multipart upload part. Content is held in memory; the
// transport computes the multipart boundary, callers never set it.
type File struct {
	Field   string
	Name    string
	MIME    string
	Content []byte
}

type Client struct {
	baseURL        string
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	client         *http.Client
	uploadClient   *http.Client
	log            *slog.Logger
	errlog         *apperrors.Log
}

func NewClient(baseURL string, tokens TokenSource, log *slog.Logger, errlog *apperrors.Log) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
		client:       &http.Client{Timeout: defaultTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
		log:          logger.WithComponent(log, "api"),
		errlog:       errlog,
	}
}

// OnUnauthorized registers the hook invoked on any 401 response. The auth
// service wires its Logout here so a dead token is wiped globally.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.NewUnknownError("failed to build request", err)
	}
	c.enrich(ctx, req, false)
	return c.do(req, path, c.client)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewUnknownError("failed to encode request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewUnknownError("failed to build request", err)
	}
	c.enrich(ctx, req, false)
	return c.do(req, path, c.client)
}

// PostMultipart sends fields and files as multipart form-data using the long
// upload timeout. Content-Type is left to the multipart writer so the
// boundary is always transport-computed.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []File) (*Envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, apperrors.NewUnknownError("failed to write form field", err)
		}
	}
	for _, f := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Name),
		}
		header["Content-Type"] = []string{f.MIME}
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, apperrors.NewUnknownError("failed to create form part", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, apperrors.NewUnknownError("failed to write file content", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.NewUnknownError("failed to finalize multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, apperrors.NewUnknownError("failed to build request", err)
	}
	c.enrich(ctx, req, true)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, path, c.uploadClient)
}

// GetOrPost tries GET first and, on any transport-level failure, retries the
// same logical request as a JSON POST. The backend serves some resources
// through both verbs and deployments differ in which one is live.
func (c *Client) GetOrPost(ctx context.Context, path string, body map[string]any) (*Envelope, error) {
	query := url.Values{}
	for k, v := range body {
		query.Set(k, fmt.Sprint(v))
	}

	env, err := c.Get(ctx, path, query)
	if err == nil {
		return env, nil
	}

	c.log.Debug("GET failed, retrying as POST", "path", path, "error", err)
	return c.Post(ctx, path, body)
}

// enrich applies the request pipeline: bearer injection, AJAX marker and
// content negotiation.
func (c *Client) enrich(ctx context.Context, req *http.Request, isMultipart bool) {
	if c.tokens != nil {
		if token, ok := c.tokens.AccessToken(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	if isMultipart {
		// boundary comes from the multipart writer
		req.Header.Del("Content-Type")
		req.Header.Set("Accept", "*/*")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func (c *Client) do(req *http.Request, path string, client *http.Client) (*Envelope, error) {
	resp, err := client.Do(req)
	if err != nil {
		timeout := isTimeoutError(err)
		msg := "network request failed"
		if timeout {
			msg = "network request timed out"
		}
		appErr := apperrors.NewNetworkError(msg, timeout, err)
		c.errlog.LogNetworkError(path, timeout, appErr)
		return nil, appErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		appErr := apperrors.NewNetworkError("failed to read response body", false, err)
		c.errlog.LogNetworkError(path, false, appErr)
		return nil, appErr
	}

	// a web page instead of JSON means the endpoint is not deployed
	if isHTMLBody(body) {
		c.log.Warn("endpoint returned HTML", "path", path, "status", resp.StatusCode)
		return &Envelope{Success: false, Error: ErrHTMLResponse}, nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		appErr := apperrors.NewAPIError("malformed response body", path, req.Method, resp.StatusCode)
		appErr.Cause = err
		c.errlog.LogAPIError(path, req.Method, resp.StatusCode, appErr)
		return nil, appErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return &env, nil
	}

	return nil, c.classify(req.Context(), &env, path, req.Method, resp.StatusCode)
}

func (c *Client) classify(ctx context.Context, env *Envelope, path, method string, status int) error {
	switch {
	case status == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		msg := env.Message
		if msg == "" {
			msg = "authentication required, please login again"
		}
		appErr := apperrors.NewAuthError(msg)
		c.errlog.LogAuthError(path, appErr)
		return appErr

	case status == http.StatusUnprocessableEntity:
		msg := flattenFieldErrors(env.Data)
		if msg == "" {
			msg = env.Message
		}
		appErr := apperrors.NewValidationError(msg, nil)
		c.errlog.LogAPIError(path, method, status, appErr)
		return appErr

	default:
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", status)
		}
		appErr := apperrors.NewAPIError(msg, path, method, status)
		c.errlog.LogAPIError(path, method, status, appErr)
		return appErr
	}
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	type timeouter interface{ Timeout() bool }
	var t timeouter
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
