// Package auth owns the OAuth token lifecycle: password-grant login, refresh
// rotation, expiry-driven renewal, persistence and logout. It talks to the
// OAuth host directly (no /api prefix), unlike the data API client.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"drivemate/shared/config"
	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"
	"drivemate/storage"

	"github.com/cenkalti/backoff/v4"
)

const tokenPath = "/oauth/token"

// Result is the uniform outcome of login and refresh.
type Result struct {
	Success bool
	Message string
	Token   *TokenSet
}

type Service struct {
	cfg    *config.OAuthConfig
	store  storage.Store
	client *http.Client
	log    *slog.Logger
	errlog *apperrors.Log

	// serializes refresh so overlapping expired calls rotate once
	refreshMu sync.Mutex

	now func() time.Time
}

func NewService(cfg *config.OAuthConfig, store storage.Store, log *slog.Logger, errlog *apperrors.Log) *Service {
	return &Service{
		cfg:    cfg,
		store:  store,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    logger.WithComponent(log, "auth"),
		errlog: errlog,
		now:    time.Now,
	}
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Message      string `json:"message"`
	Error        string `json:"error"`
}

// Login performs the password grant and persists the resulting token triple.
func (s *Service) Login(ctx context.Context, username, password string) Result {
	s.log.Debug("token state", "from", "no_token", "to", "authenticating")

	resp, err := s.requestToken(ctx, tokenRequest{
		GrantType:    "password",
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		Username:     username,
		Password:     password,
		Scope:        "*",
	})
	if err != nil {
		s.errlog.LogAuthError("login", err)
		return Result{Success: false, Message: apperrors.AsAppError(err).Message}
	}
	if resp.AccessToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = "login failed: no access token in response"
		}
		s.errlog.LogAuthError("login", apperrors.NewAuthError(msg))
		return Result{Success: false, Message: msg}
	}

	set := TokenSet{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    s.now().UnixMilli() + resp.ExpiresIn*1000,
	}
	if err := saveTokens(ctx, s.store, set); err != nil {
		s.errlog.LogAuthError("login", apperrors.NewUnknownError("failed to persist tokens", err))
		return Result{Success: false, Message: "failed to persist tokens"}
	}

	s.log.Debug("token state", "from", "authenticating", "to", "authenticated")
	return Result{Success: true, Message: "login successful", Token: &set}
}

// AccessToken returns a currently valid access token, refreshing first when
// the stored one is past its absolute expiry. The second return is false when
// no usable token exists.
func (s *Service) AccessToken(ctx context.Context) (string, bool) {
	set, ok := loadTokens(ctx, s.store)
	if !ok {
		return "", false
	}
	if !set.Expired(s.now()) {
		return set.AccessToken, true
	}

	s.log.Debug("token state", "from", "authenticated", "to", "expired")
	res := s.Refresh(ctx)
	if !res.Success || res.Token == nil {
		return "", false
	}
	return res.Token.AccessToken, true
}

// Refresh rotates the token triple using the persisted refresh token. Any
// failure is terminal: the stored tokens are wiped so the app never holds an
// unusable access token.
func (s *Service) Refresh(ctx context.Context) Result {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	set, ok := loadTokens(ctx, s.store)
	if !ok || set.RefreshToken == "" {
		return Result{Success: false, Message: "no refresh token available"}
	}

	s.log.Debug("token state", "from", "expired", "to", "refreshing")

	var resp *tokenResponse
	operation := func() error {
		r, err := s.requestToken(ctx, tokenRequest{
			GrantType:    "refresh_token",
			ClientID:     s.cfg.ClientID,
			ClientSecret: s.cfg.ClientSecret,
			RefreshToken: set.RefreshToken,
			Scope:        "*",
		})
		if err != nil {
			appErr := apperrors.AsAppError(err)
			// a rejected grant will not succeed on retry
			if appErr.StatusCode >= 400 && appErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		s.errlog.LogAuthError("refresh", err)
		s.Logout(ctx)
		return Result{Success: false, Message: apperrors.AsAppError(err).Message}
	}

	if resp.AccessToken == "" {
		s.errlog.LogAuthError("refresh", apperrors.NewAuthError("refresh returned no access token"))
		s.Logout(ctx)
		return Result{Success: false, Message: "refresh returned no access token"}
	}

	rotated := TokenSet{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    s.now().UnixMilli() + resp.ExpiresIn*1000,
	}
	if rotated.RefreshToken == "" {
		rotated.RefreshToken = set.RefreshToken
	}
	if err := saveTokens(ctx, s.store, rotated); err != nil {
		s.Logout(ctx)
		return Result{Success: false, Message: "failed to persist rotated tokens"}
	}

	s.log.Debug("token state", "from", "refreshing", "to", "authenticated")
	return Result{Success: true, Message: "token refreshed", Token: &rotated}
}

// Logout removes every persisted token key. Idempotent and infallible.
func (s *Service) Logout(ctx context.Context) {
	clearTokens(ctx, s.store)
	s.log.Debug("token state", "to", "no_token")
}

// IsAuthenticated reports whether a usable access token exists (possibly via
// a refresh).
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.AccessToken(ctx)
	return ok
}

// AutoLogin returns true when already authenticated, otherwise attempts the
// configured development credentials.
func (s *Service) AutoLogin(ctx context.Context) bool {
	if s.IsAuthenticated(ctx) {
		return true
	}
	if s.cfg.DefaultUsername == "" {
		return false
	}
	return s.Login(ctx, s.cfg.DefaultUsername, s.cfg.DefaultPassword).Success
}

// DriverID recovers the driver's numeric id from the access token claims,
// falling back to the supplied default when the token carries none.
func (s *Service) DriverID(ctx context.Context, fallback int) int {
	set, ok := loadTokens(ctx, s.store)
	if !ok {
		return fallback
	}
	if id, ok := driverIDClaims(set.AccessToken); ok {
		return id
	}
	return fallback
}

func (s *Service) requestToken(ctx context.Context, reqBody tokenRequest) (*tokenResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.NewUnknownError("failed to encode token request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+tokenPath, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewUnknownError("failed to build token request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := s.client.Do(req)
	if err != nil {
		timeout := isTimeout(err)
		return nil, apperrors.NewNetworkError("token endpoint unreachable", timeout, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read token response", false, err)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewUnknownError("malformed token response", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		msg := resp.Message
		if msg == "" {
			msg = resp.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("token request failed with status %d", httpResp.StatusCode)
		}
		appErr := apperrors.NewAuthError(msg)
		appErr.StatusCode = httpResp.StatusCode
		return nil, appErr
	}

	return &resp, nil
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	for e := err; e != nil; {
		if t, ok := e.(timeouter); ok && t.Timeout() {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return false
}
