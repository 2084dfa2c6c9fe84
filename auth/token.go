package auth

import (
	"context"
	"strconv"
	"time"

	"drivemate/storage"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSet is the persisted OAuth token triple. ExpiresAt is absolute epoch
// milliseconds so a device waking from sleep compares against wall time
// instead of a stale relative countdown.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

func (t *TokenSet) Expired(now time.Time) bool {
	return now.UnixMilli() >= t.ExpiresAt
}

// saveTokens writes the full triple. If any write fails the partial set is
// wiped so storage never holds one or two of the three keys.
func saveTokens(ctx context.Context, store storage.Store, set TokenSet) error {
	writes := []struct{ key, value string }{
		{storage.KeyAccessToken, set.AccessToken},
		{storage.KeyRefreshToken, set.RefreshToken},
		{storage.KeyTokenExpiry, strconv.FormatInt(set.ExpiresAt, 10)},
	}
	for _, w := range writes {
		if err := store.Set(ctx, w.key, w.value); err != nil {
			clearTokens(ctx, store)
			return err
		}
	}
	return nil
}

// loadTokens returns the persisted triple, or false when any part is missing
// or malformed.
func loadTokens(ctx context.Context, store storage.Store) (TokenSet, bool) {
	access, err := store.Get(ctx, storage.KeyAccessToken)
	if err != nil || access == "" {
		return TokenSet{}, false
	}
	refresh, err := store.Get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return TokenSet{}, false
	}
	rawExpiry, err := store.Get(ctx, storage.KeyTokenExpiry)
	if err != nil {
		return TokenSet{}, false
	}
	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return TokenSet{}, false
	}
	return TokenSet{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiry}, true
}

// clearTokens removes all three keys. Delete errors are ignored so logout
// can never fail.
func clearTokens(ctx context.Context, store storage.Store) {
	_ = store.Delete(ctx, storage.KeyAccessToken)
	_ = store.Delete(ctx, storage.KeyRefreshToken)
	_ = store.Delete(ctx, storage.KeyTokenExpiry)
}

// driverIDClaims is a best-effort, unverified peek at the access token. The
// fleet backend issues JWTs whose subject carries the driver's numeric id;
// verification belongs to the server, the client only routes requests.
func driverIDClaims(accessToken string) (int, bool) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	if v, ok := claims["user_id"]; ok {
		if id, ok := asInt(v); ok {
			return id, true
		}
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		if id, err := strconv.Atoi(sub); err == nil {
			return id, true
		}
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		id, err := strconv.Atoi(n)
		return id, err == nil
	}
	return 0, false
}
