package fleet

import (
	"context"
	"strings"
)

type ProfileResult struct {
	Outcome
	User *User
}

// Profile loads the driver profile. The backend serves this resource through
// GET on newer deployments and POST on older ones.
func (s *Services) Profile(ctx context.Context, driverID int) ProfileResult {
	env, err := s.client.GetOrPost(ctx, "/driver/profile", map[string]any{"driver_id": driverID})
	if err != nil {
		return ProfileResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return ProfileResult{Outcome: envelopeFail(env)}
	}

	data := env.DataMap()
	if data == nil {
		return ProfileResult{Outcome: Outcome{Success: false, Message: "profile response carried no data"}}
	}

	raw := data
	if userObj, ok := data["user"].(map[string]any); ok {
		raw = userObj
	}
	user := NormalizeUser(raw)
	return ProfileResult{Outcome: okOutcome(env.Message), User: &user}
}

// ProfilePatch is the editable subset of the profile form.
type ProfilePatch struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
}

func (p *ProfilePatch) validate() string {
	if strings.TrimSpace(p.FirstName) == "" {
		return "first name is required"
	}
	if strings.TrimSpace(p.LastName) == "" {
		return "last name is required"
	}
	if strings.TrimSpace(p.Phone) == "" {
		return "phone is required"
	}
	return ""
}

// UpdateProfile submits the profile form and returns the server's view of
// the updated user.
func (s *Services) UpdateProfile(ctx context.Context, driverID int, patch ProfilePatch) ProfileResult {
	if msg := patch.validate(); msg != "" {
		return ProfileResult{Outcome: Outcome{Success: false, Message: msg}}
	}

	body := map[string]any{
		"driver_id":  driverID,
		"first_name": strings.TrimSpace(patch.FirstName),
		"last_name":  strings.TrimSpace(patch.LastName),
		"phone":      strings.TrimSpace(patch.Phone),
	}
	if patch.Email != "" {
		body["email"] = patch.Email
	}
	if patch.Address != "" {
		body["address"] = patch.Address
	}

	env, err := s.client.Post(ctx, "/driver/profile/update", body)
	if err != nil {
		return ProfileResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return ProfileResult{Outcome: envelopeFail(env)}
	}

	data := env.DataMap()
	if data == nil {
		return ProfileResult{Outcome: okOutcome(env.Message)}
	}
	raw := data
	if userObj, ok := data["user"].(map[string]any); ok {
		raw = userObj
	}
	user := NormalizeUser(raw)
	return ProfileResult{Outcome: okOutcome(env.Message), User: &user}
}
