package fleet

import "context"

type DashboardResult struct {
	Outcome
	Dashboard *Dashboard
}

// LoadDashboard fetches the job counters and the new-jobs feed. Served
// through GET or POST depending on the deployment, like the profile.
func (s *Services) LoadDashboard(ctx context.Context, driverID int) DashboardResult {
	env, err := s.client.GetOrPost(ctx, "/driver/dashboard", map[string]any{"driver_id": driverID})
	if err != nil {
		return DashboardResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return DashboardResult{Outcome: envelopeFail(env)}
	}

	data := env.DataMap()
	if data == nil {
		return DashboardResult{Outcome: Outcome{Success: false, Message: "dashboard response carried no data"}}
	}

	dash := &Dashboard{}
	if counts, ok := data["counts"].(map[string]any); ok {
		dash.Counts = NormalizeCounts(counts)
	} else {
		// some deployments inline the counters at the top level
		dash.Counts = NormalizeCounts(data)
	}
	if rawJobs, ok := data["new_jobs"].([]any); ok {
		dash.NewJobs = NormalizeJobs(rawJobs, StatusNew)
	} else {
		dash.NewJobs = []Job{}
	}
	if meta, ok := data["meta"].(map[string]any); ok {
		dash.Meta = meta
	}

	return DashboardResult{Outcome: okOutcome(env.Message), Dashboard: dash}
}
