package fleet

import (
	"context"
	"fmt"

	"drivemate/api"
)

type JobsResult struct {
	Outcome
	Jobs []Job
}

type JobResult struct {
	Outcome
	Job *Job
}

// ActionResult reports a job transition. HTMLFallback is set when the
// endpoint answered with a web page, which callers treat as "not deployed
// yet" and may resolve optimistically.
type ActionResult struct {
	Outcome
	HTMLFallback bool
}

// CurrentJobs lists the driver's in-flight jobs (accepted or picked up).
func (s *Services) CurrentJobs(ctx context.Context, driverID int) JobsResult {
	env, err := s.client.Post(ctx, "/driver/current-jobs", map[string]any{"driver_id": driverID})
	if err != nil {
		return JobsResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return JobsResult{Outcome: envelopeFail(env)}
	}

	jobs := []Job{}
	if data := env.DataMap(); data != nil {
		if rawJobs, ok := data["jobs"].([]any); ok {
			jobs = NormalizeJobs(rawJobs, "")
		}
	} else if rawJobs, ok := env.Data.([]any); ok {
		jobs = NormalizeJobs(rawJobs, "")
	}
	return JobsResult{Outcome: okOutcome(env.Message), Jobs: jobs}
}

// JobDetails loads one job by parcel id.
func (s *Services) JobDetails(ctx context.Context, driverID, parcelID int) JobResult {
	if parcelID <= 0 {
		return JobResult{Outcome: Outcome{Success: false, Message: "a valid parcel id is required"}}
	}

	env, err := s.client.Post(ctx, "/driver/job-details", map[string]any{
		"driver_id": driverID,
		"parcel_id": parcelID,
	})
	if err != nil {
		return JobResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return JobResult{Outcome: envelopeFail(env)}
	}

	data := env.DataMap()
	if data == nil {
		return JobResult{Outcome: Outcome{Success: false, Message: "job details response carried no data"}}
	}
	raw := data
	if jobObj, ok := data["job"].(map[string]any); ok {
		raw = jobObj
	}
	job := NormalizeJob(raw, "")
	return JobResult{Outcome: okOutcome(env.Message), Job: &job}
}

// statusActions maps a target status to its transition endpoint segment.
var statusActions = map[Status]string{
	StatusAccepted:  "accept",
	StatusPickedUp:  "pickup",
	StatusDelivered: "deliver",
}

// TransitionJob posts the lifecycle transition for a job. The endpoint takes
// no body; identity travels in the path.
func (s *Services) TransitionJob(ctx context.Context, jobID int, to Status) ActionResult {
	action, ok := statusActions[to]
	if !ok {
		return ActionResult{Outcome: Outcome{Success: false, Message: fmt.Sprintf("no endpoint for status %q", to)}}
	}
	if jobID <= 0 {
		return ActionResult{Outcome: Outcome{Success: false, Message: "a valid job id is required"}}
	}

	env, err := s.client.Post(ctx, fmt.Sprintf("/jobs/%d/%s", jobID, action), map[string]any{})
	if err != nil {
		return ActionResult{Outcome: failOutcome(err)}
	}
	if env.Error == api.ErrHTMLResponse {
		return ActionResult{
			Outcome:      Outcome{Success: false, Message: "endpoint unavailable"},
			HTMLFallback: true,
		}
	}
	if !env.Success {
		return ActionResult{Outcome: envelopeFail(env)}
	}
	return ActionResult{Outcome: okOutcome(env.Message)}
}
