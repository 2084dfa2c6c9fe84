package appstate

import (
	"context"

	"drivemate/fleet"
)

// ServiceAPI is the slice of the fleet service layer the store consumes.
// *fleet.Services satisfies it; tests substitute fakes.
type ServiceAPI interface {
	Profile(ctx context.Context, driverID int) fleet.ProfileResult
	UpdateProfile(ctx context.Context, driverID int, patch fleet.ProfilePatch) fleet.ProfileResult
	LoadDashboard(ctx context.Context, driverID int) fleet.DashboardResult
	CurrentJobs(ctx context.Context, driverID int) fleet.JobsResult
	JobDetails(ctx context.Context, driverID, parcelID int) fleet.JobResult
	Rides(ctx context.Context, driverID int, status fleet.Status) fleet.RidesResult
	LoadDocuments(ctx context.Context, driverID int) fleet.DocumentsResult
	UpdateDocuments(ctx context.Context, driverID int, files map[string]fleet.FileInput) fleet.DocumentsResult
	Notifications(ctx context.Context, driverID int) fleet.NotificationsResult
	MarkNotificationRead(ctx context.Context, driverID, notificationID int) fleet.Outcome
	MarkAbsent(ctx context.Context, driverID int, date string) fleet.Outcome
	TransitionJob(ctx context.Context, jobID int, to fleet.Status) fleet.ActionResult
}

var _ ServiceAPI = (*fleet.Services)(nil)
