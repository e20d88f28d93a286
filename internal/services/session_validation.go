package services

import (
	"strings"
	"time"

	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/dtos"
)

// validateSession validates the fields shared by events and trainings
func validateSession(name string, start, end time.Time) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name is required")
	}
	if start.IsZero() || end.IsZero() {
		return invalid("start_time and end_time are required")
	}
	if end.Before(start) {
		return invalid("end_time is before start_time")
	}
	return nil
}

// sessionUpdates collects the common column updates from req and returns
// the resulting name and time window for validation
func sessionUpdates(req dtos.SessionUpdateReq, name string, start, end time.Time) (map[string]interface{}, string, time.Time, time.Time) {
	updates := map[string]interface{}{}

	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.StartTime != nil {
		start = req.StartTime.UTC()
		updates["start_time"] = start
	}
	if req.EndTime != nil {
		end = req.EndTime.UTC()
		updates["end_time"] = end
	}

	return updates, name, start, end
}

func parseCompletion(status string) (*constants.CompletionStatus, error) {
	if status == "" {
		return nil, nil
	}
	st := constants.CompletionStatus(status)
	if !st.IsValid() {
		return nil, invalid("unknown completion status %q", status)
	}
	return &st, nil
}
