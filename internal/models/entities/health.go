package entities

import "time"

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// HealthCheckResponse is served without the response envelope so load
// balancers can read it directly
type HealthCheckResponse struct {
	Status      string                   `json:"status"`
	Environment string                   `json:"environment"`
	Services    map[string]ServiceStatus `json:"services"`
	UpSince     time.Time                `json:"up_since"`
	Uptime      string                   `json:"uptime"`
}
