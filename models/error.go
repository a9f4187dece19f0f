package models

// ErrorResponse is the JSON error envelope every failing endpoint writes
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
