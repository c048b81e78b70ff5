package model

// Message is the body of responses that carry only a confirmation.
type Message struct {
	Message string `json:"message"`
}

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}
