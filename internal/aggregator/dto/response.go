package dto

// ErrorResponse is the generic error response body.
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// ListResponse wraps list endpoints with a count and the served-at instant.
type ListResponse struct {
	Count     int         `json:"count"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}
