package models

// TransformRequest is the envelope posted to the transform endpoints.
type TransformRequest struct {
	Payload string `json:"payload"`
}

// ErrorResponse models the JSON body returned on failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
