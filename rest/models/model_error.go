package models

// A description of an error state
type ModelError struct {

	// A human readable description of the error state
	Description string `json:"description,omitempty"`

	// Additional information about the cause, only set when it is safe to expose
	Details string `json:"details,omitempty"`
}
