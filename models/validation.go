package models

// ValidationErrorResponse is returned with a 422 status when a request body
// does not match the expected schema.
type ValidationErrorResponse struct {
	Detail []ValidationError `json:"detail"`
}

type ValidationError struct {
	// Loc is the path to the offending value, e.g. ["body", "query"].
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

const (
	ValidationErrorTypeMissing     = "missing"
	ValidationErrorTypeString      = "string_type"
	ValidationErrorTypeJSONInvalid = "json_invalid"
	ValidationErrorTypeObject      = "model_attributes_type"
)
