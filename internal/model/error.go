package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// NewErrorResponse builds an ErrorResponse, filling Code and Field for
// validation failures.
func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	if ve, ok := AsValidationError(err); ok {
		resp.Code = ve.Code()
		resp.Field = ve.Field
	}
	return resp
}
