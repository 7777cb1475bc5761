package utils

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	}
}

func ErrorResponse(statusCode int, message string) APIResponse {
	return APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NoDataResponse is the empty-list shape: not an error, but flagged so
// clients can distinguish "nothing booked" from a failed query.
func NoDataResponse() APIResponse {
	return APIResponse{
		Success:    false,
		StatusCode: http.StatusNotFound,
		Message:    "No Data Found",
		Data:       []interface{}{},
	}
}

func WriteJSON(w http.ResponseWriter, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
