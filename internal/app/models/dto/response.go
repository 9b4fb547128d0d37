package dto

import "time"

// APIResponse is the success envelope returned by every endpoint
type APIResponse struct {
	Success    bool            `json:"success" example:"true"`
	Message    string          `json:"message,omitempty" example:"Courses retrieved successfully"`
	Data       interface{}     `json:"data,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	SearchInfo *SearchInfo     `json:"searchInfo,omitempty"`
	Timestamp  time.Time       `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// PaginationInfo describes one page of a list response
type PaginationInfo struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"10"`
	Total      int64 `json:"total" example:"42"`
	TotalPages int   `json:"totalPages" example:"5"`
}

// NewSuccessResponse creates a success envelope
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewPaginatedResponse creates a success envelope for a list page
func NewPaginatedResponse(message string, data interface{}, pagination *PaginationInfo) APIResponse {
	resp := NewSuccessResponse(message, data)
	resp.Pagination = pagination
	return resp
}
