package api

import (
	"time"

	"github.com/goran-ethernal/OwnerScan/internal/store"
)

// PaginationParams are the paging query parameters of list endpoints.
type PaginationParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PaginationResult contains pagination metadata.
type PaginationResult struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Networks  int       `json:"networks"`
}

// StatsResponse holds the owner statistics across all networks.
type StatsResponse struct {
	UniqueOwners int64                `json:"unique_owners"`
	Networks     []*store.NetworkStats `json:"networks"`
}

// NetworkInfo describes a scanned network.
type NetworkInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Checkpoint  uint64   `json:"checkpoint"`
	Owners      int64    `json:"owners"`
	Endpoints   []string `json:"endpoints"`
}

// OwnersResponse is a page of the owners of one network.
type OwnersResponse struct {
	Network    string           `json:"network"`
	Owners     []string         `json:"owners"`
	Pagination PaginationResult `json:"pagination"`
}
