package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/internal/store"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// OwnerStats defines the read-only owner queries the API serves.
type OwnerStats interface {
	CountUnique(ctx context.Context) (int64, error)
	CountByNetwork(ctx context.Context) ([]*store.NetworkStats, error)
	List(ctx context.Context, network string, limit, offset int) ([]common.Address, int64, error)
}

// Handler handles HTTP requests for the API.
type Handler struct {
	owners OwnerStats
	log    *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(owners OwnerStats, log *logger.Logger) *Handler {
	return &Handler{
		owners: owners,
		log:    log,
	}
}

// GetStats returns the unique owner count and the per-network counts.
// @Summary Owner statistics
// @Description Count of distinct owner addresses across all networks and per network
// @Tags Stats
// @Produce json
// @Success 200 {object} StatsResponse "Owner statistics"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	unique, err := h.owners.CountUnique(r.Context())
	if err != nil {
		h.log.Errorf("Failed to count unique owners: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to count owners")
		return
	}

	networks, err := h.owners.CountByNetwork(r.Context())
	if err != nil {
		h.log.Errorf("Failed to count owners by network: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to count owners")
		return
	}

	if networks == nil {
		networks = []*store.NetworkStats{}
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		UniqueOwners: unique,
		Networks:     networks,
	})
}

// ListNetworks returns every scanned network.
// @Summary List networks
// @Description List scanned networks with their checkpoint, owner count and endpoints
// @Tags Networks
// @Produce json
// @Success 200 {array} NetworkInfo "List of networks"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /networks [get]
func (h *Handler) ListNetworks(w http.ResponseWriter, r *http.Request) {
	networks, err := h.owners.CountByNetwork(r.Context())
	if err != nil {
		h.log.Errorf("Failed to list networks: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list networks")
		return
	}

	infos := make([]NetworkInfo, 0, len(networks))
	for _, n := range networks {
		infos = append(infos, NetworkInfo{
			Name:        n.Name,
			DisplayName: n.DisplayName,
			Checkpoint:  n.Checkpoint,
			Owners:      n.Owners,
			Endpoints: []string{
				fmt.Sprintf("/api/v1/networks/%s/owners", n.Name),
			},
		})
	}

	respondJSON(w, http.StatusOK, infos)
}

// GetOwners returns a page of the owners of a network.
// @Summary Get network owners
// @Description Retrieve owner addresses of a network in discovery order
// @Tags Networks
// @Produce json
// @Param name path string true "Network name"
// @Param limit query int false "Maximum number of owners to return" default(100)
// @Param offset query int false "Number of owners to skip" default(0)
// @Success 200 {object} OwnersResponse "Owners with pagination info"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 404 {object} ErrorResponse "Network not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /networks/{name}/owners [get]
func (h *Handler) GetOwners(w http.ResponseWriter, r *http.Request) {
	network := r.PathValue("name")
	if network == "" {
		respondError(w, http.StatusBadRequest, "network name is required")
		return
	}

	params, err := parsePagination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}

	owners, total, err := h.owners.List(r.Context(), network, params.Limit, params.Offset)
	if errors.Is(err, store.ErrUnknownNetwork) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("network '%s' not found", network))
		return
	}
	if err != nil {
		h.log.Errorf("Failed to list owners: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list owners")
		return
	}

	addresses := make([]string, len(owners))
	for i, owner := range owners {
		addresses[i] = owner.Hex()
	}

	respondJSON(w, http.StatusOK, OwnersResponse{
		Network: network,
		Owners:  addresses,
		Pagination: PaginationResult{
			Total:   total,
			Limit:   params.Limit,
			Offset:  params.Offset,
			HasMore: int64(params.Offset+len(owners)) < total,
		},
	})
}

// Health returns the health status of the API and its database.
// @Summary Health check
// @Description Check that the API can read the owner database
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "API is healthy"
// @Failure 503 {object} HealthResponse "Database unavailable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	}

	networks, err := h.owners.CountByNetwork(r.Context())
	if err != nil {
		h.log.Warnf("Health check failed: %v", err)
		response.Status = "unavailable"
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	response.Networks = len(networks)

	respondJSON(w, http.StatusOK, response)
}

// parsePagination parses the limit and offset query parameters.
func parsePagination(r *http.Request) (PaginationParams, error) {
	params := PaginationParams{Limit: defaultLimit}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxLimit {
			return params, fmt.Errorf("invalid limit: must be between 1 and %d", maxLimit)
		}
		params.Limit = limit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("invalid offset: must be non-negative")
		}
		params.Offset = offset
	}

	return params, nil
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode first so a failure can still change the status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	// Headers already sent, nothing left to report
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	respondJSON(w, status, response)
}
