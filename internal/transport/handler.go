package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/geodist/internal/apierror"
	"github.com/UnknownOlympus/geodist/internal/models"
	"github.com/UnknownOlympus/geodist/internal/service"
)

// DistanceCalculator computes a distance from raw query parameters.
// The returned error carries the HTTP classification of the failure.
type DistanceCalculator interface {
	Calculate(ctx context.Context, raw service.RawQuery) (models.DistanceResult, error)
}

// DistanceHandler serves GET /api/v1/distance.
type DistanceHandler struct {
	log        *slog.Logger
	calculator DistanceCalculator
}

// NewDistanceHandler creates a new distance HTTP handler.
func NewDistanceHandler(log *slog.Logger, calculator DistanceCalculator) *DistanceHandler {
	return &DistanceHandler{log: log, calculator: calculator}
}

// ServeHTTP reads lat1, lon1, lat2, lon2 and unit from the query string.
func (h *DistanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result, err := h.calculator.Calculate(r.Context(), service.RawQuery{
		Lat1: query.Get("lat1"),
		Lon1: query.Get("lon1"),
		Lat2: query.Get("lat2"),
		Lon2: query.Get("lon2"),
		Unit: query.Get("unit"),
	})
	if err != nil {
		failure := apierror.Classify(err)
		if failure.Status >= http.StatusInternalServerError {
			h.log.ErrorContext(r.Context(), "Failed to calculate distance", "error", err)
		}
		if err = WriteFailure(w, failure); err != nil {
			h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
		}
		return
	}

	if err = WriteSuccess(w, result); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}
