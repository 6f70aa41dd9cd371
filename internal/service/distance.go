package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/geodist/internal/apierror"
	"github.com/UnknownOlympus/geodist/internal/geo"
	"github.com/UnknownOlympus/geodist/internal/metrics"
	"github.com/UnknownOlympus/geodist/internal/models"
)

// RawQuery holds the distance parameters exactly as they arrived. Absent values are empty.
type RawQuery struct {
	Lat1 string
	Lon1 string
	Lat2 string
	Lon2 string
	Unit string
}

// DistanceService turns raw query parameters into a distance or a classified failure.
type DistanceService struct {
	log     *slog.Logger     // Logger for logging service activities
	metrics *metrics.Metrics // Metrics for tracking calculations and rejections
}

// NewDistanceService creates a new instance of DistanceService.
func NewDistanceService(log *slog.Logger, metrics *metrics.Metrics) *DistanceService {
	return &DistanceService{log: log, metrics: metrics}
}

// Calculate validates raw and computes the distance it describes.
//
// Coordinates are checked before the unit, so a request with both wrong is
// reported as a coordinate failure. The returned error is always an
// *apierror.Failure.
func (ds *DistanceService) Calculate(ctx context.Context, raw RawQuery) (models.DistanceResult, error) {
	ds.log.DebugContext(ctx, "Received distance query",
		"lat1", raw.Lat1, "lon1", raw.Lon1, "lat2", raw.Lat2, "lon2", raw.Lon2, "unit", raw.Unit)

	query, err := ds.buildQuery(raw)
	if err != nil {
		ds.reject(ctx, raw, err)
		return models.DistanceResult{}, err
	}

	result := geo.Distance(query)
	ds.metrics.Calculations.WithLabelValues(string(result.Unit)).Inc()
	ds.log.DebugContext(ctx, "Distance calculated", "distance", result.Distance, "unit", result.Unit)

	return result, nil
}

func (ds *DistanceService) buildQuery(raw RawQuery) (models.DistanceQuery, error) {
	from := models.Coordinates{Latitude: geo.ParseCoordinate(raw.Lat1), Longitude: geo.ParseCoordinate(raw.Lon1)}
	to := models.Coordinates{Latitude: geo.ParseCoordinate(raw.Lat2), Longitude: geo.ParseCoordinate(raw.Lon2)}

	if !geo.IsValidLatitude(from.Latitude) ||
		!geo.IsValidLongitude(from.Longitude) ||
		!geo.IsValidLatitude(to.Latitude) ||
		!geo.IsValidLongitude(to.Longitude) {
		return models.DistanceQuery{}, apierror.NewInvalidCoordinate()
	}

	unit, err := models.ParseUnit(raw.Unit)
	if err != nil {
		return models.DistanceQuery{}, apierror.NewInvalidUnit()
	}

	return models.DistanceQuery{From: from, To: to, Unit: unit}, nil
}

func (ds *DistanceService) reject(ctx context.Context, raw RawQuery, err error) {
	kind := apierror.InternalFailure
	var failure *apierror.Failure
	if errors.As(err, &failure) {
		kind = failure.Kind
	}

	ds.metrics.ValidationFailures.WithLabelValues(string(kind)).Inc()
	ds.log.InfoContext(ctx, "Rejected distance query", "kind", kind,
		"lat1", raw.Lat1, "lon1", raw.Lon1, "lat2", raw.Lat2, "lon2", raw.Lon2, "unit", raw.Unit)
}
