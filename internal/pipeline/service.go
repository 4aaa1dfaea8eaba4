// Package pipeline orchestrates one search or route request: resolve the
// place, fan out the condition fetches, normalize, persist, respond.
package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/nmishr/geo-dashboard/internal/aqi"
	"github.com/nmishr/geo-dashboard/internal/congestion"
	"github.com/nmishr/geo-dashboard/internal/models"
	"github.com/nmishr/geo-dashboard/internal/observability"
	"github.com/nmishr/geo-dashboard/internal/repository"
)

// Provider seams. Each is the pipeline's view of one external capability so
// the orchestrator can be tested against in-memory stubs.

type Geocoder interface {
	Geocode(ctx context.Context, query string) (models.PlaceCandidate, error)
	ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)
}

type WeatherSource interface {
	CurrentWeather(ctx context.Context, coord models.Coordinate) (models.WeatherReading, error)
}

type AirQualitySource interface {
	AirPollution(ctx context.Context, coord models.Coordinate) (models.PollutantProfile, error)
}

type TrafficSource interface {
	Traffic(ctx context.Context, coord models.Coordinate) (models.TrafficReading, error)
}

type RouteComputer interface {
	ComputeRoute(ctx context.Context, origin, dest models.Coordinate, strategy models.RouteStrategy) (models.RouteResult, error)
}

const (
	// minSuggestPrefix bounds typeahead request volume: shorter prefixes
	// never reach the provider.
	minSuggestPrefix = 3

	defaultSuggestLimit = 6
	defaultRecentLimit  = 50
	maxRecentLimit      = 500
)

// Service is the request-level orchestrator. Each invocation is independent
// and stateless; the only shared state is the provider clients and the
// history store, all safe for concurrent use.
type Service struct {
	geocoder Geocoder
	weather  WeatherSource
	air      AirQualitySource
	traffic  TrafficSource
	router   RouteComputer
	history  repository.SearchHistory
	metrics  *observability.Metrics
}

// Deps bundles the service's collaborators.
type Deps struct {
	Geocoder   Geocoder
	Weather    WeatherSource
	AirQuality AirQualitySource
	Traffic    TrafficSource
	Router     RouteComputer
	History    repository.SearchHistory
	Metrics    *observability.Metrics
}

func NewService(d Deps) *Service {
	return &Service{
		geocoder: d.Geocoder,
		weather:  d.Weather,
		air:      d.AirQuality,
		traffic:  d.Traffic,
		router:   d.Router,
		history:  d.History,
		metrics:  d.Metrics,
	}
}

// Search resolves the query and assembles a snapshot: geocode first, then
// weather, air quality, and traffic concurrently with a fail-fast join, then
// the pure normalizations, then persistence. Any provider error aborts the
// whole operation; a partial snapshot is never persisted or returned.
func (s *Service) Search(ctx context.Context, query string) (*models.Snapshot, error) {
	snapshot, err := s.search(ctx, query)
	s.metrics.IncSearch(err)
	return snapshot, err
}

func (s *Service) search(ctx context.Context, query string) (*models.Snapshot, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &models.ValidationError{Msg: "query is required"}
	}

	place, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	var (
		weather    models.WeatherReading
		pollutants models.PollutantProfile
		traffic    models.TrafficReading
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weather, err = s.weather.CurrentWeather(gctx, place.Coord)
		return err
	})
	g.Go(func() error {
		var err error
		pollutants, err = s.air.AirPollution(gctx, place.Coord)
		return err
	})
	g.Go(func() error {
		var err error
		traffic, err = s.traffic.Traffic(gctx, place.Coord)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assessment := aqi.Compute(pollutants)
	traffic.CongestionRatio, traffic.CongestionLabel = congestion.Classify(
		traffic.CurrentSpeedKMH, traffic.FreeFlowSpeedKMH)

	snapshot := &models.Snapshot{
		Query:   query,
		Place:   place.DisplayName,
		Coord:   place.Coord,
		Weather: weather,
		Air:     assessment,
		Traffic: traffic,
	}

	if err := s.history.Append(ctx, snapshot.Record()); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Route geocodes both endpoints and computes a route under the given
// strategy. A geocode miss maps to EndpointNotFoundError naming the side
// that failed; routing-provider failures surface verbatim.
func (s *Service) Route(ctx context.Context, originText, destText, mode string) (*models.RouteResult, error) {
	result, err := s.route(ctx, originText, destText, mode)
	s.metrics.IncRoute(err)
	return result, err
}

func (s *Service) route(ctx context.Context, originText, destText, mode string) (*models.RouteResult, error) {
	originText = strings.TrimSpace(originText)
	destText = strings.TrimSpace(destText)
	if originText == "" || destText == "" {
		return nil, &models.ValidationError{Msg: "origin and destination are required"}
	}

	strategy, ok := models.ParseRouteStrategy(mode)
	if !ok {
		return nil, &models.ValidationError{Msg: "unsupported strategy: " + mode}
	}

	origin, err := s.geocoder.Geocode(ctx, originText)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.EndpointNotFoundError{Endpoint: "origin", Query: originText}
		}
		return nil, err
	}

	dest, err := s.geocoder.Geocode(ctx, destText)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.EndpointNotFoundError{Endpoint: "destination", Query: destText}
		}
		return nil, err
	}

	result, err := s.router.ComputeRoute(ctx, origin.Coord, dest.Coord, strategy)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Suggest returns typeahead suggestions. Prefixes shorter than three runes
// return an empty slice without calling the provider.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minSuggestPrefix {
		return []models.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	return s.geocoder.Suggest(ctx, prefix, limit)
}

// Reverse resolves a coordinate to a place name.
func (s *Service) Reverse(ctx context.Context, coord models.Coordinate) (string, error) {
	if !coord.Valid() {
		return "", &models.ValidationError{Msg: "lat/lon out of range"}
	}
	return s.geocoder.ReverseGeocode(ctx, coord)
}

// Recent returns the newest records, bounded to a sane limit.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.history.Recent(ctx, limit)
}

// Stats returns the same-day aggregate.
func (s *Service) Stats(ctx context.Context) (models.DailyStats, error) {
	return s.history.DailyStats(ctx)
}

// ExportCSV streams recent history as CSV.
func (s *Service) ExportCSV(ctx context.Context, limit int, w io.Writer) error {
	if limit <= 0 {
		limit = 200
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.history.ExportCSV(ctx, limit, w)
}
