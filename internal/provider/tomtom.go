package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/nmishr/geo-dashboard/internal/models"
	"github.com/nmishr/geo-dashboard/internal/observability"
)

const tomtomName = "tomtom"

// reverseFallbackLabel is returned when reverse geocoding yields no usable
// address label at all.
const reverseFallbackLabel = "My location"

// TomTom is the client for the TomTom Search, Traffic, and Routing APIs.
// Safe for concurrent use.
type TomTom struct {
	key           string
	baseURL       string
	client        *http.Client
	routingClient *http.Client // routing responses are larger; separate deadline
	metrics       *observability.Metrics
}

// NewTomTom creates a TomTom client. baseURL is overridable for tests; the
// empty string selects the production endpoint.
func NewTomTom(key, baseURL string, timeout, routingTimeout time.Duration, metrics *observability.Metrics) *TomTom {
	if baseURL == "" {
		baseURL = "https://api.tomtom.com"
	}
	return &TomTom{
		key:           key,
		baseURL:       baseURL,
		client:        &http.Client{Timeout: timeout},
		routingClient: &http.Client{Timeout: routingTimeout},
		metrics:       metrics,
	}
}

type tomtomAddress struct {
	FreeformAddress string `json:"freeformAddress"`
	Municipality    string `json:"municipality"`
}

type tomtomPosition struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type tomtomSearchResponse struct {
	Results []struct {
		Position tomtomPosition `json:"position"`
		Address  tomtomAddress  `json:"address"`
		POI      struct {
			Name string `json:"name"`
		} `json:"poi"`
	} `json:"results"`
}

// Geocode resolves a free-text query to the single top-ranked place.
// Zero results is models.ErrNotFound, not a provider fault.
func (t *TomTom) Geocode(ctx context.Context, query string) (models.PlaceCandidate, error) {
	if t.key == "" {
		return models.PlaceCandidate{}, &models.ConfigError{Key: "TOMTOM_API_KEY"}
	}

	params := url.Values{}
	params.Set("key", t.key)
	params.Set("limit", "1")
	u := fmt.Sprintf("%s/search/2/geocode/%s.json?%s", t.baseURL, url.PathEscape(query), params.Encode())

	var data tomtomSearchResponse
	if err := getJSON(ctx, t.client, t.metrics, tomtomName, "geocode", u, &data); err != nil {
		return models.PlaceCandidate{}, err
	}

	if len(data.Results) == 0 {
		return models.PlaceCandidate{}, models.ErrNotFound
	}

	top := data.Results[0]
	if top.Position.Lat == nil || top.Position.Lon == nil {
		return models.PlaceCandidate{}, &models.ProviderError{
			Provider: tomtomName, Op: "geocode",
			Err: errors.New("result has no position"),
		}
	}

	name := top.Address.FreeformAddress
	if name == "" {
		name = top.Address.Municipality
	}
	if name == "" {
		name = query
	}

	return models.PlaceCandidate{
		DisplayName: name,
		Coord:       models.Coordinate{Lat: *top.Position.Lat, Lon: *top.Position.Lon},
	}, nil
}

type tomtomReverseResponse struct {
	Addresses []struct {
		Address tomtomAddress `json:"address"`
	} `json:"addresses"`
}

// ReverseGeocode resolves a coordinate to a place label, falling back from
// the free-form address to the municipality to a fixed label.
func (t *TomTom) ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error) {
	if t.key == "" {
		return "", &models.ConfigError{Key: "TOMTOM_API_KEY"}
	}

	params := url.Values{}
	params.Set("key", t.key)
	params.Set("limit", "1")
	u := fmt.Sprintf("%s/search/2/reverseGeocode/%.6f,%.6f.json?%s", t.baseURL, coord.Lat, coord.Lon, params.Encode())

	var data tomtomReverseResponse
	if err := getJSON(ctx, t.client, t.metrics, tomtomName, "reverse_geocode", u, &data); err != nil {
		return "", err
	}

	if len(data.Addresses) == 0 {
		return reverseFallbackLabel, nil
	}

	addr := data.Addresses[0].Address
	if addr.FreeformAddress != "" {
		return addr.FreeformAddress, nil
	}
	if addr.Municipality != "" {
		return addr.Municipality, nil
	}
	return reverseFallbackLabel, nil
}

// Suggest returns up to limit typeahead suggestions for a prefix. Results
// without a position are skipped.
func (t *TomTom) Suggest(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	if t.key == "" {
		return nil, &models.ConfigError{Key: "TOMTOM_API_KEY"}
	}

	params := url.Values{}
	params.Set("key", t.key)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("typeahead", "true")
	params.Set("idxSet", "Geo")
	u := fmt.Sprintf("%s/search/2/search/%s.json?%s", t.baseURL, url.PathEscape(prefix), params.Encode())

	var data tomtomSearchResponse
	if err := getJSON(ctx, t.client, t.metrics, tomtomName, "suggest", u, &data); err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, 0, len(data.Results))
	for _, r := range data.Results {
		if len(suggestions) == limit {
			break
		}
		if r.Position.Lat == nil || r.Position.Lon == nil {
			continue
		}
		label := r.Address.FreeformAddress
		if label == "" {
			label = r.POI.Name
		}
		if label == "" {
			label = prefix
		}
		suggestions = append(suggestions, models.Suggestion{
			Label: label,
			Lat:   *r.Position.Lat,
			Lon:   *r.Position.Lon,
		})
	}

	return suggestions, nil
}

type tomtomFlowResponse struct {
	FlowSegmentData struct {
		CurrentSpeed  *float64 `json:"currentSpeed"`
		FreeFlowSpeed *float64 `json:"freeFlowSpeed"`
	} `json:"flowSegmentData"`
}

// Traffic samples the flow segment nearest the coordinate. Speeds the
// provider omits stay nil.
func (t *TomTom) Traffic(ctx context.Context, coord models.Coordinate) (models.TrafficReading, error) {
	if t.key == "" {
		return models.TrafficReading{}, &models.ConfigError{Key: "TOMTOM_API_KEY"}
	}

	params := url.Values{}
	params.Set("key", t.key)
	params.Set("point", fmt.Sprintf("%f,%f", coord.Lat, coord.Lon))
	u := fmt.Sprintf("%s/traffic/services/4/flowSegmentData/absolute/10/json?%s", t.baseURL, params.Encode())

	var data tomtomFlowResponse
	if err := getJSON(ctx, t.client, t.metrics, tomtomName, "traffic_flow", u, &data); err != nil {
		return models.TrafficReading{}, err
	}

	return models.TrafficReading{
		CurrentSpeedKMH:  data.FlowSegmentData.CurrentSpeed,
		FreeFlowSpeedKMH: data.FlowSegmentData.FreeFlowSpeed,
	}, nil
}

// routePlan is the internal form of a route strategy: the optimization
// objective and the avoidance constraint are independent axes even though
// the boundary exposes a flat enum.
type routePlan struct {
	routeType string
	avoid     string
}

func planFor(strategy models.RouteStrategy) routePlan {
	plan := routePlan{routeType: "fastest"}
	switch strategy {
	case models.StrategyShortest:
		plan.routeType = "shortest"
	case models.StrategyAvoidTolls:
		plan.avoid = "tollRoads"
	case models.StrategyAvoidHighways:
		plan.avoid = "motorways"
	}
	return plan
}

type tomtomRouteResponse struct {
	Routes []struct {
		Summary struct {
			LengthInMeters        float64 `json:"lengthInMeters"`
			TravelTimeInSeconds   float64 `json:"travelTimeInSeconds"`
			TrafficDelayInSeconds float64 `json:"trafficDelayInSeconds"`
		} `json:"summary"`
		Legs []struct {
			Points []struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"points"`
		} `json:"legs"`
		Guidance struct {
			Instructions []struct {
				Message             string  `json:"message"`
				RouteOffsetInMeters float64 `json:"routeOffsetInMeters"`
			} `json:"instructions"`
		} `json:"guidance"`
	} `json:"routes"`
}

const maxInstructions = 8

// ComputeRoute calculates a traffic-aware car route between two coordinates.
// The full point sequence of the first leg becomes the path; guidance is
// best-effort and missing guidance yields an empty instruction list.
func (t *TomTom) ComputeRoute(ctx context.Context, origin, dest models.Coordinate, strategy models.RouteStrategy) (models.RouteResult, error) {
	if t.key == "" {
		return models.RouteResult{}, &models.ConfigError{Key: "TOMTOM_API_KEY"}
	}

	plan := planFor(strategy)

	params := url.Values{}
	params.Set("key", t.key)
	params.Set("traffic", "true")
	params.Set("travelMode", "car")
	params.Set("computeTravelTimeFor", "all")
	params.Set("instructionsType", "text")
	params.Set("language", "en-GB")
	params.Set("routeType", plan.routeType)
	if plan.avoid != "" {
		params.Set("avoid", plan.avoid)
	}

	u := fmt.Sprintf("%s/routing/1/calculateRoute/%f,%f:%f,%f/json?%s",
		t.baseURL, origin.Lat, origin.Lon, dest.Lat, dest.Lon, params.Encode())

	var data tomtomRouteResponse
	if err := getJSON(ctx, t.routingClient, t.metrics, tomtomName, "route", u, &data); err != nil {
		return models.RouteResult{}, err
	}

	if len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		return models.RouteResult{}, &models.ProviderError{
			Provider: tomtomName, Op: "route",
			Err: errors.New("no routes returned"),
		}
	}

	route := data.Routes[0]

	points := route.Legs[0].Points
	path := make([]models.Coordinate, 0, len(points))
	for _, p := range points {
		path = append(path, models.Coordinate{Lat: p.Latitude, Lon: p.Longitude})
	}

	instructions := make([]models.Instruction, 0, maxInstructions)
	for _, gi := range route.Guidance.Instructions {
		if len(instructions) == maxInstructions {
			break
		}
		instructions = append(instructions, models.Instruction{
			Message:      gi.Message,
			OffsetMeters: gi.RouteOffsetInMeters,
		})
	}

	return models.RouteResult{
		Strategy:        strategy,
		DistanceKM:      round2(route.Summary.LengthInMeters / 1000),
		TravelTimeMin:   round1(route.Summary.TravelTimeInSeconds / 60),
		TrafficDelayMin: round1(route.Summary.TrafficDelayInSeconds / 60),
		Path:            path,
		Instructions:    instructions,
	}, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
