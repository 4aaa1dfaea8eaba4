package models

import "time"

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies inside the WGS84 domain.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// PlaceCandidate is the top-ranked geocoding result for a query.
// It is ephemeral: never persisted on its own.
type PlaceCandidate struct {
	DisplayName string     `json:"display_name"`
	Coord       Coordinate `json:"coordinate"`
}

// Suggestion is one typeahead autocomplete entry.
type Suggestion struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// WeatherReading holds current conditions at a coordinate. Every field is
// optional: the provider may omit any of them, and an omitted field stays
// nil rather than defaulting to zero.
type WeatherReading struct {
	TemperatureC  *float64 `json:"temperature_c,omitempty"`
	FeelsLikeC    *float64 `json:"feels_like_c,omitempty"`
	HumidityPct   *float64 `json:"humidity_pct,omitempty"`
	WindSpeedMS   *float64 `json:"wind_speed_ms,omitempty"`
	CloudsPct     *float64 `json:"clouds_pct,omitempty"`
	Rain1hMM      *float64 `json:"rain_1h_mm,omitempty"`
	ConditionMain *string  `json:"condition_main,omitempty"`
	ConditionDesc *string  `json:"condition_desc,omitempty"`
}

// Pollutant is a pollutant code as reported by the air-quality provider.
type Pollutant string

const (
	PollutantPM25 Pollutant = "pm2_5"
	PollutantPM10 Pollutant = "pm10"
	PollutantNO2  Pollutant = "no2"
	PollutantSO2  Pollutant = "so2"
	PollutantO3   Pollutant = "o3"
	PollutantCO   Pollutant = "co"
	PollutantNH3  Pollutant = "nh3"
	PollutantNO   Pollutant = "no"
)

// PollutantProfile maps pollutant codes to concentrations in µg/m³.
// Keys are present only when the provider supplied them.
type PollutantProfile map[Pollutant]float64

// AirQualityAssessment is the normalized 0–500 AQI derived from a
// PollutantProfile. Only the index is ever persisted.
type AirQualityAssessment struct {
	Index             *int             `json:"index,omitempty"`
	Label             *string          `json:"label,omitempty"`
	HealthTip         *string          `json:"health_tip,omitempty"`
	Pollutants        PollutantProfile `json:"pollutants,omitempty"`
	DominantPollutant *Pollutant       `json:"dominant_pollutant,omitempty"`
}

// TrafficReading holds a flow-segment sample at a coordinate. The ratio and
// label are filled in by the congestion classifier, not the provider.
type TrafficReading struct {
	CurrentSpeedKMH  *float64 `json:"current_speed_kmh,omitempty"`
	FreeFlowSpeedKMH *float64 `json:"free_flow_speed_kmh,omitempty"`
	CongestionRatio  *float64 `json:"congestion_ratio,omitempty"`
	CongestionLabel  *string  `json:"congestion_label,omitempty"`
}

// RouteStrategy selects the routing objective and avoidance constraint.
type RouteStrategy string

const (
	StrategyFastest       RouteStrategy = "fastest"
	StrategyShortest      RouteStrategy = "shortest"
	StrategyAvoidTolls    RouteStrategy = "avoid_tolls"
	StrategyAvoidHighways RouteStrategy = "avoid_highways"
)

// ParseRouteStrategy maps a caller-supplied mode string onto a strategy.
// The empty string defaults to fastest.
func ParseRouteStrategy(s string) (RouteStrategy, bool) {
	switch s {
	case "", string(StrategyFastest):
		return StrategyFastest, true
	case string(StrategyShortest):
		return StrategyShortest, true
	case string(StrategyAvoidTolls):
		return StrategyAvoidTolls, true
	case string(StrategyAvoidHighways):
		return StrategyAvoidHighways, true
	default:
		return "", false
	}
}

// Instruction is one turn-by-turn guidance step, reduced to the message and
// its offset along the route.
type Instruction struct {
	Message      string  `json:"message"`
	OffsetMeters float64 `json:"offset_meters"`
}

// RouteResult is a computed route between two coordinates.
type RouteResult struct {
	Strategy        RouteStrategy `json:"strategy"`
	DistanceKM      float64       `json:"distance_km"`
	TravelTimeMin   float64       `json:"travel_time_min"`
	TrafficDelayMin float64       `json:"traffic_delay_min"`
	Path            []Coordinate  `json:"path"`
	Instructions    []Instruction `json:"instructions"`
}

// SearchRecord is the persisted point-in-time projection of one snapshot.
// ID and CreatedAt are assigned by the history store; records are immutable
// once written.
type SearchRecord struct {
	ID              int64      `json:"id"`
	QueryText       string     `json:"query_text"`
	PlaceName       string     `json:"place_name"`
	Coord           Coordinate `json:"coordinate"`
	TemperatureC    *float64   `json:"temperature_c,omitempty"`
	HumidityPct     *float64   `json:"humidity_pct,omitempty"`
	WindSpeedMS     *float64   `json:"wind_speed_ms,omitempty"`
	AQIIndex        *int       `json:"aqi_index,omitempty"`
	TrafficSpeedKMH *float64   `json:"traffic_speed_kmh,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Snapshot is the assembled response for one search: the resolved place plus
// the three condition readings, weather raw and AQI/traffic normalized.
type Snapshot struct {
	Query   string               `json:"query"`
	Place   string               `json:"place"`
	Coord   Coordinate           `json:"coordinate"`
	Weather WeatherReading       `json:"weather"`
	Air     AirQualityAssessment `json:"air_quality"`
	Traffic TrafficReading       `json:"traffic"`
}

// Record projects the snapshot onto its persisted form. Pollutants and route
// data are response-only and deliberately not carried over.
func (s *Snapshot) Record() *SearchRecord {
	return &SearchRecord{
		QueryText:       s.Query,
		PlaceName:       s.Place,
		Coord:           s.Coord,
		TemperatureC:    s.Weather.TemperatureC,
		HumidityPct:     s.Weather.HumidityPct,
		WindSpeedMS:     s.Weather.WindSpeedMS,
		AQIIndex:        s.Air.Index,
		TrafficSpeedKMH: s.Traffic.CurrentSpeedKMH,
	}
}

// DailyStats aggregates records created since the start of the current day.
// Averages cover only rows where the value was present; they are nil when no
// such rows exist.
type DailyStats struct {
	Count              int      `json:"count"`
	AvgTemperatureC    *float64 `json:"avg_temperature_c,omitempty"`
	AvgAQI             *float64 `json:"avg_aqi,omitempty"`
	MaxAQI             *int     `json:"max_aqi,omitempty"`
	AvgTrafficSpeedKMH *float64 `json:"avg_traffic_speed_kmh,omitempty"`
}

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
