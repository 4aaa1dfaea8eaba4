package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nmishr/geo-dashboard/internal/models"
	"github.com/nmishr/geo-dashboard/internal/observability"
)

const openWeatherName = "openweather"

// OpenWeather is the client for the OpenWeather current-conditions and
// air-pollution APIs. Safe for concurrent use.
type OpenWeather struct {
	key     string
	baseURL string
	client  *http.Client
	metrics *observability.Metrics
}

// NewOpenWeather creates an OpenWeather client. baseURL is overridable for
// tests; the empty string selects the production endpoint.
func NewOpenWeather(key, baseURL string, timeout time.Duration, metrics *observability.Metrics) *OpenWeather {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}
	return &OpenWeather{
		key:     key,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
	}
}

func (o *OpenWeather) query(coord models.Coordinate) url.Values {
	params := url.Values{}
	params.Set("appid", o.key)
	params.Set("lat", fmt.Sprintf("%f", coord.Lat))
	params.Set("lon", fmt.Sprintf("%f", coord.Lon))
	return params
}

type openWeatherResponse struct {
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneH *float64 `json:"1h"`
	} `json:"rain"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// CurrentWeather fetches current conditions at the coordinate in metric
// units. Fields the provider omits stay nil — never zero.
func (o *OpenWeather) CurrentWeather(ctx context.Context, coord models.Coordinate) (models.WeatherReading, error) {
	if o.key == "" {
		return models.WeatherReading{}, &models.ConfigError{Key: "OPENWEATHER_API_KEY"}
	}

	params := o.query(coord)
	params.Set("units", "metric")
	u := fmt.Sprintf("%s/data/2.5/weather?%s", o.baseURL, params.Encode())

	var data openWeatherResponse
	if err := getJSON(ctx, o.client, o.metrics, openWeatherName, "current_weather", u, &data); err != nil {
		return models.WeatherReading{}, err
	}

	reading := models.WeatherReading{
		TemperatureC: data.Main.Temp,
		FeelsLikeC:   data.Main.FeelsLike,
		HumidityPct:  data.Main.Humidity,
		WindSpeedMS:  data.Wind.Speed,
		CloudsPct:    data.Clouds.All,
		Rain1hMM:     data.Rain.OneH,
	}
	if len(data.Weather) > 0 {
		reading.ConditionMain = models.StringPtr(data.Weather[0].Main)
		reading.ConditionDesc = models.StringPtr(data.Weather[0].Description)
	}

	return reading, nil
}

type openWeatherPollutionResponse struct {
	List []struct {
		Components models.PollutantProfile `json:"components"`
	} `json:"list"`
}

// AirPollution fetches raw pollutant concentrations at the coordinate. An
// empty list from the provider yields an empty profile, not an error.
func (o *OpenWeather) AirPollution(ctx context.Context, coord models.Coordinate) (models.PollutantProfile, error) {
	if o.key == "" {
		return nil, &models.ConfigError{Key: "OPENWEATHER_API_KEY"}
	}

	u := fmt.Sprintf("%s/data/2.5/air_pollution?%s", o.baseURL, o.query(coord).Encode())

	var data openWeatherPollutionResponse
	if err := getJSON(ctx, o.client, o.metrics, openWeatherName, "air_pollution", u, &data); err != nil {
		return nil, err
	}

	if len(data.List) == 0 || data.List[0].Components == nil {
		return models.PollutantProfile{}, nil
	}
	return data.List[0].Components, nil
}
