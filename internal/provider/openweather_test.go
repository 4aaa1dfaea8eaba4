package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmishr/geo-dashboard/internal/models"
)

func newTestOpenWeather(t *testing.T, handler http.HandlerFunc) *OpenWeather {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenWeather("test-key", srv.URL, 5*time.Second, nil)
}

func TestOpenWeather_CurrentWeather(t *testing.T) {
	var gotURL *url.URL
	ow := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL
		w.Write([]byte(`{
			"main":{"temp":27.5,"feels_like":29.1,"humidity":64},
			"wind":{"speed":3.2},
			"clouds":{"all":40},
			"rain":{"1h":0.8},
			"weather":[{"main":"Clouds","description":"scattered clouds"}]
		}`))
	})

	reading, err := ow.CurrentWeather(context.Background(), models.Coordinate{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)

	require.NotNil(t, reading.TemperatureC)
	assert.Equal(t, 27.5, *reading.TemperatureC)
	require.NotNil(t, reading.FeelsLikeC)
	assert.Equal(t, 29.1, *reading.FeelsLikeC)
	require.NotNil(t, reading.HumidityPct)
	assert.Equal(t, 64.0, *reading.HumidityPct)
	require.NotNil(t, reading.WindSpeedMS)
	assert.Equal(t, 3.2, *reading.WindSpeedMS)
	require.NotNil(t, reading.CloudsPct)
	assert.Equal(t, 40.0, *reading.CloudsPct)
	require.NotNil(t, reading.Rain1hMM)
	assert.Equal(t, 0.8, *reading.Rain1hMM)
	require.NotNil(t, reading.ConditionMain)
	assert.Equal(t, "Clouds", *reading.ConditionMain)
	require.NotNil(t, reading.ConditionDesc)
	assert.Equal(t, "scattered clouds", *reading.ConditionDesc)

	require.NotNil(t, gotURL)
	assert.Equal(t, "/data/2.5/weather", gotURL.Path)
	assert.Equal(t, "metric", gotURL.Query().Get("units"))
	assert.Equal(t, "test-key", gotURL.Query().Get("appid"))
}

func TestOpenWeather_OmittedFieldsStayAbsent(t *testing.T) {
	ow := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	reading, err := ow.CurrentWeather(context.Background(), models.Coordinate{})
	require.NoError(t, err)

	assert.Nil(t, reading.TemperatureC)
	assert.Nil(t, reading.FeelsLikeC)
	assert.Nil(t, reading.HumidityPct)
	assert.Nil(t, reading.WindSpeedMS)
	assert.Nil(t, reading.CloudsPct)
	assert.Nil(t, reading.Rain1hMM)
	assert.Nil(t, reading.ConditionMain)
	assert.Nil(t, reading.ConditionDesc)
}

func TestOpenWeather_CurrentWeatherServerError(t *testing.T) {
	ow := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := ow.CurrentWeather(context.Background(), models.Coordinate{})
	var pe *models.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "openweather", pe.Provider)
	assert.Equal(t, "current_weather", pe.Op)
}

func TestOpenWeather_AirPollution(t *testing.T) {
	var gotURL *url.URL
	ow := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL
		w.Write([]byte(`{"list":[{"components":{
			"pm2_5":50.0,"pm10":80.0,"no2":30.0,"so2":5.0,"o3":20.0,"co":400.0,"nh3":2.0,"no":0.5
		}}]}`))
	})

	profile, err := ow.AirPollution(context.Background(), models.Coordinate{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)

	assert.Equal(t, 50.0, profile[models.PollutantPM25])
	assert.Equal(t, 80.0, profile[models.PollutantPM10])
	assert.Equal(t, 400.0, profile[models.PollutantCO])
	assert.Len(t, profile, 8)

	assert.Equal(t, "/data/2.5/air_pollution", gotURL.Path)
}

func TestOpenWeather_AirPollutionEmptyList(t *testing.T) {
	ow := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list":[]}`))
	})

	profile, err := ow.AirPollution(context.Background(), models.Coordinate{})
	require.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Empty(t, profile)
}

func TestOpenWeather_MissingKeyFailsBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	ow := NewOpenWeather("", srv.URL, time.Second, nil)

	_, err := ow.CurrentWeather(context.Background(), models.Coordinate{})
	var ce *models.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "OPENWEATHER_API_KEY", ce.Key)

	_, err = ow.AirPollution(context.Background(), models.Coordinate{})
	require.True(t, errors.As(err, &ce))
	assert.False(t, called)
}
