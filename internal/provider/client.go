// Package provider holds the HTTP clients for the external geo providers:
// TomTom (geocoding, typeahead, traffic flow, routing) and OpenWeather
// (current conditions, air pollution). Each call issues exactly one outbound
// request bounded by the client timeout; there is no caching and no retry.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nmishr/geo-dashboard/internal/models"
	"github.com/nmishr/geo-dashboard/internal/observability"
)

// getJSON performs one GET, decodes the body into out, and records the
// request in metrics. Any transport, status, or decode failure comes back as
// a *models.ProviderError carrying the provider name and cause.
func getJSON(ctx context.Context, client *http.Client, metrics *observability.Metrics, providerName, op, fullURL string, out any) error {
	start := time.Now()
	err := doGetJSON(ctx, client, fullURL, out)
	metrics.ObserveProvider(providerName, op, err, time.Since(start))
	if err != nil {
		return &models.ProviderError{Provider: providerName, Op: op, Err: err}
	}
	return nil
}

func doGetJSON(ctx context.Context, client *http.Client, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return nil
}
