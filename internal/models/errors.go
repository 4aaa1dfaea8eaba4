package models

import (
	"errors"
	"fmt"
)

// ErrNotFound means a query was valid but matched no place. It is a normal
// outcome, not a provider fault; callers branch on it explicitly.
var ErrNotFound = errors.New("location not found")

// ProviderError is a transport or parse failure from an external dependency.
// It aborts the current operation end-to-end and is never retried or
// downgraded to a default value.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// EndpointNotFoundError reports which routing endpoint failed to resolve.
type EndpointNotFoundError struct {
	Endpoint string // "origin" or "destination"
	Query    string
}

func (e *EndpointNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Endpoint, e.Query)
}

// ValidationError is malformed caller input, rejected at the boundary before
// any provider call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConfigError means a required provider credential is absent. Raised before
// any network call is attempted.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}
