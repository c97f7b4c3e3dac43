package domain

import (
	"errors"
	"fmt"
)

// ValidationError is a malformed request or input. Field names the
// offending field using the request's json path, e.g. positions[2].leverage
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DataUnavailableError means the return statistics provider could not
// supply enough history for an asset
type DataUnavailableError struct {
	Asset        string
	Observations int
	Required     int
	Reason       string
}

func (e DataUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("historical data unavailable for %s: %s", e.Asset, e.Reason)
	}
	return fmt.Sprintf("historical data unavailable for %s: got %d observations, need %d", e.Asset, e.Observations, e.Required)
}

type PriceUnavailableError struct {
	Asset  string
	Reason string
}

func (e PriceUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("price unavailable for %s: %s", e.Asset, e.Reason)
	}
	return fmt.Sprintf("price unavailable for %s", e.Asset)
}

type ErrorKind string

const (
	ErrorKindValidation       ErrorKind = "validation"
	ErrorKindDataUnavailable  ErrorKind = "data_unavailable"
	ErrorKindPriceUnavailable ErrorKind = "price_unavailable"
	ErrorKindInternal         ErrorKind = "internal"
)

// KindOf classifies an error (possibly wrapped) into the response error channel
func KindOf(err error) ErrorKind {
	var validationErr ValidationError
	var dataErr DataUnavailableError
	var priceErr PriceUnavailableError
	switch {
	case errors.As(err, &validationErr):
		return ErrorKindValidation
	case errors.As(err, &dataErr):
		return ErrorKindDataUnavailable
	case errors.As(err, &priceErr):
		return ErrorKindPriceUnavailable
	default:
		return ErrorKindInternal
	}
}
