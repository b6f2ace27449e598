package service

import "errors"

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrWeatherNotConfigured = errors.New("weather API not configured")
	ErrTwitterNotConfigured = errors.New("twitter API not configured")
	ErrWeatherUnavailable   = errors.New("could not fetch weather data")
	ErrUnknownDistrict      = errors.New("district not monitored")
	ErrNoFuelData           = errors.New("no fuel price data available")
	ErrScrapeFailed         = errors.New("could not scrape fuel prices")
	ErrInsufficientData     = errors.New("insufficient data for analysis")
	ErrInvalidFuelType      = errors.New("invalid fuel type")
	ErrNoTrendData          = errors.New("no trend data available")
	ErrLocationRequired     = errors.New("location information required")
)
