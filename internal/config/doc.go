// Package config loads, normalizes, and validates Capstan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CAPSTAN_BACKEND_URL. The Config type centralizes every knob the CLI needs,
// allowing the backend endpoint, polling cadence, caption styling, and
// workspace directories to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
