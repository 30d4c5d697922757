// Package config loads and validates Folium Core configuration.
//
// Configuration is read from a YAML file with environment variable overrides
// (FOLIUM_SECTION_KEY). Defaults are applied first, then file values, then
// environment values, and the result is validated before use. The JWT secret
// is deliberately absent from the defaults: a deployment must provide one.
package config
