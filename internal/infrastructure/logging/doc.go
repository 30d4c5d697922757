// Package logging provides structured logging for Folium Core.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, and attaches service/version default fields to every record.
package logging
