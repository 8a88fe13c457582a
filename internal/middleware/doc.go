// Package middleware provides HTTP middleware for the showcase media service.
//
// It includes:
//   - Request logging with log-injection-safe field sanitization
//   - Prometheus request metrics with bounded label cardinality
package middleware
