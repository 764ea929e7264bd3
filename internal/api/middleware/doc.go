// Package middleware provides the gin middleware shared by the HTTP API:
// CORS for the browser front end and per-IP rate limiting.
package middleware
