// Package middleware groups the HTTP middleware used by the server:
// ray-id assignment for request correlation and API key authentication.
package middleware
