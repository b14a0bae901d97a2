// Package server exposes the recommendation pipeline over HTTP and owns
// the layered process configuration.
package server
