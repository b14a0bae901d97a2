// Package jdfetch fetches job-description documents and reduces them to
// plain text suitable for embedding.
package jdfetch
