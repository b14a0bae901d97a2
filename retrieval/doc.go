// Package retrieval turns raw user input (free text, a job-description
// URL, or both) into a normalized query string and retrieves scored
// candidate items from the catalog index.
package retrieval
