// Package catalog reads and writes catalog snapshot files.
//
// A snapshot is a CSV produced by the crawler with one row per catalog
// item. It is the sole input to index building; the row order of the
// snapshot becomes the row order of the index.
package catalog
