// Package crawler scrapes an assessment catalog site into catalog items.
// Fetched pages are cached in BadgerDB so interrupted or repeated crawls
// do not hammer the source, and every network fetch goes through retry
// with exponential backoff plus a politeness delay.
package crawler
