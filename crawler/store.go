// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crawler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/recommendit/core"
)

// pagePrefix namespaces cached page bodies inside the database.
var pagePrefix = []byte("page:")

// PageCache persists fetched page bodies in BadgerDB so repeated crawls
// do not re-download unchanged catalog pages. Keys are content hashes of
// the URL.
type PageCache struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenPageCache opens a page cache at the specified path.
// Creates the directory if it doesn't exist. An empty path with inMemory
// set opens an ephemeral cache, used by tests and one-shot crawls.
func OpenPageCache(filePath string, inMemory bool) (*PageCache, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &PageCache{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the underlying database.
func (p *PageCache) Close() error {
	return p.db.Close()
}

// CachedPage is one cache entry: the raw body plus when it was fetched.
type CachedPage struct {
	Body      []byte
	FetchedAt time.Time
}

// Get returns the cached entry for url, or found=false on a miss.
func (p *PageCache) Get(url string) (page *CachedPage, found bool, err error) {
	err = p.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(pageKey(url))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		page, err = decodePage(value)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return page, found, nil
}

// Put stores the body for url with the current time, replacing any
// previous entry.
func (p *PageCache) Put(url string, body []byte) error {
	value := encodePage(&CachedPage{Body: body, FetchedAt: time.Now()})
	return p.db.Update(func(tx *badger.Txn) error {
		return tx.Set(pageKey(url), value)
	})
}

// Entry value layout: 8-byte big-endian unix seconds, then the raw body.
func encodePage(page *CachedPage) []byte {
	value := make([]byte, 8+len(page.Body))
	binary.BigEndian.PutUint64(value, uint64(page.FetchedAt.Unix()))
	copy(value[8:], page.Body)
	return value
}

func decodePage(value []byte) (*CachedPage, error) {
	if len(value) < 8 {
		return nil, fmt.Errorf("cache entry too short: %d bytes", len(value))
	}
	return &CachedPage{
		Body:      value[8:],
		FetchedAt: time.Unix(int64(binary.BigEndian.Uint64(value)), 0),
	}, nil
}

// pageKey builds a fixed-width key from the URL's content hash.
func pageKey(url string) []byte {
	key := make([]byte, len(pagePrefix)+8)
	copy(key, pagePrefix)
	binary.BigEndian.PutUint64(key[len(pagePrefix):], uint64(core.IDFromContent(url)))
	return key
}
