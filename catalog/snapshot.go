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


package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/recommendit/core"
)

// Header is the fixed column set of a catalog snapshot, in order.
var Header = []string{
	"name", "url", "test_type", "duration_minutes",
	"category", "description", "tags", "text_blob",
}

// ReadSnapshot reads a catalog snapshot CSV from path.
// Row order is preserved; it becomes the index row order at build time.
// Structurally empty rows (no name and no text blob) are skipped.
func ReadSnapshot(path string) ([]core.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	return readSnapshot(f)
}

func readSnapshot(r io.Reader) ([]core.CatalogItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	for i, col := range Header {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrMalformedSnapshot, i, header[i], col)
		}
	}

	var items []core.CatalogItem
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
		}

		item, err := itemFromRow(row)
		if err != nil {
			return nil, err
		}
		if item.Name == "" && item.TextBlob == "" {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func itemFromRow(row []string) (core.CatalogItem, error) {
	item := core.CatalogItem{
		Name:        strings.TrimSpace(row[0]),
		URL:         strings.TrimSpace(row[1]),
		TestType:    strings.ToUpper(strings.TrimSpace(row[2])),
		Category:    strings.TrimSpace(row[4]),
		Description: strings.TrimSpace(row[5]),
		Tags:        core.SplitTags(row[6]),
		TextBlob:    strings.TrimSpace(row[7]),
	}

	if d := strings.TrimSpace(row[3]); d != "" {
		minutes, err := strconv.Atoi(d)
		if err != nil {
			return core.CatalogItem{}, fmt.Errorf("%w: duration %q: %w", ErrMalformedSnapshot, d, err)
		}
		item.DurationMinutes = &minutes
	}

	if item.TextBlob == "" {
		item.TextBlob = BuildTextBlob(&item)
	}

	return item, nil
}

// WriteSnapshot writes items to path in snapshot CSV form, preserving order.
func WriteSnapshot(path string, items []core.CatalogItem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		f.Close()
		return err
	}

	for i := range items {
		item := &items[i]
		duration := ""
		if item.DurationMinutes != nil {
			duration = strconv.Itoa(*item.DurationMinutes)
		}
		row := []string{
			item.Name,
			item.URL,
			item.TestType,
			duration,
			item.Category,
			item.Description,
			item.JoinedTags(),
			item.TextBlob,
		}
		if err := cw.Write(row); err != nil {
			f.Close()
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// BuildTextBlob assembles the embedding text for an item from its name,
// category, tags and description.
func BuildTextBlob(item *core.CatalogItem) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{item.Name, item.Category, strings.Join(item.Tags, " "), item.Description} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
