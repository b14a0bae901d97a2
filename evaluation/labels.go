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

package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// labelsHeader is the fixed column set of a labels file: one row per
// (query, relevant assessment) pair.
var labelsHeader = []string{"query", "assessment_url"}

// LabelSet holds the relevance judgments for a set of queries.
type LabelSet struct {
	// Queries in first-seen file order, each exactly once.
	Queries []string
	// Relevant maps a query to its set of relevant assessment URLs.
	Relevant map[string]map[string]bool
}

// ReadLabels reads a labels CSV from path. Rows with an empty query or
// URL are skipped; repeated (query, url) pairs collapse into one.
func ReadLabels(path string) (*LabelSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLabelsNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	return readLabels(f)
}

func readLabels(r io.Reader) (*LabelSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(labelsHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLabels, err)
	}
	for i, col := range labelsHeader {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrMalformedLabels, i, header[i], col)
		}
	}

	set := &LabelSet{Relevant: make(map[string]map[string]bool)}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedLabels, err)
		}

		query := strings.TrimSpace(row[0])
		url := strings.TrimSpace(row[1])
		if query == "" || url == "" {
			continue
		}

		if set.Relevant[query] == nil {
			set.Relevant[query] = make(map[string]bool)
			set.Queries = append(set.Queries, query)
		}
		set.Relevant[query][url] = true
	}

	return set, nil
}
