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

package retrieval

import "errors"

var (
	// ErrNoInput indicates neither query text nor a job-description URL
	// was supplied. An empty query string is still a supplied query; only
	// the absence of both inputs is a caller mistake.
	ErrNoInput = errors.New("no query text or job description URL provided")

	// ErrIndexRequired indicates a nil index was provided.
	ErrIndexRequired = errors.New("index is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrFetcherRequired indicates a nil fetcher was provided.
	ErrFetcherRequired = errors.New("fetcher is required")
)
