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


package index

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexNotFound is returned when either index artifact is absent at
	// load time. Fatal for serving; the operator must rebuild.
	ErrIndexNotFound = errors.New("index artifacts not found")

	// ErrCorruptArtifact is returned when an artifact fails to decode.
	ErrCorruptArtifact = errors.New("corrupt index artifact")

	// ErrArtifactMismatch is returned when the vector and metadata artifacts
	// disagree on the number of rows. The two files must always be produced
	// together from one build invocation.
	ErrArtifactMismatch = errors.New("vector and metadata artifacts out of sync")

	// ErrDimensionMismatch is returned when the embedder produces vectors of
	// inconsistent dimension within one build, or when a search query
	// vector does not match the dimension of the loaded index.
	ErrDimensionMismatch = errors.New("inconsistent embedding dimension")
)
