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


// Package index implements the catalog vector index.
//
// The index is an exact flat inner-product structure: every query is
// compared against every stored vector. The catalog holds hundreds of
// items, so O(N*D) per query is cheap and exact search is a deliberate
// choice over approximation structures.
//
// Vectors are L2-normalized both at build time and at query time, so the
// inner product equals cosine similarity.
//
// The index persists as a pair of artifacts: a MUS-serialized vector
// table and a JSON metadata array in the same row order. The pair is
// produced together by Build and read together by Load; a consumer never
// sees one half of a rebuild.
package index
