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


// Package ai provides the embedding abstraction used by index building
// and query-time retrieval.
//
// The Embedder interface treats the embedding model as an opaque
// capability: text in, fixed-dimension vector out. Index and rerank
// logic depend only on this interface, so the concrete model is
// swappable without touching either.
//
// Implementation sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test double, no external dependencies
//
// Public constructors (openai.NewEmbedder) return the interface type to
// enforce abstraction. The mock constructor returns a concrete type so
// tests can inject behavior and make assertions.
package ai
