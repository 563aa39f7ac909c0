// Copyright 2025 Vektoria Labs
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


// Package ai provides the feature-extraction abstraction used by the
// ingestion pipeline.
//
// The FeatureExtractor interface turns a loaded image into a fixed-length
// embedding vector. The pipeline depends only on this abstraction; the
// concrete implementations live in sub-packages:
//
//   - ai/clip: production implementation talking to an OpenAI-compatible
//     multimodal embeddings endpoint (Jina-CLIP style serving)
//   - ai/mock: test double for unit testing without a model server
//
// Public constructors (clip.NewExtractor) return the interface type to
// enforce abstraction; the mock constructor returns the concrete type so
// tests can inject behavior and assert call counts.
package ai
