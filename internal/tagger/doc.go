// Copyright 2026 Sebastian Rodriguez
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

// Package tagger implements the tagging engine: diff-driven change
// detection, per-language comment handling, multiline-statement collapsing,
// and column-aligned insertion of issue tags as trailing comments.
//
// The engine is a pure function from (files, tag, dry-run) to per-file
// results. All I/O — reading diffs, writing files, restaging — lives in thin
// adapters at the boundary, which keeps the core testable without a working
// git checkout.
package tagger
