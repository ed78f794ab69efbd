// Copyright 2025 The Rivaas Authors
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

// Package config models the configuration surface enumerated by spec.md
// §6 — server, compression, rate limit, deferred encoding, and body
// limit settings — as a single Config struct. It can be loaded from a
// TOML file with github.com/BurntSushi/toml (Load) or built
// programmatically with functional options (New), grounded on the
// teacher's config.Option pattern in config/config.go but narrowed: the
// teacher's Config is a general multi-source (file/env/Consul) merging
// engine with JSON Schema validation and reflective struct binding; this
// module needs none of that generality, only the fixed set of options
// spec.md names, so it is one struct with TOML tags rather than a
// source/dumper registry. Both Load and New start from Default so
// callers only specify the fields they want to override.
package config
