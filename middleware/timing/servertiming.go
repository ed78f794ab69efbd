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

// Package timing implements the Server-Timing response header (one or
// more named metrics with an optional description and duration), ported
// from original_source/src/headers/server_timing.rs, plus a
// corehttp.Layer (original_source's RespTimingLayer) measuring total
// request duration.
package timing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Metric is a single Server-Timing entry, e.g. "db;dur=53.000".
type Metric struct {
	Name        string
	Description string
	Duration    time.Duration
	hasDuration bool
}

// NewMetric starts a metric with just a name.
func NewMetric(name string) Metric {
	return Metric{Name: name}
}

// WithDescription attaches a human-readable description.
func (m Metric) WithDescription(desc string) Metric {
	m.Description = desc
	return m
}

// WithDuration attaches an explicit duration.
func (m Metric) WithDuration(d time.Duration) Metric {
	m.Duration = d
	m.hasDuration = true
	return m
}

// ElapsedSince sets the duration to the time elapsed since start.
func (m Metric) ElapsedSince(start time.Time) Metric {
	return m.WithDuration(time.Since(start))
}

// Metrics is an ordered collection of [Metric] values encodable as a
// single Server-Timing header value.
type Metrics struct {
	entries []Metric
}

// Push appends a metric.
func (m *Metrics) Push(metric Metric) *Metrics {
	m.entries = append(m.entries, metric)
	return m
}

// Len reports how many metrics have been pushed.
func (m *Metrics) Len() int { return len(m.entries) }

// Encode renders the metrics as a Server-Timing header value, e.g.
// "cpu;dur=2400.000,cache;desc=\"Cache Read\";dur=23200.000". Returns ""
// if no metrics were pushed.
func (m *Metrics) Encode() string {
	if len(m.entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.Name)
		if e.Description != "" {
			fmt.Fprintf(&b, ";desc=%q", e.Description)
		}
		if e.hasDuration {
			micros := e.Duration.Microseconds()
			millis, rem := micros/1000, micros%1000
			b.WriteString(";dur=")
			b.WriteString(strconv.FormatInt(millis, 10))
			b.WriteByte('.')
			fmt.Fprintf(&b, "%03d", rem)
		}
	}
	return b.String()
}
