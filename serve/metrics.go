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

package serve

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes connection-lifecycle observability for a Server via
// Prometheus.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	AcceptErrors      prometheus.Counter
}

// NewMetrics registers connection-lifecycle metrics under namespace
// against reg and returns the handle Server uses to update them.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "serve",
			Name:      "active_connections",
			Help:      "Number of currently open connections.",
		}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "serve",
			Name:      "accept_errors_total",
			Help:      "Number of connections rejected by the acceptor chain.",
		}),
	}
	reg.MustRegister(m.ActiveConnections, m.AcceptErrors)
	return m
}
