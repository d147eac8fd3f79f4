// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	labelMethod = "method"
	labelPath   = "path"
	labelStatus = "status"
	labelAction = "action"
)

// Metrics holds the storefront's Prometheus collectors.
type Metrics struct {
	Requests       *prometheus.CounterVec
	Latency        *prometheus.HistogramVec
	CartActions    *prometheus.CounterVec
	ProductChanges *prometheus.CounterVec
	CatalogSize    prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ostore_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{labelMethod, labelPath, labelStatus},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ostore_http_request_duration_seconds",
				Help:    "HTTP latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{labelMethod, labelPath},
		),
		CartActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ostore_cart_actions_total",
				Help: "Cart additions and removals",
			},
			[]string{labelAction},
		),
		ProductChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ostore_product_changes_total",
				Help: "Admin product creates, updates and deletes",
			},
			[]string{labelAction},
		),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ostore_catalog_products",
			Help: "Products currently in the catalog",
		}),
		gatherer: reg,
	}

	reg.MustRegister(m.Requests, m.Latency, m.CartActions, m.ProductChanges, m.CatalogSize)
	return m
}

// CountCart records a cart action ("add" or "remove"). Safe on a nil receiver.
func (m *Metrics) CountCart(action string) {
	if m != nil {
		m.CartActions.WithLabelValues(action).Inc()
	}
}

// CountProductChange records an admin product write. Safe on a nil receiver.
func (m *Metrics) CountProductChange(action string) {
	if m != nil {
		m.ProductChanges.WithLabelValues(action).Inc()
	}
}

// SetCatalogSize records the number of products in the catalog.
func (m *Metrics) SetCatalogSize(n int64) {
	m.CatalogSize.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(sw, r)

		path := RoutePattern(r)
		m.Latency.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		m.Requests.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
	})
}

// RoutePattern returns the matched chi route pattern, or "unmatched" so
// unknown URLs do not create new label values.
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if rp := rctx.RoutePattern(); rp != "" {
			return rp
		}
	}
	return "unmatched"
}
