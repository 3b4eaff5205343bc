// Package httpbind registers a resolved route table onto a chi router.
// It is the HTTP-binding collaborator: every descriptor is registered
// verbatim, duplicates are rejected rather than skipped, and each handler
// is wrapped into a plain http.HandlerFunc that decodes query, path and
// body parameters into the uniform invocation contract.
package httpbind

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/wappdev/wapp/adapters/metrics"
	"github.com/wappdev/wapp/core/resolve"
	"github.com/wappdev/wapp/core/schema"
)

// Options configures binding.
type Options struct {
	// Logger receives per-request and recovery logs.
	Logger zerolog.Logger

	// Metrics, when set, records request counts and durations labeled by
	// the registered route pattern.
	Metrics *metrics.Collector
}

// Bind registers every endpoint of a resolved set and returns the router.
// Duplicate (method, path) registrations and endpoints without handlers
// fail the whole bind; nothing is served from a partially bound table.
func Bind(set *resolve.Set, opts Options) (chi.Router, error) {
	logger := opts.Logger.With().Str("component", "httpbind").Logger()

	r := chi.NewRouter()
	r.Use(recoverer(logger))

	seen := make(map[string]string, len(set.Endpoints))
	for _, ep := range set.Endpoints {
		key := ep.Method + " " + ep.Path
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("httpbind: duplicate registration %s: %s and %s", key, prev, ep.Source)
		}
		seen[key] = ep.Source

		if ep.Handler == nil {
			return nil, fmt.Errorf("httpbind: endpoint %s (%s) has no handler", ep.Source, key)
		}

		r.MethodFunc(ep.Method, ep.Path, adapt(ep, logger, opts.Metrics))
		logger.Debug().
			Str("method", ep.Method).
			Str("path", ep.Path).
			Str("source", ep.Source).
			Msg("registered endpoint")
	}

	return r, nil
}

// adapt wraps an endpoint into an http.HandlerFunc. The wrapper decodes
// the request pieces, invokes the handler, and writes the JSON result
// with the handler's status (defaulting to 200).
func adapt(ep resolve.Endpoint, logger zerolog.Logger, coll *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if coll != nil {
			coll.RequestsInFlight.Inc()
			defer coll.RequestsInFlight.Dec()
		}

		req, err := decodeRequest(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, schema.ErrorPayload(err.Error()))
			return
		}

		result := ep.Handler.Handle(r.Context(), req)
		status := result.StatusOrDefault()
		writeJSON(w, status, result.Payload)

		logger.Info().
			Str("method", ep.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")

		if coll != nil {
			labels := []string{ep.Method, ep.Path, fmt.Sprintf("%d", status)}
			coll.RequestsTotal.WithLabelValues(labels...).Inc()
			coll.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		}
	}
}

// decodeRequest builds the uniform request from an HTTP request.
func decodeRequest(r *http.Request) (schema.Request, error) {
	req := schema.Request{
		HTTP:  r,
		Query: make(map[string]string),
		Path:  make(map[string]string),
	}

	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			req.Query[k] = vs[0]
		}
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			req.Path[key] = rctx.URLParams.Values[i]
		}
	}

	if r.Body != nil && r.ContentLength != 0 && hasJSONBody(r) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return schema.Request{}, fmt.Errorf("invalid JSON body")
		}
		req.Body = body
	}

	return req, nil
}

func hasJSONBody(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent; nothing more to do.
		return
	}
}
