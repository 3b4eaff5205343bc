// Package crud provides the generic auto-generated handlers for the five
// canonical actions. A handler binds one model and one action to the
// record store; its metadata comes from the canonical action table so it
// is identical to what the resolver advertises.
package crud

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	gschema "github.com/gorilla/schema"
	"github.com/rs/zerolog"
	"github.com/wappdev/wapp/core/resolve"
	"github.com/wappdev/wapp/core/schema"
	"github.com/wappdev/wapp/core/storage"
	"golang.org/x/crypto/bcrypt"
)

// Binder adapts a store into the resolver's CRUD handler factory.
// The logger receives the detail of unexpected storage failures; clients
// only ever see a generic message.
func Binder(store storage.Store, logger zerolog.Logger) resolve.CRUDBinder {
	return func(m schema.Model, action schema.Action) schema.Handler {
		return newHandler(store, m, action, logger)
	}
}

// New creates the generic handler for one model and action.
// Returns nil for unknown actions.
func New(store storage.Store, m schema.Model, action schema.Action) schema.Handler {
	return newHandler(store, m, action, zerolog.Nop())
}

func newHandler(store storage.Store, m schema.Model, action schema.Action, logger zerolog.Logger) schema.Handler {
	meta, ok := schema.CRUDMeta(m, action)
	if !ok {
		return nil
	}
	return &handler{
		store:  store,
		model:  m,
		action: action,
		meta:   meta,
		logger: logger.With().Str("component", "crud").Logger(),
	}
}

type handler struct {
	store  storage.Store
	model  schema.Model
	action schema.Action
	meta   schema.Meta
	logger zerolog.Logger
}

func (h *handler) Meta() schema.Meta { return h.meta }

func (h *handler) Handle(ctx context.Context, req schema.Request) schema.Result {
	switch h.action {
	case schema.ActionList:
		return h.list(ctx, req)
	case schema.ActionGet:
		return h.get(ctx, req)
	case schema.ActionCreate:
		return h.create(ctx, req)
	case schema.ActionUpdate:
		return h.update(ctx, req)
	case schema.ActionDelete:
		return h.delete(ctx, req)
	}
	return schema.Result{Payload: schema.ErrorPayload("unknown action"), Status: http.StatusInternalServerError}
}

// listQuery are the recognized list query parameters.
type listQuery struct {
	Limit   int    `schema:"limit"`
	Offset  int    `schema:"offset"`
	OrderBy string `schema:"order_by"`
	Desc    bool   `schema:"desc"`
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *gschema.Decoder {
	d := gschema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func (h *handler) list(ctx context.Context, req schema.Request) schema.Result {
	var q listQuery
	values := make(url.Values, len(req.Query))
	for k, v := range req.Query {
		values.Set(k, v)
	}
	if err := queryDecoder.Decode(&q, values); err != nil {
		return schema.Result{Payload: schema.ErrorPayload("invalid query parameters"), Status: http.StatusBadRequest}
	}

	// order_by names a column, which cannot travel as a bind parameter;
	// anything outside the model's columns is rejected before it can
	// reach query assembly.
	if q.OrderBy != "" && !storage.SortableColumn(h.model, q.OrderBy) {
		return schema.Result{Payload: schema.ErrorPayload("invalid order_by field"), Status: http.StatusBadRequest}
	}

	records, err := h.store.List(ctx, h.model.TableName(), storage.ListOptions{
		Limit:   q.Limit,
		Offset:  q.Offset,
		OrderBy: q.OrderBy,
		Desc:    q.Desc,
	})
	if err != nil {
		return h.storeFailure(err)
	}

	out := make([]storage.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, Project(h.model, rec))
	}
	return schema.Result{Payload: out}
}

func (h *handler) get(ctx context.Context, req schema.Request) schema.Result {
	id, ok := req.Path["id"]
	if !ok || id == "" {
		return schema.Result{Payload: schema.ErrorPayload("missing id"), Status: http.StatusBadRequest}
	}

	rec, err := h.store.Get(ctx, h.model.TableName(), id)
	if err != nil {
		return h.storeFailure(err)
	}
	return schema.Result{Payload: Project(h.model, rec)}
}

func (h *handler) create(ctx context.Context, req schema.Request) schema.Result {
	body := req.Body
	if body == nil {
		body = map[string]any{}
	}
	if problems := validateInput(h.model, body, true); len(problems) > 0 {
		return validationFailure(problems)
	}

	data, err := hashSecrets(h.model, body)
	if err != nil {
		h.logger.Error().Err(err).Str("table", h.model.TableName()).Msg("secret hashing failed")
		return schema.Result{Payload: schema.ErrorPayload("internal error"), Status: http.StatusInternalServerError}
	}

	id, err := h.store.Create(ctx, h.model.TableName(), data)
	if err != nil {
		return h.storeFailure(err)
	}

	rec, err := h.store.Get(ctx, h.model.TableName(), id)
	if err != nil {
		return h.storeFailure(err)
	}
	return schema.Result{Payload: Project(h.model, rec), Status: http.StatusCreated}
}

func (h *handler) update(ctx context.Context, req schema.Request) schema.Result {
	id, ok := req.Path["id"]
	if !ok || id == "" {
		return schema.Result{Payload: schema.ErrorPayload("missing id"), Status: http.StatusBadRequest}
	}

	body := req.Body
	if body == nil {
		body = map[string]any{}
	}
	if problems := validateInput(h.model, body, false); len(problems) > 0 {
		return validationFailure(problems)
	}

	data, err := hashSecrets(h.model, body)
	if err != nil {
		h.logger.Error().Err(err).Str("table", h.model.TableName()).Msg("secret hashing failed")
		return schema.Result{Payload: schema.ErrorPayload("internal error"), Status: http.StatusInternalServerError}
	}

	if err := h.store.Update(ctx, h.model.TableName(), id, data); err != nil {
		return h.storeFailure(err)
	}

	rec, err := h.store.Get(ctx, h.model.TableName(), id)
	if err != nil {
		return h.storeFailure(err)
	}
	return schema.Result{Payload: Project(h.model, rec)}
}

func (h *handler) delete(ctx context.Context, req schema.Request) schema.Result {
	id, ok := req.Path["id"]
	if !ok || id == "" {
		return schema.Result{Payload: schema.ErrorPayload("missing id"), Status: http.StatusBadRequest}
	}

	if err := h.store.Delete(ctx, h.model.TableName(), id); err != nil {
		return h.storeFailure(err)
	}
	return schema.Result{Payload: map[string]any{"deleted": true}}
}

// Project strips internal and secret fields from a record, producing the
// uniform dictionary projection exposed over the wire.
func Project(m schema.Model, rec storage.Record) storage.Record {
	out := make(storage.Record, len(rec))
	for k, v := range rec {
		if f, ok := m.Fields[k]; ok && (f.Internal || f.Type == schema.FieldTypeSecret) {
			continue
		}
		out[k] = v
	}
	return out
}

// hashSecrets bcrypt-hashes secret fields before they reach storage.
func hashSecrets(m schema.Model, body map[string]any) (storage.Record, error) {
	data := make(storage.Record, len(body))
	for k, v := range body {
		data[k] = v
	}
	for name, f := range m.Fields {
		if f.Type != schema.FieldTypeSecret {
			continue
		}
		raw, ok := data[name].(string)
		if !ok || raw == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		data[name] = string(hash)
	}
	return data, nil
}

// storeFailure maps storage errors to handled-failure results. Unexpected
// errors are logged with their detail; the response carries only a generic
// message so driver internals never leak to callers.
func (h *handler) storeFailure(err error) schema.Result {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return schema.Result{Payload: schema.ErrorPayload("not found"), Status: http.StatusNotFound}
	case errors.Is(err, storage.ErrDuplicate):
		return schema.Result{Payload: schema.ErrorPayload("already exists"), Status: http.StatusConflict}
	default:
		h.logger.Error().Err(err).
			Str("table", h.model.TableName()).
			Str("action", string(h.action)).
			Msg("storage failure")
		return schema.Result{Payload: schema.ErrorPayload("internal error"), Status: http.StatusInternalServerError}
	}
}

func validationFailure(problems map[string]string) schema.Result {
	return schema.Result{
		Payload: map[string]any{"error": "validation failed", "fields": problems},
		Status:  http.StatusBadRequest,
	}
}
