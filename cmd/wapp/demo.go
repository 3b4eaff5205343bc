package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wappdev/wapp/core/container"
	"github.com/wappdev/wapp/core/crud"
	"github.com/wappdev/wapp/core/schema"
	"github.com/wappdev/wapp/core/storage"
)

// userModel is the demo user resource.
var userModel = schema.Model{
	Slug: "user",
	Name: "User",
	Fields: map[string]schema.Field{
		"name":     {Type: schema.FieldTypeString, Required: true},
		"email":    {Type: schema.FieldTypeEmail, Required: true, Unique: true},
		"password": {Type: schema.FieldTypeSecret, Required: true},
		"role":     {Type: schema.FieldTypeEnum, Values: []string{"admin", "member"}, Default: "member"},
	},
}

// noteModel is the demo note resource.
var noteModel = schema.Model{
	Slug: "note",
	Name: "Note",
	Fields: map[string]schema.Field{
		"title":  {Type: schema.FieldTypeString, Required: true},
		"body":   {Type: schema.FieldTypeString},
		"pinned": {Type: schema.FieldTypeBool, Default: false},
	},
}

// demoTree declares the demo container tree:
//
//	GET  /health
//	CRUD /users/user/...            (all five actions)
//	GET  /notes/note/               (list)
//	POST /notes/note/               (create)
//	GET  /notes/note/{id}           (custom get)
func demoTree(store storage.Store) (*container.Container, error) {
	root := container.New()
	if err := root.AddEndpoint("health", healthHandler()); err != nil {
		return nil, err
	}

	users := container.New()
	if err := users.AddModel("user", userModel, schema.CRUD()); err != nil {
		return nil, err
	}
	if err := root.Mount("users", users); err != nil {
		return nil, err
	}

	notes := container.New()
	err := notes.AddModel("note", noteModel, schema.Actions(map[schema.Action]schema.ActionOverride{
		schema.ActionList:   schema.Enabled,
		schema.ActionCreate: schema.Enabled,
		schema.ActionGet:    schema.Custom(noteGetHandler(store)),
	}))
	if err != nil {
		return nil, err
	}
	if err := root.Mount("notes", notes); err != nil {
		return nil, err
	}

	return root, nil
}

func healthHandler() schema.Handler {
	return schema.NewHandler(schema.Meta{
		Method:      "GET",
		Pattern:     "/health",
		Name:        "Health",
		Description: "Liveness probe",
		ResponseSchema: &schema.DocSchema{
			Type:       "object",
			Properties: map[string]*schema.DocSchema{"status": {Type: "string"}},
		},
	}, func(ctx context.Context, req schema.Request) schema.Result {
		return schema.Result{Payload: map[string]any{"status": "ok"}}
	})
}

// noteGetHandler replaces the default get action for notes: same route
// shape, but the response carries the fetch time.
func noteGetHandler(store storage.Store) schema.Handler {
	return schema.NewHandler(schema.Meta{
		Method:         "GET",
		Pattern:        "/note/{id}",
		Name:           "Note Get",
		Description:    "Fetch a note with fetch-time metadata",
		ResponseSchema: schema.ModelResponseSchema(noteModel),
	}, func(ctx context.Context, req schema.Request) schema.Result {
		rec, err := store.Get(ctx, noteModel.TableName(), req.Path["id"])
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return schema.Result{Payload: schema.ErrorPayload("not found"), Status: http.StatusNotFound}
			}
			return schema.Result{Payload: schema.ErrorPayload("internal error"), Status: http.StatusInternalServerError}
		}
		out := crud.Project(noteModel, rec)
		out["fetched_at"] = time.Now().UTC().Format(time.RFC3339)
		return schema.Result{Payload: out}
	})
}
