package main

import (
	"github.com/oxhq/codegraph/db"
	"github.com/oxhq/codegraph/generate"
	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/migrate"
	"github.com/oxhq/codegraph/parser"
	"github.com/oxhq/codegraph/parser/frontends"
	"github.com/oxhq/codegraph/template"
	"github.com/oxhq/codegraph/template/languages"
	"github.com/oxhq/codegraph/validate"
)

// deps bundles the wiring every subcommand but migrate-schema needs: a
// connected store, the default template engine, the default parser
// registry, and the validator/generator built on top of them.
type deps struct {
	store     *graph.Store
	engine    *template.Engine
	registry  *parser.Registry
	validator *validate.Validator
	generator *generate.Generator
}

func connect() (*deps, error) {
	gdb, err := db.Connect(dsn, debug)
	if err != nil {
		return nil, err
	}
	store := graph.New(gdb)
	engine := languages.NewDefaultEngine()
	registry := frontends.NewDefaultRegistry()
	return &deps{
		store:     store,
		engine:    engine,
		registry:  registry,
		validator: validate.New(store, engine, registry),
		generator: generate.New(store, engine, nil),
	}, nil
}

// manager builds a fresh migrate.Manager from this deps bundle. It is
// cheap (no I/O) so callers construct one per invocation rather than
// carrying it in deps itself.
func (d *deps) manager() *migrate.Manager {
	return migrate.New(d.store, d.validator, d.generator)
}
