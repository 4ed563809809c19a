package main

import (
	"context"
	"log/slog"
	"sync"
)

// Refresher is a Fetcher that can be told to refetch its cached payload.
type Refresher interface {
	Fetcher
	Refresh(ctx context.Context) (*Bootstrap, error)
}

// Dataset builds the player table once per fetched payload and hands the
// same table to every caller until the payload changes.
type Dataset struct {
	fetcher Fetcher
	schema  *Schema
	opts    BuildOptions
	logger  *slog.Logger

	mu     sync.Mutex
	source *Bootstrap
	table  *Table
}

func NewDataset(fetcher Fetcher, schema *Schema, opts BuildOptions) *Dataset {
	return &Dataset{
		fetcher: fetcher,
		schema:  schema,
		opts:    opts,
		logger:  slog.With(slog.String("service", "dataset")),
	}
}

func (d *Dataset) Table(ctx context.Context) (*Table, error) {
	b, err := d.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return d.tableFor(b), nil
}

// Refresh refetches the payload when the fetcher supports it and rebuilds
// the table.
func (d *Dataset) Refresh(ctx context.Context) (*Table, error) {
	r, ok := d.fetcher.(Refresher)
	if !ok {
		return d.Table(ctx)
	}
	b, err := r.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return d.tableFor(b), nil
}

// FetchedAt reports when the payload behind the current table was fetched.
func (d *Dataset) FetchedAt() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.source == nil || d.source.FetchedAt.IsZero() {
		return ""
	}
	return d.source.FetchedAt.Format("2006-01-02 15:04 MST")
}

func (d *Dataset) tableFor(b *Bootstrap) *Table {
	d.mu.Lock()
	defer d.mu.Unlock()

	if b == d.source && d.table != nil {
		return d.table
	}

	t := BuildTable(b, d.schema, d.opts)
	d.source, d.table = b, t

	d.logger.Info("Built player table",
		slog.Int("players", len(b.Elements)),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns)),
		slog.Int("issues", len(t.Issues)))
	logIssues(d.logger, t.Issues)
	return t
}
