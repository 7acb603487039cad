package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docdash/internal/model"
	"docdash/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const columns = `id, name, type, summary, uploaded_date, last_viewed, file_url`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (model.Document, error) {
	var (
		d          model.Document
		lastViewed sql.NullTime
	)
	if err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Type,
		&d.Summary,
		&d.UploadedDate,
		&lastViewed,
		&d.FileURL,
	); err != nil {
		return model.Document{}, err
	}
	d.UploadedDate = d.UploadedDate.UTC()
	if lastViewed.Valid {
		lv := lastViewed.Time.UTC()
		d.LastViewed = &lv
	}
	return d, nil
}

// ListAll returns every document in insertion (position) order.
func (r *DocumentPostgres) ListAll(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT ` + columns + `
		FROM dashboard_documents
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkViewed updates last_viewed and returns the updated row.
func (r *DocumentPostgres) MarkViewed(ctx context.Context, id string, at time.Time) (*model.Document, error) {
	// A single-row UPDATE takes the row lock, which serializes concurrent calls per ID.
	const q = `
		UPDATE dashboard_documents
		SET last_viewed = $2
		WHERE id = $1
		RETURNING ` + columns + `
	`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Ping checks database connectivity.
func (r *DocumentPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SeedIfEmpty inserts docs in order when the table has no rows. It returns the number inserted.
func (r *DocumentPostgres) SeedIfEmpty(ctx context.Context, docs []model.Document) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dashboard_documents`).Scan(&total); err != nil {
		return 0, err
	}
	if total > 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO dashboard_documents (id, name, type, summary, uploaded_date, last_viewed, file_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, d := range docs {
		var lastViewed sql.NullTime
		if d.LastViewed != nil {
			lastViewed = sql.NullTime{Time: *d.LastViewed, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, q,
			d.ID,
			d.Name,
			d.Type,
			d.Summary,
			d.UploadedDate,
			lastViewed,
			d.FileURL,
		); err != nil {
			return 0, fmt.Errorf("insert document %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(docs), nil
}
