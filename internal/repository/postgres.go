package repository

import (
	"context"

	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMusicianRepository stores each musician as a JSONB row in the
// musicians table created by the migrations.
type PostgresMusicianRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMusicianRepository(pool *pgxpool.Pool) *PostgresMusicianRepository {
	return &PostgresMusicianRepository{pool: pool}
}

const (
	pgListMusicians = `SELECT document FROM musicians ORDER BY id`

	pgGetMusician = `SELECT document FROM musicians WHERE id = $1`

	pgPutMusician = `
		INSERT INTO musicians (id, document)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = now()
		RETURNING id`

	pgDeleteMusician = `DELETE FROM musicians WHERE id = $1 RETURNING id`
)

func (r *PostgresMusicianRepository) GetMusicians(ctx context.Context) ([]musician.Musician, error) {
	rows, err := r.pool.Query(ctx, pgListMusicians)
	if err != nil {
		return nil, sqlerr.HandleError("list", "", err)
	}

	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, sqlerr.HandleError("list", "", err)
	}

	out := make([]musician.Musician, len(docs))
	for i, doc := range docs {
		out[i] = doc
	}
	return out, nil
}

func (r *PostgresMusicianRepository) GetMusician(ctx context.Context, id string) (musician.Musician, error) {
	var doc []byte
	if err := r.pool.QueryRow(ctx, pgGetMusician, id).Scan(&doc); err != nil {
		return nil, sqlerr.HandleError("get", id, err)
	}
	return doc, nil
}

func (r *PostgresMusicianRepository) PutMusician(ctx context.Context, id string, body musician.Musician) (string, error) {
	var written string
	if err := r.pool.QueryRow(ctx, pgPutMusician, id, []byte(body)).Scan(&written); err != nil {
		return "", sqlerr.HandleError("put", id, err)
	}
	return written, nil
}

func (r *PostgresMusicianRepository) DeleteMusician(ctx context.Context, id string) (string, error) {
	var deleted string
	if err := r.pool.QueryRow(ctx, pgDeleteMusician, id).Scan(&deleted); err != nil {
		return "", sqlerr.HandleError("delete", id, err)
	}
	return deleted, nil
}

func (r *PostgresMusicianRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
