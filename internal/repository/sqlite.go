package repository

import (
	"context"
	"database/sql"

	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/sqlerr"
)

// SQLiteMusicianRepository stores musicians in the SQLite musicians table
// created by database.OpenSQLite.
type SQLiteMusicianRepository struct {
	db *sql.DB
}

func NewSQLiteMusicianRepository(db *sql.DB) *SQLiteMusicianRepository {
	return &SQLiteMusicianRepository{db: db}
}

const (
	sqliteListMusicians = `SELECT document FROM musicians ORDER BY id`

	sqliteGetMusician = `SELECT document FROM musicians WHERE id = ?`

	sqlitePutMusician = `
		INSERT INTO musicians (id, document)
		VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE
		SET document = excluded.document,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

	sqliteDeleteMusician = `DELETE FROM musicians WHERE id = ?`
)

func (r *SQLiteMusicianRepository) GetMusicians(ctx context.Context) ([]musician.Musician, error) {
	rows, err := r.db.QueryContext(ctx, sqliteListMusicians)
	if err != nil {
		return nil, sqlerr.HandleError("list", "", err)
	}
	defer rows.Close()

	out := []musician.Musician{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, sqlerr.HandleError("list", "", err)
		}
		out = append(out, musician.Musician(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, sqlerr.HandleError("list", "", err)
	}
	return out, nil
}

func (r *SQLiteMusicianRepository) GetMusician(ctx context.Context, id string) (musician.Musician, error) {
	var doc string
	if err := r.db.QueryRowContext(ctx, sqliteGetMusician, id).Scan(&doc); err != nil {
		return nil, sqlerr.HandleError("get", id, err)
	}
	return musician.Musician(doc), nil
}

func (r *SQLiteMusicianRepository) PutMusician(ctx context.Context, id string, body musician.Musician) (string, error) {
	if _, err := r.db.ExecContext(ctx, sqlitePutMusician, id, string(body)); err != nil {
		return "", sqlerr.HandleError("put", id, err)
	}
	return id, nil
}

func (r *SQLiteMusicianRepository) DeleteMusician(ctx context.Context, id string) (string, error) {
	res, err := r.db.ExecContext(ctx, sqliteDeleteMusician, id)
	if err != nil {
		return "", sqlerr.HandleError("delete", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", sqlerr.HandleError("delete", id, err)
	}
	if n == 0 {
		return "", musician.NotFound("delete", id)
	}
	return id, nil
}

func (r *SQLiteMusicianRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
