package reviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cv-review/internal/review"
	"cv-review/internal/shared/storage/db"
)

// SQLRepo implements Repo on Postgres or SQLite.
type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

const reviewColumns = `id, file_name, size_bytes, storage_key, page_count, state, error_kind, error_message, provider, model, prompt_hash, response_text, sections, cache_hit, created_at, completed_at`

// Create inserts a new review.
func (r *SQLRepo) Create(ctx context.Context, rev Review) error {
	query := `
INSERT INTO reviews (` + reviewColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	sections, err := encodeSections(rev.Sections)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, r.rebind(query),
		rev.ID,
		rev.FileName,
		rev.SizeBytes,
		nullString(rev.StorageKey),
		rev.PageCount,
		string(rev.State),
		nullString(string(rev.ErrorKind)),
		nullString(rev.ErrorMessage),
		nullString(rev.Provider),
		nullString(rev.Model),
		nullString(rev.PromptHash),
		nullString(rev.ResponseText),
		sections,
		rev.CacheHit,
		rev.CreatedAt,
		nullTime(rev.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a review.
func (r *SQLRepo) Update(ctx context.Context, rev Review) error {
	const query = `
UPDATE reviews
SET storage_key = $1, page_count = $2, state = $3, error_kind = $4, error_message = $5,
    provider = $6, model = $7, prompt_hash = $8, response_text = $9, sections = $10,
    cache_hit = $11, completed_at = $12
WHERE id = $13`

	sections, err := encodeSections(rev.Sections)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, r.rebind(query),
		nullString(rev.StorageKey),
		rev.PageCount,
		string(rev.State),
		nullString(string(rev.ErrorKind)),
		nullString(rev.ErrorMessage),
		nullString(rev.Provider),
		nullString(rev.Model),
		nullString(rev.PromptHash),
		nullString(rev.ResponseText),
		sections,
		rev.CacheHit,
		nullTime(rev.CompletedAt),
		rev.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a review by id.
func (r *SQLRepo) GetByID(ctx context.Context, id string) (Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	rev, err := scanReview(r.DB.QueryRowContext(ctx, r.rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	return rev, nil
}

// List returns reviews newest first.
func (r *SQLRepo) List(ctx context.Context, limit, offset int) ([]Review, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, r.rebind(query), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (Review, error) {
	var (
		rev          Review
		state        string
		storageKey   sql.NullString
		errorKind    sql.NullString
		errorMessage sql.NullString
		provider     sql.NullString
		model        sql.NullString
		promptHash   sql.NullString
		responseText sql.NullString
		sections     sql.NullString
		completedAt  sql.NullTime
	)
	if err := row.Scan(
		&rev.ID,
		&rev.FileName,
		&rev.SizeBytes,
		&storageKey,
		&rev.PageCount,
		&state,
		&errorKind,
		&errorMessage,
		&provider,
		&model,
		&promptHash,
		&responseText,
		&sections,
		&rev.CacheHit,
		&rev.CreatedAt,
		&completedAt,
	); err != nil {
		return Review{}, err
	}
	rev.State = State(state)
	rev.StorageKey = storageKey.String
	rev.ErrorKind = ErrorKind(errorKind.String)
	rev.ErrorMessage = errorMessage.String
	rev.Provider = provider.String
	rev.Model = model.String
	rev.PromptHash = promptHash.String
	rev.ResponseText = responseText.String
	if completedAt.Valid {
		t := completedAt.Time
		rev.CompletedAt = &t
	}
	if sections.Valid && sections.String != "" {
		var s review.Sections
		if err := json.Unmarshal([]byte(sections.String), &s); err != nil {
			return Review{}, fmt.Errorf("decode sections: %w", err)
		}
		rev.Sections = &s
	}
	return rev, nil
}

// rebind rewrites $n placeholders to ? for SQLite.
func (r *SQLRepo) rebind(query string) string {
	if r.Dialect != db.DialectSQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			if j > i+1 {
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func encodeSections(s *review.Sections) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode sections: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ Repo = (*SQLRepo)(nil)
