package feedcache

import (
	"context"
	"database/sql"
	"time"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context, shop, format string, maxAge time.Duration) (*Entry, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT shop, format, content, products_count, variants_count, created_at
		FROM feed_cache
		WHERE shop=$1 AND format=$2 AND created_at > $3`,
		shop, format, time.Now().Add(-maxAge))

	e := &Entry{}
	err := row.Scan(&e.Shop, &e.Format, &e.Content, &e.ProductsCount, &e.VariantsCount, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *postgresRepo) Put(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed_cache (shop, format, content, products_count, variants_count, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (shop, format) DO UPDATE SET
		  content=EXCLUDED.content, products_count=EXCLUDED.products_count,
		  variants_count=EXCLUDED.variants_count, created_at=EXCLUDED.created_at`,
		e.Shop, e.Format, e.Content, e.ProductsCount, e.VariantsCount, e.CreatedAt)
	return err
}

func (r *postgresRepo) Invalidate(ctx context.Context, shop string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM feed_cache WHERE shop=$1`, shop)
	return err
}

func (r *postgresRepo) ListAll(ctx context.Context, shop string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT shop, format, content, products_count, variants_count, created_at
		FROM feed_cache WHERE shop=$1 ORDER BY created_at DESC`, shop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Shop, &e.Format, &e.Content, &e.ProductsCount, &e.VariantsCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
