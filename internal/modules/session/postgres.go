package session

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context, shop string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, shop, access_token, scopes, is_online, expires_at, created_at, updated_at
		FROM sessions WHERE shop=$1`, shop)

	s := &Session{}
	err := row.Scan(&s.ID, &s.Shop, &s.AccessToken, &s.Scopes, &s.IsOnline,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) Save(ctx context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = fmt.Sprintf("offline_%s", s.Shop)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, shop, access_token, scopes, is_online, expires_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		ON CONFLICT (shop) DO UPDATE SET
		  id=EXCLUDED.id, access_token=EXCLUDED.access_token, scopes=EXCLUDED.scopes,
		  is_online=EXCLUDED.is_online, expires_at=EXCLUDED.expires_at, updated_at=NOW()`,
		s.ID, s.Shop, s.AccessToken, s.Scopes, s.IsOnline, s.ExpiresAt)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, shop string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE shop=$1`, shop)
	return err
}

func (r *postgresRepo) AllShops(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT shop FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []string
	for rows.Next() {
		var shop string
		if err := rows.Scan(&shop); err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}
