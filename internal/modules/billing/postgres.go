package billing

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByShop(ctx context.Context, shop string) (*Subscription, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, shop, plan_name, status, charge_id, activated_at, expires_at, trial_ends_at
		FROM subscriptions WHERE shop=$1`, shop)

	sub := &Subscription{}
	var chargeID sql.NullString
	err := row.Scan(&sub.ID, &sub.Shop, &sub.PlanName, &sub.Status, &chargeID,
		&sub.ActivatedAt, &sub.ExpiresAt, &sub.TrialEndsAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, err
	}
	sub.ChargeID = chargeID.String
	return sub, nil
}

func (r *postgresRepo) Save(ctx context.Context, sub *Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, shop, plan_name, status, charge_id, activated_at, expires_at, trial_ends_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (shop) DO UPDATE SET
		  plan_name=EXCLUDED.plan_name, status=EXCLUDED.status, charge_id=EXCLUDED.charge_id,
		  activated_at=EXCLUDED.activated_at, expires_at=EXCLUDED.expires_at, trial_ends_at=EXCLUDED.trial_ends_at`,
		sub.ID, sub.Shop, sub.PlanName, sub.Status, sub.ChargeID,
		sub.ActivatedAt, sub.ExpiresAt, sub.TrialEndsAt)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, shop string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE shop=$1`, shop)
	return err
}
