package sqlite

import (
	"context"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

type providersRepo struct {
	db dbtx
}

func (r *providersRepo) GetProviderByID(ctx context.Context, id string) (domain.Provider, error) {
	var p domain.Provider
	err := r.db.QueryRowContext(ctx, `SELECT id, client_id FROM providers WHERE id = ?`, id).
		Scan(&p.ID, &p.ClientID)
	if err != nil {
		return domain.Provider{}, mapNotFound(err)
	}
	return p, nil
}

func (r *providersRepo) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, client_id FROM providers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Provider
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.ClientID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *providersRepo) UpsertProvider(ctx context.Context, p domain.Provider) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO providers (id, client_id) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET client_id = excluded.client_id`,
		p.ID, p.ClientID,
	)
	return err
}
