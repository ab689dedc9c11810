package sqlite

import (
	"context"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

type referencesRepo struct {
	db dbtx
}

func (r *referencesRepo) ListRoles(ctx context.Context) ([]domain.Reference, error) {
	return r.list(ctx, `SELECT id, name FROM roles ORDER BY id`)
}

func (r *referencesRepo) ListStatuses(ctx context.Context) ([]domain.Reference, error) {
	return r.list(ctx, `SELECT id, name FROM statuses ORDER BY id`)
}

func (r *referencesRepo) UpsertRole(ctx context.Context, ref domain.Reference) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		ref.ID, ref.Name,
	)
	return mapConstraint(err)
}

func (r *referencesRepo) UpsertStatus(ctx context.Context, ref domain.Reference) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO statuses (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		ref.ID, ref.Name,
	)
	return mapConstraint(err)
}

func (r *referencesRepo) list(ctx context.Context, query string) ([]domain.Reference, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reference
	for rows.Next() {
		var ref domain.Reference
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}
