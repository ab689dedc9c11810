package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.DisplayName,
		a.PasswordHash,
		a.Email,
		int(a.Role),
		int(a.Status),
		a.Provider,
		formatTime(a.CreatedAt),
		mapOptionalTime(a.LastLoginAt),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) SaveAccount(ctx context.Context, a domain.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET display_name = ?, password_hash = ?, email = ?, role_id = ?, status_id = ?,
		    provider_id = ?, last_login_at = ?
		WHERE id = ?`,
		a.DisplayName,
		a.PasswordHash,
		a.Email,
		int(a.Role),
		int(a.Status),
		a.Provider,
		mapOptionalTime(a.LastLoginAt),
		a.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *accountsRepo) ListAccounts(
	ctx context.Context,
	filter store.AccountFilter,
	page domain.PageRequest,
) ([]domain.Account, int64, error) {
	where, args := filterClause(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts`+where+` ORDER BY id LIMIT ? OFFSET ?`,
		append(args, page.Size, page.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *accountsRepo) ListAll(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func filterClause(filter store.AccountFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != nil {
		conds = append(conds, "status_id = ?")
		args = append(args, int(*filter.Status))
	}
	if filter.Role != nil {
		conds = append(conds, "role_id = ?")
		args = append(args, int(*filter.Role))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type accountRows interface {
	rowScanner
	Next() bool
	Err() error
}

func collectAccounts(rows accountRows) ([]domain.Account, error) {
	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireAffected(res rowsAffected) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
