package postgres

import (
	"context"
	"database/sql"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, username, email, full_name, password_hash, role_id, status,
	created_at, updated_at
`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, email, full_name, password_hash, role_id, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.RoleID, string(u.Status),
		u.CreatedAt, u.UpdatedAt,
	)
	return translateErr(err, "ya existe un usuario con ese username o email")
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row, id)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username)
	return scanUser(row, username)
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		var status string
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.RoleID, &status,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u.Status = users.Status(status)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			email = $2,
			full_name = $3,
			role_id = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1
	`,
		u.ID, u.Email, u.FullName, u.RoleID, string(u.Status),
		u.UpdatedAt,
	)
	if err != nil {
		return translateErr(err, "ya existe un usuario con ese email")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("usuario " + u.ID + " no encontrado")
	}
	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("usuario " + id + " no encontrado")
	}
	return nil
}

func (r *UsersRepo) CreateResetToken(ctx context.Context, t users.ResetToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (token, user_id, expires_at, used_at, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, t.Token, t.UserID, t.ExpiresAt, toNullDate(t.UsedAt), t.CreatedAt)
	return translateErr(err, "el token de recuperación ya existe")
}

func (r *UsersRepo) GetResetToken(ctx context.Context, token string) (users.ResetToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token, user_id, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token = $1
	`, token)

	var t users.ResetToken
	var used sql.NullTime
	if err := row.Scan(&t.Token, &t.UserID, &t.ExpiresAt, &used, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return users.ResetToken{}, apperrors.NotFound("token de recuperación no encontrado")
		}
		return users.ResetToken{}, err
	}
	t.UsedAt = fromNullTime(used)
	return t, nil
}

// ConsumeResetToken marca el token y cambia el hash en una transacción.
// La condición used_at IS NULL arbitra dos consumos concurrentes: solo
// uno afecta la fila, el otro recibe Conflict.
func (r *UsersRepo) ConsumeResetToken(ctx context.Context, token string, newHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `
		UPDATE password_reset_tokens
		SET used_at = now()
		WHERE token = $1 AND used_at IS NULL
		RETURNING user_id
	`, token).Scan(&userID)
	if err == sql.ErrNoRows {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM password_reset_tokens WHERE token = $1)`, token,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("token de recuperación no encontrado")
		}
		return apperrors.Conflict("el token de recuperación ya fue usado")
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`, userID, newHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("usuario " + userID + " no encontrado")
	}

	return tx.Commit()
}

func scanUser(row *sql.Row, ref string) (users.User, error) {
	var u users.User
	var status string
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.RoleID, &status,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, apperrors.NotFound("usuario " + ref + " no encontrado")
		}
		return users.User{}, err
	}
	u.Status = users.Status(status)
	return u, nil
}
