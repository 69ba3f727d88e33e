package postgres

import (
	"context"
	"database/sql"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/rbac"
)

type RolesRepo struct {
	db *sql.DB
}

func NewRolesRepo(db *sql.DB) *RolesRepo {
	return &RolesRepo{db: db}
}

// Create inserta el rol y sus permisos en una transacción.
func (r *RolesRepo) Create(ctx context.Context, role rbac.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO roles (id, name, description, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, role.ID, role.Name, role.Description, string(role.Status), role.CreatedAt, role.UpdatedAt); err != nil {
		return translateErr(err, "ya existe un rol llamado "+role.Name)
	}

	for _, perm := range role.Permissions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO role_permissions (role_id, permission)
			VALUES ($1, $2)
		`, role.ID, perm); err != nil {
			return translateErr(err, "el permiso "+perm+" ya está asignado al rol")
		}
	}

	return tx.Commit()
}

func (r *RolesRepo) GetByID(ctx context.Context, id string) (rbac.Role, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, status, created_at, updated_at
		FROM roles
		WHERE id = $1
	`, id)
	return r.scanRole(ctx, row, id)
}

func (r *RolesRepo) GetByName(ctx context.Context, name string) (rbac.Role, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, status, created_at, updated_at
		FROM roles
		WHERE name = $1
	`, name)
	return r.scanRole(ctx, row, name)
}

func (r *RolesRepo) List(ctx context.Context) ([]rbac.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, status, created_at, updated_at
		FROM roles
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]rbac.Role, 0)
	for rows.Next() {
		var role rbac.Role
		var status string
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &status, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		role.Status = rbac.Status(status)
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		perms, err := r.permissionsOf(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Permissions = perms
	}
	return out, nil
}

// Update reescribe la fila del rol y, si replacePermissions, reemplaza
// el set completo (DELETE + INSERT) dentro de la misma transacción.
func (r *RolesRepo) Update(ctx context.Context, role rbac.Role, replacePermissions bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE roles
		SET name = $2, description = $3, status = $4, updated_at = $5
		WHERE id = $1
	`, role.ID, role.Name, role.Description, string(role.Status), role.UpdatedAt)
	if err != nil {
		return translateErr(err, "ya existe un rol llamado "+role.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("rol " + role.ID + " no encontrado")
	}

	if replacePermissions {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM role_permissions WHERE role_id = $1
		`, role.ID); err != nil {
			return err
		}
		for _, perm := range role.Permissions {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO role_permissions (role_id, permission)
				VALUES ($1, $2)
			`, role.ID, perm); err != nil {
				return translateErr(err, "el permiso "+perm+" ya está asignado al rol")
			}
		}
	}

	return tx.Commit()
}

func (r *RolesRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM role_permissions WHERE role_id = $1
	`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return translateErr(err, "el rol todavía tiene usuarios asignados")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("rol " + id + " no encontrado")
	}

	return tx.Commit()
}

func (r *RolesRepo) scanRole(ctx context.Context, row *sql.Row, ref string) (rbac.Role, error) {
	var role rbac.Role
	var status string
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &status, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return rbac.Role{}, apperrors.NotFound("rol " + ref + " no encontrado")
		}
		return rbac.Role{}, err
	}
	role.Status = rbac.Status(status)

	perms, err := r.permissionsOf(ctx, role.ID)
	if err != nil {
		return rbac.Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

func (r *RolesRepo) permissionsOf(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT permission
		FROM role_permissions
		WHERE role_id = $1
		ORDER BY permission ASC
	`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
