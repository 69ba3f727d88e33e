package postgres

import (
	"context"
	"database/sql"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/categories"
)

type CategoriesRepo struct {
	db *sql.DB
}

func NewCategoriesRepo(db *sql.DB) *CategoriesRepo {
	return &CategoriesRepo{db: db}
}

func (r *CategoriesRepo) Create(ctx context.Context, c categories.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, c.Name, string(c.Status), c.CreatedAt, c.UpdatedAt)
	return translateErr(err, "ya existe una categoría llamada "+c.Name)
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (categories.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id)
	return scanCategory(row, id)
}

func (r *CategoriesRepo) GetByName(ctx context.Context, name string) (categories.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM categories
		WHERE name = $1
	`, name)
	return scanCategory(row, name)
}

func (r *CategoriesRepo) List(ctx context.Context, f categories.ListFilter) ([]categories.Category, error) {
	query := `
		SELECT id, name, status, created_at, updated_at
		FROM categories
	`
	args := []any{}
	if f.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]categories.Category, 0)
	for rows.Next() {
		var c categories.Category
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Status = categories.Status(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoriesRepo) Update(ctx context.Context, c categories.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $2, status = $3, updated_at = $4
		WHERE id = $1
	`, c.ID, c.Name, string(c.Status), c.UpdatedAt)
	if err != nil {
		return translateErr(err, "ya existe una categoría llamada "+c.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("categoría " + c.ID + " no encontrada")
	}
	return nil
}

func (r *CategoriesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return translateErr(err, "la categoría todavía tiene ejemplares asignados")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("categoría " + id + " no encontrada")
	}
	return nil
}

func scanCategory(row *sql.Row, ref string) (categories.Category, error) {
	var c categories.Category
	var status string
	if err := row.Scan(&c.ID, &c.Name, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return categories.Category{}, apperrors.NotFound("categoría " + ref + " no encontrada")
		}
		return categories.Category{}, err
	}
	c.Status = categories.Status(status)
	return c, nil
}
