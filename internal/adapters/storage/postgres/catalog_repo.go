package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/catalog"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const serviceColumns = `
	id, name, description, price, image_url, status,
	created_at, updated_at
`

func (r *CatalogRepo) Create(ctx context.Context, sv catalog.Service) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (
			id, name, description, price, image_url, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		sv.ID, sv.Name, sv.Description, sv.Price, sv.ImageURL, string(sv.Status),
		sv.CreatedAt, sv.UpdatedAt,
	)
	return translateErr(err, "ya existe un servicio llamado "+sv.Name)
}

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (catalog.Service, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)

	var sv catalog.Service
	var status string
	if err := row.Scan(
		&sv.ID, &sv.Name, &sv.Description, &sv.Price, &sv.ImageURL, &status,
		&sv.CreatedAt, &sv.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Service{}, apperrors.NotFound("servicio " + id + " no encontrado")
		}
		return catalog.Service{}, err
	}
	sv.Status = catalog.Status(status)
	return sv, nil
}

func (r *CatalogRepo) List(ctx context.Context, f catalog.ListFilter) ([]catalog.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
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

	out := make([]catalog.Service, 0)
	for rows.Next() {
		var sv catalog.Service
		var status string
		if err := rows.Scan(
			&sv.ID, &sv.Name, &sv.Description, &sv.Price, &sv.ImageURL, &status,
			&sv.CreatedAt, &sv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sv.Status = catalog.Status(status)
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) Update(ctx context.Context, sv catalog.Service) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services
		SET
			name = $2,
			description = $3,
			price = $4,
			image_url = $5,
			status = $6,
			updated_at = $7
		WHERE id = $1
	`,
		sv.ID, sv.Name, sv.Description, sv.Price, sv.ImageURL, string(sv.Status),
		sv.UpdatedAt,
	)
	if err != nil {
		return translateErr(err, "ya existe un servicio llamado "+sv.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("servicio " + sv.ID + " no encontrado")
	}
	return nil
}

func (r *CatalogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return translateErr(err, "el servicio está asociado a contratos vigentes")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("servicio " + id + " no encontrado")
	}
	return nil
}

// Missing devuelve los IDs pedidos que no existen en el catálogo,
// preservando el orden de entrada.
func (r *CatalogRepo) Missing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + itoa(i+1)
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM services WHERE id IN (`+strings.Join(placeholders, ",")+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
