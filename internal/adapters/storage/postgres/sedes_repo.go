package postgres

import (
	"context"
	"database/sql"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/sedes"
)

type SedesRepo struct {
	db *sql.DB
}

func NewSedesRepo(db *sql.DB) *SedesRepo {
	return &SedesRepo{db: db}
}

func (r *SedesRepo) Create(ctx context.Context, sd sedes.Sede) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sedes (id, name, address, city, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, sd.ID, sd.Name, sd.Address, sd.City, sd.CreatedAt, sd.UpdatedAt)
	return translateErr(err, "ya existe una sede llamada "+sd.Name)
}

func (r *SedesRepo) GetByID(ctx context.Context, id string) (sedes.Sede, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, address, city, created_at, updated_at
		FROM sedes
		WHERE id = $1
	`, id)

	var sd sedes.Sede
	if err := row.Scan(&sd.ID, &sd.Name, &sd.Address, &sd.City, &sd.CreatedAt, &sd.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return sedes.Sede{}, apperrors.NotFound("sede " + id + " no encontrada")
		}
		return sedes.Sede{}, err
	}
	return sd, nil
}

func (r *SedesRepo) List(ctx context.Context) ([]sedes.Sede, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, address, city, created_at, updated_at
		FROM sedes
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sedes.Sede, 0)
	for rows.Next() {
		var sd sedes.Sede
		if err := rows.Scan(&sd.ID, &sd.Name, &sd.Address, &sd.City, &sd.CreatedAt, &sd.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sd)
	}
	return out, rows.Err()
}

func (r *SedesRepo) Update(ctx context.Context, sd sedes.Sede) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sedes
		SET name = $2, address = $3, city = $4, updated_at = $5
		WHERE id = $1
	`, sd.ID, sd.Name, sd.Address, sd.City, sd.UpdatedAt)
	if err != nil {
		return translateErr(err, "ya existe una sede llamada "+sd.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("sede " + sd.ID + " no encontrada")
	}
	return nil
}

func (r *SedesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sedes WHERE id = $1`, id)
	if err != nil {
		return translateErr(err, "la sede todavía tiene ejemplares asignados")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("sede " + id + " no encontrada")
	}
	return nil
}
