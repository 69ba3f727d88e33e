package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/care"
)

type CareRepo struct {
	db *sql.DB
}

func NewCareRepo(db *sql.DB) *CareRepo {
	return &CareRepo{db: db}
}

const careColumns = `
	id, specimen_id, kind, name, dose, frequency, status,
	scheduled_at, applied_at, notes,
	created_at, updated_at
`

func (r *CareRepo) Create(ctx context.Context, rec care.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_records (
			id, specimen_id, kind, name, dose, frequency, status,
			scheduled_at, applied_at, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		rec.ID,
		rec.SpecimenID,
		string(rec.Kind),
		rec.Name,
		rec.Dose,
		rec.Frequency,
		string(rec.Status),
		rec.ScheduledAt,
		toNullDate(rec.AppliedAt),
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return translateErr(err, "el ejemplar ya tiene registrado "+rec.Name+" como "+string(rec.Kind))
}

func (r *CareRepo) GetByID(ctx context.Context, id string) (care.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+careColumns+`
		FROM care_records
		WHERE id = $1
	`, id)

	rec, err := scanCareRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return care.Record{}, apperrors.NotFound("cuidado " + id + " no encontrado")
		}
		return care.Record{}, err
	}
	return rec, nil
}

func (r *CareRepo) ListBySpecimen(ctx context.Context, specimenID string, kind care.Kind) ([]care.Record, error) {
	query := `
		SELECT ` + careColumns + `
		FROM care_records
		WHERE specimen_id = $1
	`
	args := []any{specimenID}
	if kind != "" {
		args = append(args, string(kind))
		query += ` AND kind = $2`
	}
	query += ` ORDER BY scheduled_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]care.Record, 0)
	for rows.Next() {
		rec, err := scanCareRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Update persiste los campos descriptivos; estado y applied_at se
// cambian por UpdateStatus.
func (r *CareRepo) Update(ctx context.Context, rec care.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE care_records
		SET
			name = $2,
			dose = $3,
			frequency = $4,
			scheduled_at = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		rec.ID,
		rec.Name,
		rec.Dose,
		rec.Frequency,
		rec.ScheduledAt,
		rec.Notes,
		rec.UpdatedAt,
	)
	if err != nil {
		return translateErr(err, "el ejemplar ya tiene registrado "+rec.Name+" como "+string(rec.Kind))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("cuidado " + rec.ID + " no encontrado")
	}
	return nil
}

// UpdateStatus aplica la transición condicional sobre el estado actual.
func (r *CareRepo) UpdateStatus(ctx context.Context, id string, from, to care.Status, appliedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE care_records
		SET status = $3, applied_at = $4, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to), toNullDate(appliedAt))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM care_records WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("cuidado " + id + " no encontrado")
		}
		return apperrors.Conflict("el cuidado ya no está en estado " + string(from))
	}
	return nil
}

func (r *CareRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM care_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("cuidado " + id + " no encontrado")
	}
	return nil
}

func scanCareRecord(scan scanFunc) (care.Record, error) {
	var rec care.Record
	var kind, status string
	var applied sql.NullTime
	if err := scan(
		&rec.ID, &rec.SpecimenID, &kind, &rec.Name, &rec.Dose, &rec.Frequency, &status,
		&rec.ScheduledAt, &applied, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return care.Record{}, err
	}
	rec.Kind = care.Kind(kind)
	rec.Status = care.Status(status)
	rec.AppliedAt = fromNullTime(applied)
	return rec, nil
}
