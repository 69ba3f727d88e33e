package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/specimens"
)

type SpecimensRepo struct {
	db *sql.DB
}

func NewSpecimensRepo(db *sql.DB) *SpecimensRepo {
	return &SpecimensRepo{db: db}
}

const specimenColumns = `
	id, name, breed, color, birth_date,
	owner_id, category_id, sede_id, contract_id, identifier,
	created_at, updated_at
`

// Create inserta el ejemplar e incrementa el contador del dueño en la
// misma transacción. Si el UPDATE del contador no afecta filas, el
// dueño no existe y todo se revierte.
func (r *SpecimensRepo) Create(ctx context.Context, sp specimens.Specimen) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO specimens (
			id, name, breed, color, birth_date,
			owner_id, category_id, sede_id, contract_id, identifier,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		sp.ID,
		sp.Name,
		sp.Breed,
		sp.Color,
		toNullDate(sp.BirthDate),
		sp.OwnerID,
		sp.CategoryID,
		toNullString(sp.SedeID),
		toNullString(sp.ContractID),
		sp.Identifier,
		sp.CreatedAt,
		sp.UpdatedAt,
	); err != nil {
		return translateErr(err, "el ejemplar referencia un cliente, categoría o sede inexistente")
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE clients
		SET specimen_count = specimen_count + 1, updated_at = now()
		WHERE id = $1
	`, sp.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("cliente " + sp.OwnerID + " no encontrado")
	}

	return tx.Commit()
}

func (r *SpecimensRepo) GetByID(ctx context.Context, id string) (specimens.Specimen, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return specimens.Specimen{}, apperrors.NotFound("ejemplar no encontrado")
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+specimenColumns+`
		FROM specimens
		WHERE id = $1
	`, id)

	sp, err := scanSpecimen(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return specimens.Specimen{}, apperrors.NotFound("ejemplar " + id + " no encontrado")
		}
		return specimens.Specimen{}, err
	}
	return sp, nil
}

func (r *SpecimensRepo) List(ctx context.Context, f specimens.ListFilter) ([]specimens.Specimen, error) {
	query := `
		SELECT ` + specimenColumns + `
		FROM specimens
		WHERE 1=1
	`
	args := []any{}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		query += ` AND owner_id = $1`
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += ` AND category_id = $` + itoa(len(args))
	}
	if f.SedeID != "" {
		args = append(args, f.SedeID)
		query += ` AND sede_id = $` + itoa(len(args))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]specimens.Specimen, 0)
	for rows.Next() {
		sp, err := scanSpecimen(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Update persiste perfil y dueño. El cambio de dueño ajusta ambos
// contadores dentro de la transacción del update; contract_id,
// category_id y sede_id no aparecen en el SET.
func (r *SpecimensRepo) Update(ctx context.Context, sp specimens.Specimen) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var prevOwner string
	err = tx.QueryRowContext(ctx, `
		SELECT owner_id FROM specimens WHERE id = $1 FOR UPDATE
	`, sp.ID).Scan(&prevOwner)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("ejemplar " + sp.ID + " no encontrado")
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE specimens
		SET
			name = $2,
			breed = $3,
			color = $4,
			birth_date = $5,
			owner_id = $6,
			updated_at = $7
		WHERE id = $1
	`,
		sp.ID,
		sp.Name,
		sp.Breed,
		sp.Color,
		toNullDate(sp.BirthDate),
		sp.OwnerID,
		sp.UpdatedAt,
	); err != nil {
		return translateErr(err, "el nuevo dueño del ejemplar no existe")
	}

	if sp.OwnerID != prevOwner {
		if _, err := tx.ExecContext(ctx, `
			UPDATE clients
			SET specimen_count = specimen_count - 1, updated_at = now()
			WHERE id = $1
		`, prevOwner); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE clients
			SET specimen_count = specimen_count + 1, updated_at = now()
			WHERE id = $1
		`, sp.OwnerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NotFound("cliente " + sp.OwnerID + " no encontrado")
		}
	}

	return tx.Commit()
}

func (r *SpecimensRepo) Relocate(ctx context.Context, id string, categoryID *string, sedeID *string) error {
	set := make([]string, 0, 2)
	args := []any{id}
	if categoryID != nil {
		args = append(args, *categoryID)
		set = append(set, `category_id = $`+itoa(len(args)))
	}
	if sedeID != nil {
		if *sedeID == "" {
			set = append(set, `sede_id = NULL`)
		} else {
			args = append(args, *sedeID)
			set = append(set, `sede_id = $`+itoa(len(args)))
		}
	}
	if len(set) == 0 {
		return nil
	}

	query := `UPDATE specimens SET ` + strings.Join(set, ", ") + `, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateErr(err, "la categoría o sede de destino no existe")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("ejemplar " + id + " no encontrado")
	}
	return nil
}

// Delete borra el ejemplar y decrementa el contador del dueño que tenía
// la fila antes del borrado, en una sola transacción.
func (r *SpecimensRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ownerID string
	var contractID sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT owner_id, contract_id FROM specimens WHERE id = $1 FOR UPDATE
	`, id).Scan(&ownerID, &contractID)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("ejemplar " + id + " no encontrado")
	}
	if err != nil {
		return err
	}
	if contractID.Valid {
		return apperrors.Conflict("el ejemplar está asociado a un contrato")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM specimens WHERE id = $1`, id); err != nil {
		return translateErr(err, "el ejemplar tiene registros asociados")
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE clients
		SET specimen_count = specimen_count - 1, updated_at = now()
		WHERE id = $1
	`, ownerID); err != nil {
		return err
	}

	return tx.Commit()
}

type scanFunc func(dest ...any) error

func scanSpecimen(scan scanFunc) (specimens.Specimen, error) {
	var sp specimens.Specimen
	var bd sql.NullTime
	var sede, contract sql.NullString
	if err := scan(
		&sp.ID, &sp.Name, &sp.Breed, &sp.Color, &bd,
		&sp.OwnerID, &sp.CategoryID, &sede, &contract, &sp.Identifier,
		&sp.CreatedAt, &sp.UpdatedAt,
	); err != nil {
		return specimens.Specimen{}, err
	}
	sp.BirthDate = fromNullTime(bd)
	sp.SedeID = fromNullString(sede)
	sp.ContractID = fromNullString(contract)
	return sp, nil
}
