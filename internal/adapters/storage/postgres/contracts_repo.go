package postgres

import (
	"context"
	"database/sql"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/contracts"
)

type ContractsRepo struct {
	db *sql.DB
}

func NewContractsRepo(db *sql.DB) *ContractsRepo {
	return &ContractsRepo{db: db}
}

const contractColumns = `
	id, client_id, start_date, monthly_price, status, terms,
	created_at, updated_at
`

// Create inserta contrato, asociaciones de servicios y binding del
// ejemplar en una sola transacción. La toma del ejemplar es una
// escritura condicional (WHERE contract_id IS NULL): si otra transacción
// lo tomó primero, afecta cero filas y todo se revierte con Conflict.
func (r *ContractsRepo) Create(ctx context.Context, c contracts.Contract, serviceIDs []string, specimenID *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO contracts (
			id, client_id, start_date, monthly_price, status, terms,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.ClientID,
		c.StartDate,
		c.MonthlyPrice,
		string(c.Status),
		c.Terms,
		c.CreatedAt,
		c.UpdatedAt,
	); err != nil {
		return translateErr(err, "el contrato referencia un cliente inexistente")
	}

	for _, svcID := range serviceIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contract_services (contract_id, service_id)
			VALUES ($1, $2)
		`, c.ID, svcID); err != nil {
			return translateErr(err, "el servicio "+svcID+" no existe en el catálogo")
		}
	}

	if specimenID != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE specimens
			SET contract_id = $1, updated_at = now()
			WHERE id = $2 AND contract_id IS NULL
		`, c.ID, *specimenID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM specimens WHERE id = $1)`, *specimenID,
			).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return apperrors.NotFound("ejemplar " + *specimenID + " no encontrado")
			}
			return apperrors.Conflict("el ejemplar ya está asociado a otro contrato")
		}
	}

	return tx.Commit()
}

func (r *ContractsRepo) GetByID(ctx context.Context, id string) (contracts.Contract, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE id = $1
	`, id)

	var c contracts.Contract
	var status string
	if err := row.Scan(
		&c.ID, &c.ClientID, &c.StartDate, &c.MonthlyPrice, &status, &c.Terms,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return contracts.Contract{}, apperrors.NotFound("contrato " + id + " no encontrado")
		}
		return contracts.Contract{}, err
	}
	c.Status = contracts.Status(status)
	return c, nil
}

// GetDetail arma el grafo completo en lecturas fuera de cualquier
// transacción de escritura.
func (r *ContractsRepo) GetDetail(ctx context.Context, id string) (contracts.Detail, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return contracts.Detail{}, err
	}

	d := contracts.Detail{
		Contract:       c,
		Specimens:      make([]contracts.SpecimenSummary, 0),
		Services:       make([]contracts.ServiceSummary, 0),
		RecentPayments: make([]contracts.PaymentSummary, 0),
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT id, name, document, email
		FROM clients
		WHERE id = $1
	`, c.ClientID).Scan(&d.Client.ID, &d.Client.Name, &d.Client.Document, &d.Client.Email); err != nil {
		return contracts.Detail{}, err
	}

	spRows, err := r.db.QueryContext(ctx, `
		SELECT id, name, breed, identifier
		FROM specimens
		WHERE contract_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return contracts.Detail{}, err
	}
	defer spRows.Close()
	for spRows.Next() {
		var sp contracts.SpecimenSummary
		if err := spRows.Scan(&sp.ID, &sp.Name, &sp.Breed, &sp.Identifier); err != nil {
			return contracts.Detail{}, err
		}
		d.Specimens = append(d.Specimens, sp)
	}
	if err := spRows.Err(); err != nil {
		return contracts.Detail{}, err
	}

	svRows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.price
		FROM contract_services cs
		JOIN services s ON s.id = cs.service_id
		WHERE cs.contract_id = $1
		ORDER BY s.name
	`, id)
	if err != nil {
		return contracts.Detail{}, err
	}
	defer svRows.Close()
	for svRows.Next() {
		var sv contracts.ServiceSummary
		if err := svRows.Scan(&sv.ID, &sv.Name, &sv.Price); err != nil {
			return contracts.Detail{}, err
		}
		d.Services = append(d.Services, sv)
	}
	if err := svRows.Err(); err != nil {
		return contracts.Detail{}, err
	}

	payRows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, method, payment_month, payment_date
		FROM payments
		WHERE contract_id = $1
		ORDER BY payment_date DESC
		LIMIT 12
	`, id)
	if err != nil {
		return contracts.Detail{}, err
	}
	defer payRows.Close()
	for payRows.Next() {
		var p contracts.PaymentSummary
		if err := payRows.Scan(&p.ID, &p.Amount, &p.Method, &p.PaymentMonth, &p.PaymentDate); err != nil {
			return contracts.Detail{}, err
		}
		d.RecentPayments = append(d.RecentPayments, p)
	}
	return d, payRows.Err()
}

func (r *ContractsRepo) List(ctx context.Context, f contracts.ListFilter) ([]contracts.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE 1=1
	`
	args := []any{}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		query += ` AND client_id = $` + itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += ` AND status = $` + itoa(len(args))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]contracts.Contract, 0)
	for rows.Next() {
		var c contracts.Contract
		var status string
		if err := rows.Scan(
			&c.ID, &c.ClientID, &c.StartDate, &c.MonthlyPrice, &status, &c.Terms,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Status = contracts.Status(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update persiste los campos del contrato y, si replaceServices, borra
// e inserta el set completo de asociaciones en la misma transacción.
func (r *ContractsRepo) Update(ctx context.Context, c contracts.Contract, serviceIDs []string, replaceServices bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE contracts
		SET
			start_date = $2,
			monthly_price = $3,
			terms = $4,
			updated_at = $5
		WHERE id = $1
	`,
		c.ID,
		c.StartDate,
		c.MonthlyPrice,
		c.Terms,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("contrato " + c.ID + " no encontrado")
	}

	if replaceServices {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM contract_services WHERE contract_id = $1
		`, c.ID); err != nil {
			return err
		}
		for _, svcID := range serviceIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO contract_services (contract_id, service_id)
				VALUES ($1, $2)
			`, c.ID, svcID); err != nil {
				return translateErr(err, "el servicio "+svcID+" no existe en el catálogo")
			}
		}
	}

	return tx.Commit()
}

// UpdateStatus aplica la transición condicional: afecta la fila solo si
// el estado almacenado sigue siendo from.
func (r *ContractsRepo) UpdateStatus(ctx context.Context, id string, from, to contracts.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contracts
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM contracts WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("contrato " + id + " no encontrado")
		}
		return apperrors.Conflict("el contrato ya no está en estado " + string(from))
	}
	return nil
}

// Delete limpia asociaciones, libera ejemplares y borra la fila en una
// sola transacción. Una FK residual (pagos registrados) sale como
// Conflict.
func (r *ContractsRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM contract_services WHERE contract_id = $1
	`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE specimens
		SET contract_id = NULL, updated_at = now()
		WHERE contract_id = $1
	`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return translateErr(err, "el contrato tiene pagos registrados")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("contrato " + id + " no encontrado")
	}

	return tx.Commit()
}

func (r *ContractsRepo) ServiceIDs(ctx context.Context, contractID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT service_id
		FROM contract_services
		WHERE contract_id = $1
		ORDER BY service_id
	`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
