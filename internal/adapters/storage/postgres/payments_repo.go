package postgres

import (
	"context"
	"database/sql"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/contracts"
	"pet-boarding-backend/internal/domain/payments"
)

type PaymentsRepo struct {
	db *sql.DB
}

func NewPaymentsRepo(db *sql.DB) *PaymentsRepo {
	return &PaymentsRepo{db: db}
}

const paymentColumns = `
	id, contract_id, amount, method, payment_month, payment_date, notes,
	created_at, updated_at
`

// Create inserta el pago. La restricción única (contract_id,
// payment_month) arbitra los registros concurrentes del mismo mes, y el
// INSERT condicional revalida el estado del contrato dentro de la misma
// sentencia: un contrato finalizado entre el chequeo del servicio y el
// insert no recibe el pago.
func (r *PaymentsRepo) Create(ctx context.Context, p payments.Payment) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (
			id, contract_id, amount, method, payment_month, payment_date, notes,
			created_at, updated_at
		)
		SELECT $1,$2,$3,$4,$5,$6,$7,$8,$9
		WHERE EXISTS (
			SELECT 1 FROM contracts WHERE id = $2 AND status = $10
		)
	`,
		p.ID,
		p.ContractID,
		p.Amount,
		string(p.Method),
		p.PaymentMonth,
		p.PaymentDate,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
		string(contracts.StatusActive),
	)
	if err != nil {
		return translateErr(err, "el contrato ya tiene un pago registrado para ese mes")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.Conflict("solo se registran pagos sobre contratos activos")
	}
	return nil
}

func (r *PaymentsRepo) GetByID(ctx context.Context, id string) (payments.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1
	`, id)

	var p payments.Payment
	var method string
	if err := row.Scan(
		&p.ID, &p.ContractID, &p.Amount, &method, &p.PaymentMonth, &p.PaymentDate, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return payments.Payment{}, apperrors.NotFound("pago " + id + " no encontrado")
		}
		return payments.Payment{}, err
	}
	p.Method = payments.Method(method)
	return p, nil
}

func (r *PaymentsRepo) List(ctx context.Context) ([]payments.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY payment_date ASC, created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]payments.Payment, 0)
	for rows.Next() {
		var p payments.Payment
		var method string
		if err := rows.Scan(
			&p.ID, &p.ContractID, &p.Amount, &method, &p.PaymentMonth, &p.PaymentDate, &p.Notes,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Method = payments.Method(method)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentsRepo) ListByContract(ctx context.Context, contractID string) ([]payments.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE contract_id = $1
		ORDER BY payment_month ASC
	`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]payments.Payment, 0)
	for rows.Next() {
		var p payments.Payment
		var method string
		if err := rows.Scan(
			&p.ID, &p.ContractID, &p.Amount, &method, &p.PaymentMonth, &p.PaymentDate, &p.Notes,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Method = payments.Method(method)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentsRepo) Update(ctx context.Context, p payments.Payment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET
			amount = $2,
			method = $3,
			payment_month = $4,
			payment_date = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		p.ID,
		p.Amount,
		string(p.Method),
		p.PaymentMonth,
		p.PaymentDate,
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return translateErr(err, "el contrato ya tiene un pago registrado para ese mes")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("pago " + p.ID + " no encontrado")
	}
	return nil
}

func (r *PaymentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("pago " + id + " no encontrado")
	}
	return nil
}
