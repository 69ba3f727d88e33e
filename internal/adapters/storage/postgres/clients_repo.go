package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/clients"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

const clientColumns = `
	id, name, document, email, phone,
	specimen_count, status,
	created_at, updated_at
`

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (
			id, name, document, email, phone,
			specimen_count, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		c.ID,
		c.Name,
		c.Document,
		c.Email,
		c.Phone,
		c.SpecimenCount,
		string(c.Status),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return translateErr(err, "ya existe un cliente con ese documento o email")
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return clients.Client{}, apperrors.NotFound("cliente no encontrado")
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id)
	return scanClient(row, id)
}

func (r *ClientsRepo) GetByDocument(ctx context.Context, document string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE document = $1
	`, document)
	return scanClient(row, document)
}

func (r *ClientsRepo) List(ctx context.Context, f clients.ListFilter) ([]clients.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
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

	out := make([]clients.Client, 0)
	for rows.Next() {
		var c clients.Client
		var status string
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone,
			&c.SpecimenCount, &status,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Status = clients.Status(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update persiste perfil. specimen_count y status quedan fuera del SET:
// el contador solo lo mueven las transacciones de specimens.
func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET
			name = $2,
			document = $3,
			email = $4,
			phone = $5,
			updated_at = $6
		WHERE id = $1
	`,
		c.ID,
		c.Name,
		c.Document,
		c.Email,
		c.Phone,
		c.UpdatedAt,
	)
	if err != nil {
		return translateErr(err, "ya existe un cliente con ese documento o email")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("cliente " + c.ID + " no encontrado")
	}
	return nil
}

func (r *ClientsRepo) UpdateStatus(ctx context.Context, id string, status clients.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, string(status))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("cliente " + id + " no encontrado")
	}
	return nil
}

// Purge borra la fila solo si el contador está en cero. La condición en
// el WHERE y la FK de specimens cubren la carrera con un alta
// concurrente de ejemplares.
func (r *ClientsRepo) Purge(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM clients
		WHERE id = $1 AND specimen_count = 0
	`, id)
	if err != nil {
		return translateErr(err, "el cliente todavía posee ejemplares registrados")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguir "no existe" de "todavía tiene ejemplares".
		var count int
		err := r.db.QueryRowContext(ctx, `SELECT specimen_count FROM clients WHERE id = $1`, id).Scan(&count)
		if err == sql.ErrNoRows {
			return apperrors.NotFound("cliente " + id + " no encontrado")
		}
		if err != nil {
			return err
		}
		return apperrors.Conflict("el cliente todavía posee ejemplares registrados")
	}
	return nil
}

func scanClient(row *sql.Row, ref string) (clients.Client, error) {
	var c clients.Client
	var status string
	if err := row.Scan(
		&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone,
		&c.SpecimenCount, &status,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return clients.Client{}, apperrors.NotFound("cliente " + ref + " no encontrado")
		}
		return clients.Client{}, err
	}
	c.Status = clients.Status(status)
	return c, nil
}
