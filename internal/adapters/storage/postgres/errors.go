package postgres

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"pet-boarding-backend/internal/apperrors"
)

// translateErr convierte los errores de Postgres a las categorías del
// dominio. Las violaciones de restricción única (23505) y de clave
// foránea (23503) son conflictos de negocio, no errores internos: son
// la forma en que el almacén arbitra las escrituras concurrentes.
func translateErr(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503":
			return apperrors.Conflict(conflictMsg)
		}
	}
	return err
}

// birth_date y similares son DATE, los pasamos como NullTime
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

// itoa acorta la numeración de placeholders en queries armadas por partes.
func itoa(n int) string { return strconv.Itoa(n) }

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
