package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre el pool contra Postgres vía pgx (database/sql) y verifica
// la conexión con un ping acotado. El DSN viene de config (DB_DSN).
func Open(dsn string) (*sql.DB, error) {
	return OpenTimeout(dsn, 5*time.Second)
}

// OpenTimeout es Open con el timeout del ping configurable
// (config.DBTimeout en cmd/).
func OpenTimeout(dsn string, pingTimeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// El backend atiende recepción y caja: pocas conexiones alcanzan.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
