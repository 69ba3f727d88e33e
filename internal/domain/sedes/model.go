package sedes

import "time"

// Sede representa una sede física del criadero.
type Sede struct {
	ID      string
	Name    string
	Address string
	City    string

	CreatedAt time.Time
	UpdatedAt time.Time
}
