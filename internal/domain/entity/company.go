package entity

import "time"

// Company representa una cooperativa/tenant del sistema.
type Company struct {
	ID        string
	Name      string
	NIT       string
	Status    string // active, suspended
	CreatedAt time.Time
}
