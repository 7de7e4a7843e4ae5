package domain

import "time"

// Technician represents a field technician tasks can be assigned to.
type Technician struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
