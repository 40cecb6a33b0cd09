package model

import "time"

// Category represents a spending or income label. Categories are flat.
type Category struct {
	CreatedAt time.Time
	Name      string
	Color     string
	ID        int
	IsActive  bool
}
