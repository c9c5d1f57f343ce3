package domain

import "github.com/google/uuid"

// Product is the catalog view the cart core needs when adding a line.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price Money
}
