package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrAlreadyExists = errors.New("item already exists")
	ErrInvalidItem   = errors.New("invalid item")
)

// Item is a catalogued product with its current unit price. Orders snapshot
// this price at order time and never look back.
type Item struct {
	ID    string
	Name  string
	Price float64
}

func (i Item) Validate() error {
	if i.ID == "" || i.Name == "" {
		return ErrInvalidItem
	}
	if i.Price < 0 {
		return ErrInvalidItem
	}
	return nil
}

// ItemRepository is the catalog store port.
type ItemRepository interface {
	Create(ctx context.Context, item Item) error
	FindByID(ctx context.Context, id string) (Item, error)
	Update(ctx context.Context, item Item) error
	Delete(ctx context.Context, id string) error
}
