package infrastructure

import (
	"sort"
	"time"

	"bazaar/internal/service/order/domain"
)

// OrderModel maps the orders table.
type OrderModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	OwnerID    string `gorm:"index;size:64;not null"`
	Status     string `gorm:"size:16;not null"`
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lines []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderLineModel maps the order_lines table. Position preserves the caller's
// submission order, which reservation and compensation both depend on.
type OrderLineModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"index;size:36;not null"`
	Position  int    `gorm:"not null"`
	ItemID    string `gorm:"size:64;not null"`
	Quantity  int    `gorm:"not null"`
	UnitPrice float64
}

func (OrderLineModel) TableName() string { return "order_lines" }

func toModel(o *domain.Order) *OrderModel {
	lines := make([]OrderLineModel, 0, len(o.Lines))
	for i, l := range o.Lines {
		lines = append(lines, OrderLineModel{
			OrderID:   o.ID,
			Position:  i,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return &OrderModel{
		ID:         o.ID,
		OwnerID:    o.OwnerID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Lines:      lines,
	}
}

func toDomain(m *OrderModel) *domain.Order {
	sort.Slice(m.Lines, func(i, j int) bool { return m.Lines[i].Position < m.Lines[j].Position })
	lines := make([]domain.OrderLine, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, domain.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return &domain.Order{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Lines:      lines,
		TotalPrice: m.TotalPrice,
		Status:     domain.Status(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
