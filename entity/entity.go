package entity

import "time"

// Entity defines the contract for database-aware models.
type Entity interface {
	Table() string
}

// Client is a customer record. Email is unique across all clients; CreatedAt
// is stamped once at creation and never mutated.
type Client struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	Orders    []Order   `db:"-" json:"orders,omitempty"`
}

func (Client) Table() string { return "clients" }

// Order belongs to exactly one client. OrderedAt is stamped once at creation;
// updates touch TotalAmount only.
type Order struct {
	ID          int64     `db:"id" json:"id"`
	ClientID    int64     `db:"client_id" json:"clientId"`
	TotalAmount float64   `db:"total_amount" json:"totalAmount"`
	OrderedAt   time.Time `db:"ordered_at" json:"orderedAt"`
}

func (Order) Table() string { return "orders" }
