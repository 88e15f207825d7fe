package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clientdesk/clientdesk/entity"
	"github.com/clientdesk/clientdesk/store"
	"github.com/samber/mo"
)

// OrderRepository is the persistence port for orders.
type OrderRepository interface {
	ListAll(ctx context.Context) ([]entity.Order, error)
	GetByID(ctx context.Context, id int64) (mo.Option[entity.Order], error)
	Add(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db store.DB
}

// NewOrderRepository returns an OrderRepository backed by db.
func NewOrderRepository(db store.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = "id, client_id, total_amount, ordered_at"

func (r *orderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (mo.Option[entity.Order], error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	var o entity.Order
	err := row.Scan(&o.ID, &o.ClientID, &o.TotalAmount, &o.OrderedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return mo.None[entity.Order](), nil
	}
	if err != nil {
		return mo.None[entity.Order](), err
	}
	return mo.Some(o), nil
}

func (r *orderRepository) Add(ctx context.Context, order *entity.Order) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO orders (client_id, total_amount, ordered_at) VALUES (?, ?, ?)",
		order.ClientID, order.TotalAmount, order.OrderedAt)
	if err != nil {
		return err
	}
	order.ID, err = res.LastInsertId()
	return err
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE orders SET total_amount = ? WHERE id = ?",
		order.TotalAmount, order.ID)
	return err
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	return err
}

func scanOrders(rows *sql.Rows) ([]entity.Order, error) {
	orders := []entity.Order{}
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.TotalAmount, &o.OrderedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
