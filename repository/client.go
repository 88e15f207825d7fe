package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clientdesk/clientdesk/entity"
	"github.com/clientdesk/clientdesk/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ClientRepository is the persistence port for clients. It performs no
// business validation; every mutation commits before returning. List queries
// order by primary key ascending for determinism.
type ClientRepository interface {
	ListAll(ctx context.Context) ([]entity.Client, error)
	GetByID(ctx context.Context, id int64) (mo.Option[entity.Client], error)
	GetByEmail(ctx context.Context, email string) (mo.Option[entity.Client], error)
	Add(ctx context.Context, client *entity.Client) error
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id int64) error
	ListAllWithOrders(ctx context.Context) ([]entity.Client, error)
}

type clientRepository struct {
	db store.DB
}

// NewClientRepository returns a ClientRepository backed by db.
func NewClientRepository(db store.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = "id, name, email, created_at"

func (r *clientRepository) ListAll(ctx context.Context) ([]entity.Client, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClients(rows)
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (mo.Option[entity.Client], error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
	return scanClientOption(row)
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (mo.Option[entity.Client], error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE email = ?", email)
	return scanClientOption(row)
}

func (r *clientRepository) Add(ctx context.Context, client *entity.Client) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (name, email, created_at) VALUES (?, ?, ?)",
		client.Name, client.Email, client.CreatedAt)
	if err != nil {
		return err
	}
	client.ID, err = res.LastInsertId()
	return err
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, email = ? WHERE id = ?",
		client.Name, client.Email, client.ID)
	return err
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	return err
}

// ListAllWithOrders loads every client with its orders nested, clients by id
// ascending and each order list by order id ascending. Two ordered scans plus
// an in-memory group keeps it driver-neutral.
func (r *clientRepository) ListAllWithOrders(ctx context.Context) ([]entity.Client, error) {
	clients, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, client_id, total_amount, ordered_at FROM orders ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	grouped := lo.GroupBy(orders, func(o entity.Order) int64 { return o.ClientID })
	for i := range clients {
		clients[i].Orders = grouped[clients[i].ID]
		if clients[i].Orders == nil {
			clients[i].Orders = []entity.Order{}
		}
	}
	return clients, nil
}

func scanClients(rows *sql.Rows) ([]entity.Client, error) {
	clients := []entity.Client{}
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func scanClientOption(row *sql.Row) (mo.Option[entity.Client], error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return mo.None[entity.Client](), nil
	}
	if err != nil {
		return mo.None[entity.Client](), err
	}
	return mo.Some(c), nil
}
