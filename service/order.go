package service

import (
	"context"
	"time"

	"github.com/clientdesk/clientdesk/entity"
	"github.com/clientdesk/clientdesk/repository"
	"github.com/samber/lo"
)

// OrderVM is the externally exposed projection of an order.
type OrderVM struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"clientId"`
	TotalAmount float64   `json:"totalAmount"`
	OrderedAt   time.Time `json:"orderedAt"`
}

// OrderCreateInput is the create payload for an order. TotalAmount carries no
// server-side sign or magnitude check; the browser client guards input shape.
type OrderCreateInput struct {
	ClientID    int64   `json:"clientId"`
	TotalAmount float64 `json:"totalAmount"`
}

// OrderUpdateInput is the update payload; only the amount is mutable.
type OrderUpdateInput struct {
	TotalAmount float64 `json:"totalAmount"`
}

// OrderService owns the business rules for orders: referential integrity at
// creation time and creation timestamps.
type OrderService interface {
	ListAll(ctx context.Context) ([]OrderVM, error)
	GetByID(ctx context.Context, id int64) (OrderVM, error)
	Create(ctx context.Context, in OrderCreateInput) (OrderVM, error)
	Update(ctx context.Context, id int64, in OrderUpdateInput) (OrderVM, error)
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	orders  repository.OrderRepository
	clients repository.ClientRepository
	now     func() time.Time
}

// NewOrderService returns an OrderService over the two repositories; the
// client repository backs the existence check on order creation.
func NewOrderService(orders repository.OrderRepository, clients repository.ClientRepository) OrderService {
	return &orderService{
		orders:  orders,
		clients: clients,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderService) ListAll(ctx context.Context) ([]OrderVM, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(orders, func(o entity.Order, _ int) OrderVM { return toOrderVM(o) }), nil
}

func (s *orderService) GetByID(ctx context.Context, id int64) (OrderVM, error) {
	opt, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return OrderVM{}, err
	}
	order, present := opt.Get()
	if !present {
		return OrderVM{}, notFound("order not found")
	}
	return toOrderVM(order), nil
}

func (s *orderService) Create(ctx context.Context, in OrderCreateInput) (OrderVM, error) {
	opt, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return OrderVM{}, err
	}
	if _, present := opt.Get(); !present {
		return OrderVM{}, notFound("client not found")
	}

	order := entity.Order{ClientID: in.ClientID, TotalAmount: in.TotalAmount, OrderedAt: s.now()}
	if err = s.orders.Add(ctx, &order); err != nil {
		return OrderVM{}, err
	}
	return toOrderVM(order), nil
}

func (s *orderService) Update(ctx context.Context, id int64, in OrderUpdateInput) (OrderVM, error) {
	opt, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return OrderVM{}, err
	}
	order, present := opt.Get()
	if !present {
		return OrderVM{}, notFound("order not found")
	}

	// ClientID and OrderedAt are immutable; only the amount moves.
	order.TotalAmount = in.TotalAmount
	if err = s.orders.Update(ctx, &order); err != nil {
		return OrderVM{}, err
	}
	return toOrderVM(order), nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	opt, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, present := opt.Get(); !present {
		return notFound("order not found")
	}
	return s.orders.Delete(ctx, id)
}

func toOrderVM(o entity.Order) OrderVM {
	return OrderVM{ID: o.ID, ClientID: o.ClientID, TotalAmount: o.TotalAmount, OrderedAt: o.OrderedAt}
}
