package service

import (
	"context"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/entity"
	"github.com/clientdesk/clientdesk/repository"
	"github.com/clientdesk/clientdesk/store"
	"github.com/clientdesk/clientdesk/validator"
	"github.com/samber/lo"
)

// ClientVM is the externally exposed projection of a client.
type ClientVM struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientWithOrdersVM is a ClientVM carrying the client's orders, nested and
// ordered by order id ascending.
type ClientWithOrdersVM struct {
	ClientVM
	Orders []OrderVM `json:"orders"`
}

// ClientInput is the create/update payload for a client.
type ClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClientService owns the business rules for clients: field validation, email
// uniqueness and creation timestamps.
type ClientService interface {
	ListAll(ctx context.Context) ([]ClientVM, error)
	GetByID(ctx context.Context, id int64) (ClientVM, error)
	Create(ctx context.Context, in ClientInput) (ClientVM, error)
	Update(ctx context.Context, id int64, in ClientInput) (ClientVM, error)
	Delete(ctx context.Context, id int64) error
	ListAllWithOrders(ctx context.Context) ([]ClientWithOrdersVM, error)
}

type clientService struct {
	repo repository.ClientRepository
	now  func() time.Time
}

// NewClientService returns a ClientService over repo.
func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *clientService) ListAll(ctx context.Context) ([]ClientVM, error) {
	clients, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(clients, func(c entity.Client, _ int) ClientVM { return toClientVM(c) }), nil
}

func (s *clientService) GetByID(ctx context.Context, id int64) (ClientVM, error) {
	opt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ClientVM{}, err
	}
	client, present := opt.Get()
	if !present {
		return ClientVM{}, notFound("client not found")
	}
	return toClientVM(client), nil
}

func (s *clientService) Create(ctx context.Context, in ClientInput) (ClientVM, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if err := validateClient(name, email); err != nil {
		return ClientVM{}, err
	}
	if err := s.checkEmailFree(ctx, email, 0); err != nil {
		return ClientVM{}, err
	}

	client := entity.Client{Name: name, Email: email, CreatedAt: s.now()}
	if err := s.repo.Add(ctx, &client); err != nil {
		// The unique index is the final authority; a losing concurrent
		// create still surfaces as a conflict, not an internal error.
		if store.IsUniqueViolation(err) {
			return ClientVM{}, conflict("email already in use")
		}
		return ClientVM{}, err
	}
	return toClientVM(client), nil
}

func (s *clientService) Update(ctx context.Context, id int64, in ClientInput) (ClientVM, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if err := validateClient(name, email); err != nil {
		return ClientVM{}, err
	}

	opt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ClientVM{}, err
	}
	client, present := opt.Get()
	if !present {
		return ClientVM{}, notFound("client not found")
	}
	if err = s.checkEmailFree(ctx, email, id); err != nil {
		return ClientVM{}, err
	}

	client.Name = name
	client.Email = email
	if err = s.repo.Update(ctx, &client); err != nil {
		if store.IsUniqueViolation(err) {
			return ClientVM{}, conflict("email already in use")
		}
		return ClientVM{}, err
	}
	return toClientVM(client), nil
}

func (s *clientService) Delete(ctx context.Context, id int64) error {
	opt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, present := opt.Get(); !present {
		return notFound("client not found")
	}
	// Orders are removed by the store's cascade.
	return s.repo.Delete(ctx, id)
}

func (s *clientService) ListAllWithOrders(ctx context.Context) ([]ClientWithOrdersVM, error) {
	clients, err := s.repo.ListAllWithOrders(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(clients, func(c entity.Client, _ int) ClientWithOrdersVM {
		return ClientWithOrdersVM{
			ClientVM: toClientVM(c),
			Orders:   lo.Map(c.Orders, func(o entity.Order, _ int) OrderVM { return toOrderVM(o) }),
		}
	}), nil
}

// checkEmailFree is an advisory pre-check; owner id 0 means "any owner
// conflicts" (create), otherwise the owner itself may keep its email.
func (s *clientService) checkEmailFree(ctx context.Context, email string, owner int64) error {
	opt, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing, present := opt.Get(); present && existing.ID != owner {
		return conflict("email already in use")
	}
	return nil
}

func validateClient(name, email string) error {
	checks := []func() error{
		func() error { return validator.Required("name")(name) },
		func() error { return validator.MaxLength("name", 200)(name) },
		func() error { return validator.Required("email")(email) },
		func() error { return validator.MaxLength("email", 200)(email) },
		func() error { return validator.Email("email")(email) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return invalid(err.Error())
		}
	}
	return nil
}

func toClientVM(c entity.Client) ClientVM {
	return ClientVM{ID: c.ID, Name: c.Name, Email: c.Email, CreatedAt: c.CreatedAt}
}
