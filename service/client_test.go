package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/repository"
	"github.com/clientdesk/clientdesk/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dbSeq atomic.Int64

type fixture struct {
	clients ClientService
	orders  OrderService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared&_fk=1", dbSeq.Add(1))
	db, err := store.Open("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "scripts", "schema.sql"))
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), string(schema))
	require.NoError(t, err)

	clientRepo := repository.NewClientRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	return fixture{
		clients: NewClientService(clientRepo),
		orders:  NewOrderService(orderRepo, clientRepo),
	}
}

func TestClientService_Create(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	vm, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)
	assert.Greater(t, vm.ID, int64(0))
	assert.Equal(t, "Carlos", vm.Name)
	assert.Equal(t, "carlos@teste.com", vm.Email)
	assert.WithinDuration(t, time.Now().UTC(), vm.CreatedAt, 10*time.Second)
}

func TestClientService_Create_TrimsFields(t *testing.T) {
	fx := newFixture(t)

	vm, err := fx.clients.Create(context.Background(), ClientInput{Name: "  Carlos  ", Email: " carlos@teste.com "})
	require.NoError(t, err)
	assert.Equal(t, "Carlos", vm.Name)
	assert.Equal(t, "carlos@teste.com", vm.Email)
}

func TestClientService_Create_Validation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name    string
		input   ClientInput
		message string
	}{
		{"empty name", ClientInput{Name: "", Email: "carlos@teste.com"}, "name is required"},
		{"whitespace name", ClientInput{Name: "   ", Email: "carlos@teste.com"}, "name is required"},
		{"empty email", ClientInput{Name: "Carlos", Email: ""}, "email is required"},
		{"invalid email", ClientInput{Name: "Carlos", Email: "email-invalido"}, "invalid email"},
		{"email without tld", ClientInput{Name: "Carlos", Email: "carlos@teste"}, "invalid email"},
		{"long name", ClientInput{Name: strings.Repeat("x", 201), Email: "carlos@teste.com"}, "name must be at most 200 characters"},
		{"long email", ClientInput{Name: "Carlos", Email: strings.Repeat("x", 195) + "@teste.com"}, "email must be at most 200 characters"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.clients.Create(ctx, tc.input)
			var vd *ValidationError
			require.ErrorAs(t, err, &vd)
			assert.Equal(t, tc.message, vd.Message)
		})
	}
}

func TestClientService_Create_DuplicateEmail(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)

	_, err = fx.clients.Create(ctx, ClientInput{Name: "Other", Email: "carlos@teste.com"})
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, "email already in use", cf.Message)

	// Trimming applies before the uniqueness check.
	_, err = fx.clients.Create(ctx, ClientInput{Name: "Other", Email: "  carlos@teste.com  "})
	require.ErrorAs(t, err, &cf)
}

func TestClientService_GetByID(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)

	got, err := fx.clients.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)

	_, err = fx.clients.GetByID(ctx, 9999)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "client not found", nf.Message)
}

func TestClientService_Update(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)

	updated, err := fx.clients.Update(ctx, created.ID, ClientInput{Name: "Carlos Silva", Email: "silva@teste.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Carlos Silva", updated.Name)
	assert.Equal(t, "silva@teste.com", updated.Email)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second, "createdAt never mutates")
}

func TestClientService_Update_OwnEmailAllowed(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)

	_, err = fx.clients.Update(ctx, created.ID, ClientInput{Name: "Renamed", Email: "carlos@teste.com"})
	require.NoError(t, err)
}

func TestClientService_Update_EmailOwnedByOther(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)
	second, err := fx.clients.Create(ctx, ClientInput{Name: "Rodrigo", Email: "rodrigo@teste.com"})
	require.NoError(t, err)

	_, err = fx.clients.Update(ctx, second.ID, ClientInput{Name: "Rodrigo", Email: "carlos@teste.com"})
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)
}

func TestClientService_Update_NotFound(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.clients.Update(context.Background(), 9999, ClientInput{Name: "X", Email: "x@teste.com"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestClientService_Delete(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)

	require.NoError(t, fx.clients.Delete(ctx, created.ID))

	_, err = fx.clients.GetByID(ctx, created.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	err = fx.clients.Delete(ctx, created.ID)
	require.ErrorAs(t, err, &nf)
}

func TestClientService_Delete_CascadesToOrders(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	client, err := fx.clients.Create(ctx, ClientInput{Name: "Rodrigo", Email: "rodrigo@teste.com"})
	require.NoError(t, err)
	order, err := fx.orders.Create(ctx, OrderCreateInput{ClientID: client.ID, TotalAmount: 200})
	require.NoError(t, err)

	require.NoError(t, fx.clients.Delete(ctx, client.ID))

	_, err = fx.orders.GetByID(ctx, order.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestClientService_ListAllWithOrders(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	first, err := fx.clients.Create(ctx, ClientInput{Name: "Carlos", Email: "carlos@teste.com"})
	require.NoError(t, err)
	second, err := fx.clients.Create(ctx, ClientInput{Name: "Rodrigo", Email: "rodrigo@teste.com"})
	require.NoError(t, err)

	_, err = fx.orders.Create(ctx, OrderCreateInput{ClientID: second.ID, TotalAmount: 30})
	require.NoError(t, err)
	_, err = fx.orders.Create(ctx, OrderCreateInput{ClientID: first.ID, TotalAmount: 10})
	require.NoError(t, err)

	joined, err := fx.clients.ListAllWithOrders(ctx)
	require.NoError(t, err)
	require.Len(t, joined, 2)
	assert.Equal(t, first.ID, joined[0].ID)
	require.Len(t, joined[0].Orders, 1)
	assert.Equal(t, 10.0, joined[0].Orders[0].TotalAmount)
	require.Len(t, joined[1].Orders, 1)
	assert.NotNil(t, joined[0].Orders)
}
