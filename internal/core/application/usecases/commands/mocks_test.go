package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/syncqueue"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAllDispatchEligible(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockEscrowRepository struct{ mock.Mock }

func (m *MockEscrowRepository) Add(ctx context.Context, t *escrow.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockEscrowRepository) Update(ctx context.Context, t *escrow.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockEscrowRepository) Get(ctx context.Context, id kernel.UUID) (*escrow.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escrow.Transaction), args.Error(1)
}
func (m *MockEscrowRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*escrow.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escrow.Transaction), args.Error(1)
}
func (m *MockEscrowRepository) GetAllDueForRelease(ctx context.Context, now time.Time) ([]*escrow.Transaction, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*escrow.Transaction), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}
func (m *MockDriverRepository) GetAllAvailable(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Upsert(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCartRepository) Get(ctx context.Context, buyerID kernel.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

type MockMutationRepository struct{ mock.Mock }

func (m *MockMutationRepository) Add(ctx context.Context, mu *syncqueue.Mutation) error {
	args := m.Called(ctx, mu)
	return args.Error(0)
}
func (m *MockMutationRepository) Update(ctx context.Context, mu *syncqueue.Mutation) error {
	args := m.Called(ctx, mu)
	return args.Error(0)
}
func (m *MockMutationRepository) Remove(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMutationRepository) GetAllPending(ctx context.Context, limit int) ([]*syncqueue.Mutation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*syncqueue.Mutation), args.Error(1)
}

// MockUoW serves every UoW shape the handlers need; tests set expectations
// only for the repositories the handler under test actually touches.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockUoW) EscrowRepository() ports.EscrowRepository {
	args := m.Called()
	return args.Get(0).(ports.EscrowRepository)
}
func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}
func (m *MockUoW) CartRepository() ports.CartRepository {
	args := m.Called()
	return args.Get(0).(ports.CartRepository)
}
func (m *MockUoW) MutationRepository() ports.MutationRepository {
	args := m.Called()
	return args.Get(0).(ports.MutationRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOrderEscrowUoWFactory struct{ mock.Mock }

func (m *MockOrderEscrowUoWFactory) Create() commands.OrderEscrowUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderEscrowUoW)
}

type MockCheckoutUoWFactory struct{ mock.Mock }

func (m *MockCheckoutUoWFactory) Create() commands.CheckoutUoW {
	args := m.Called()
	return args.Get(0).(commands.CheckoutUoW)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.DispatchUoW)
}

type MockEscrowUoWFactory struct{ mock.Mock }

func (m *MockEscrowUoWFactory) Create() commands.EscrowUoW {
	args := m.Called()
	return args.Get(0).(commands.EscrowUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockOrderEventPublisher struct{ mock.Mock }

func (m *MockOrderEventPublisher) PublishOrderChanged(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// Test fixtures shared across handler tests.

func mustMoney(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount)
	require.NoError(t, err)
	return m
}

func mustPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func mustLine(t *testing.T, merchantID kernel.UUID, unitPrice int64, quantity int) cart.Line {
	t.Helper()
	line, err := cart.NewLine(kernel.NewUUID(), merchantID, mustMoney(t, unitPrice), quantity, "pcs")
	require.NoError(t, err)
	return line
}

type orderFixture struct {
	order      *order.Order
	buyerID    kernel.UUID
	merchantID kernel.UUID
}

func newPendingOrder(t *testing.T) orderFixture {
	t.Helper()

	buyerID := kernel.NewUUID()
	merchantID := kernel.NewUUID()

	o, err := order.NewOrder(
		kernel.NewUUID(), buyerID, merchantID,
		[]cart.Line{mustLine(t, merchantID, 650, 2)},
		"12 Market Street", mustPoint(t, 55.75, 37.62), "card",
		mustMoney(t, 150), mustMoney(t, 50), time.Now().UTC(),
	)
	require.NoError(t, err)

	return orderFixture{order: o, buyerID: buyerID, merchantID: merchantID}
}

func newPreparingOrder(t *testing.T) orderFixture {
	t.Helper()

	f := newPendingOrder(t)
	merchant, err := order.NewActor(order.RoleMerchant, f.merchantID)
	require.NoError(t, err)
	require.NoError(t, f.order.Advance(order.Confirmed, merchant, time.Now().UTC()))
	require.NoError(t, f.order.Advance(order.Preparing, merchant, time.Now().UTC()))
	return f
}

func newHeldEscrow(t *testing.T, orderID kernel.UUID) *escrow.Transaction {
	t.Helper()
	tr, err := escrow.OpenTransaction(
		kernel.NewUUID(), orderID, mustMoney(t, 1500), time.Now().UTC(), 72*time.Hour)
	require.NoError(t, err)
	return tr
}

func newAvailableDriver(t *testing.T, rating float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(
		kernel.NewUUID(), "Alice", "bike", rating,
		mustPoint(t, 55.76, 37.62), time.Now().UTC(),
	)
	require.NoError(t, err)
	return d
}
