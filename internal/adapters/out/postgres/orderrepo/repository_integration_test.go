package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.LineDTO{}, &orderrepo.StatusChangeDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(
		suite.db.Exec("TRUNCATE TABLE orders, order_lines, order_status_changes").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTripsAggregate() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(testOrder.ID()))
	suite.True(retrieved.BuyerID().IsEqual(testOrder.BuyerID()))
	suite.True(retrieved.MerchantID().IsEqual(testOrder.MerchantID()))
	suite.Equal(order.Pending, retrieved.Status())
	suite.Nil(retrieved.Driver())
	suite.Equal(testOrder.DeliveryAddress(), retrieved.DeliveryAddress())
	suite.True(retrieved.DeliveryPoint().IsEqual(testOrder.DeliveryPoint()))
	suite.Equal(testOrder.TotalAmount().Amount(), retrieved.TotalAmount().Amount())

	suite.Require().Len(retrieved.Lines(), 2)
	suite.Equal(testOrder.Lines()[0].Quantity(), retrieved.Lines()[0].Quantity())

	// the initial pending step survives the round trip
	history := retrieved.History()
	suite.Require().Len(history, 1)
	suite.Equal(order.Pending, history[0].Status)
	suite.Equal(order.RoleSystem, history[0].Actor)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusDriverAndHistory() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	merchant, err := order.NewActor(order.RoleMerchant, testOrder.MerchantID())
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.Advance(order.Confirmed, merchant, time.Now().UTC()))
	suite.Require().NoError(testOrder.Advance(order.Preparing, merchant, time.Now().UTC()))

	driverID := kernel.NewUUID()
	suite.Require().NoError(testOrder.AssignDriver(driverID))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, retrieved.Status())
	suite.Require().NotNil(retrieved.Driver())
	suite.True(retrieved.Driver().IsEqual(driverID))

	history := retrieved.History()
	suite.Require().Len(history, 3)
	suite.Equal(order.Pending, history[0].Status)
	suite.Equal(order.Confirmed, history[1].Status)
	suite.Equal(order.Preparing, history[2].Status)
	suite.Equal(order.RoleMerchant, history[2].Actor)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	err := suite.repository.Update(ctx, suite.createTestOrder())
	suite.Require().Error(err)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllDispatchEligible_ReturnsPreparingWithoutDriver() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	pending := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	eligible := suite.createPreparingOrder(nil)
	suite.Require().NoError(suite.repository.Add(ctx, eligible))

	driverID := kernel.NewUUID()
	assigned := suite.createPreparingOrder(&driverID)
	suite.Require().NoError(suite.repository.Add(ctx, assigned))

	orders, err := suite.repository.GetAllDispatchEligible(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.True(orders[0].ID().IsEqual(eligible.ID()))
	suite.True(orders[0].IsDispatchEligible())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllActive_ExcludesTerminalOrders() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	active := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, active))

	cancelled := suite.createTestOrder()
	buyer, err := order.NewActor(order.RoleBuyer, cancelled.BuyerID())
	suite.Require().NoError(err)
	suite.Require().NoError(cancelled.Cancel(buyer, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, cancelled))

	orders, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.True(orders[0].ID().IsEqual(active.ID()))
}

// createTestOrder creates a pending two-line order with default values.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	merchantID := kernel.NewUUID()

	price, err := kernel.NewMoney(650)
	suite.Require().NoError(err)
	first, err := cart.NewLine(kernel.NewUUID(), merchantID, price, 2, "pcs")
	suite.Require().NoError(err)

	price, err = kernel.NewMoney(300)
	suite.Require().NoError(err)
	second, err := cart.NewLine(kernel.NewUUID(), merchantID, price, 1, "pcs")
	suite.Require().NoError(err)

	point, err := kernel.NewGeoPoint(55.75, 37.62)
	suite.Require().NoError(err)

	deliveryFee, err := kernel.NewMoney(150)
	suite.Require().NoError(err)
	serviceFee, err := kernel.NewMoney(50)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), merchantID,
		[]cart.Line{first, second}, "12 Arbat St", point,
		"card", deliveryFee, serviceFee, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return testOrder
}

// createPreparingOrder creates an order advanced to Preparing, optionally with
// a driver already assigned.
func (suite *OrderRepositoryIntegrationTestSuite) createPreparingOrder(driverID *kernel.UUID) *order.Order {
	testOrder := suite.createTestOrder()

	merchant, err := order.NewActor(order.RoleMerchant, testOrder.MerchantID())
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.Advance(order.Confirmed, merchant, time.Now().UTC()))
	suite.Require().NoError(testOrder.Advance(order.Preparing, merchant, time.Now().UTC()))

	if driverID != nil {
		suite.Require().NoError(testOrder.AssignDriver(*driverID))
	}

	return testOrder
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
