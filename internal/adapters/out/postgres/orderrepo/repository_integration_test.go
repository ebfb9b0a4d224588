package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
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

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.LineDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_lines, orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_And_Get_RoundTrip() {
	ctx := context.Background()
	placedAt := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	original := suite.createTestOrder(placedAt, order.Created)

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(order.Standard, retrieved.Type())
	suite.True(placedAt.Equal(retrieved.PlacedAt()))
	suite.Equal(serviceability.COD, retrieved.PaymentMode())
	suite.Equal("110001", retrieved.Origin().String())
	suite.Equal("560001", retrieved.Destination().String())
	suite.Equal(original.Lines(), retrieved.Lines())
	suite.True(decimal.RequireFromString("1499.50").Equal(retrieved.DeclaredValue()))
	suite.Equal(order.Created, retrieved.Status())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_IsInvalid() {
	ctx := context.Background()
	o := suite.createTestOrder(time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC), order.Created)
	suite.tracker.On("TrackAggregate", o.ID(), o).Once()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	err := suite.repository.Add(ctx, o)

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_WritesStatusAndPromiseDelay() {
	ctx := context.Background()
	o := suite.createTestOrder(time.Now().UTC(), order.Created)
	suite.tracker.On("TrackAggregate", o.ID(), o).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(o.MarkAllocated(2))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	retrieved, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Allocated, retrieved.Status())
	suite.Equal(2, retrieved.PromiseDelayDays())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFoundError() {
	o := suite.createTestOrder(time.Now().UTC(), order.Created)

	err := suite.repository.Update(context.Background(), o)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInStatus_OldestFirstWithLimit() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	base := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

	newest := suite.createTestOrder(base.Add(2*time.Hour), order.Created)
	oldest := suite.createTestOrder(base, order.Created)
	middle := suite.createTestOrder(base.Add(time.Hour), order.Created)
	allocated := suite.createTestOrder(base, order.Allocated)
	for _, o := range []*order.Order{newest, oldest, middle, allocated} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	created, err := suite.repository.GetAllInStatus(ctx, order.Created, 2)
	suite.Require().NoError(err)
	suite.Require().Len(created, 2)
	suite.Equal(oldest.ID(), created[0].ID())
	suite.Equal(middle.ID(), created[1].ID())

	all, err := suite.repository.GetAllInStatus(ctx, order.Created, 0)
	suite.Require().NoError(err)
	suite.Len(all, 3)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllOpen_ExcludesCreatedAndDelivered() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	now := time.Now().UTC()

	open := []*order.Order{
		suite.createTestOrder(now, order.Allocated),
		suite.createTestOrder(now, order.InTransit),
	}
	closed := []*order.Order{
		suite.createTestOrder(now, order.Created),
		suite.createTestOrder(now, order.Delivered),
	}
	for _, o := range append(open, closed...) {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	result, err := suite.repository.GetAllOpen(ctx)
	suite.Require().NoError(err)
	suite.Len(result, 2)
	for _, o := range result {
		suite.True(o.Status() >= order.Allocated && o.Status() < order.Delivered)
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(placedAt time.Time, status order.Status) *order.Order {
	o, err := order.RestoreOrder(kernel.NewUUID(), order.Details{
		Type:        order.Standard,
		PlacedAt:    placedAt,
		PaymentMode: serviceability.COD,
		Origin:      kernel.MustPincode("110001"),
		Destination: kernel.MustPincode("560001"),
		Lines: []order.Line{
			{SKUID: "SKU-B", RequestedQty: 2},
			{SKUID: "SKU-A", RequestedQty: 0},
			{SKUID: "SKU-C", RequestedQty: 5},
		},
		WeightKg:      2.5,
		DeclaredValue: decimal.RequireFromString("1499.50"),
	}, status, 0)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
