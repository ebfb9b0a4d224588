package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func acceptedDetails() order.Details {
	return order.Details{
		Type:          order.Express,
		PlacedAt:      time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
		PaymentMode:   serviceability.COD,
		Origin:        kernel.MustPincode("110001"),
		Destination:   kernel.MustPincode("560001"),
		Lines:         []order.Line{{SKUID: "SKU-MUG-350", RequestedQty: 2}},
		WeightKg:      0.8,
		DeclaredValue: decimal.NewFromInt(798),
	}
}

func TestNewAcceptOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewAcceptOrderCommand(id, acceptedDetails())

	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, order.Express, cmd.Details().Type)
	require.NoError(t, cmd.Validate())
}

func TestNewAcceptOrderCommand_InvalidInput(t *testing.T) {
	d := acceptedDetails()
	d.Lines = nil
	d.WeightKg = -1

	_, err := commands.NewAcceptOrderCommand(kernel.UUID{}, d)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestAcceptOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewAcceptOrderCommand(id, acceptedDetails())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	isNewOrder := mock.MatchedBy(func(o *order.Order) bool {
		return o.ID().IsEqual(id) && o.Status() == order.Created
	})
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, isNewOrder).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_NotConstructed(t *testing.T) {
	factory := new(MockOrderUoWFactory)

	err := commands.NewAcceptOrderCommandHandler(factory).Handle(t.Context(), commands.AcceptOrderCommand{})

	require.ErrorIs(t, err, commands.ErrAcceptOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestAcceptOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAcceptOrderCommand(kernel.NewUUID(), acceptedDetails())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(errors.New("duplicate")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewAcceptOrderCommandHandler(factory).Handle(ctx, cmd)

	require.EqualError(t, err, "duplicate")
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}
