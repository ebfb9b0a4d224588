package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllocateOrderCommand_ValidInput(t *testing.T) {
	lines := []order.Line{
		{SKUID: "SKU-1", RequestedQty: 1},
		{SKUID: "SKU-2", RequestedQty: 0},
		{SKUID: "SKU-1", RequestedQty: 4},
	}

	cmd, err := commands.NewAllocateOrderCommand(allocation.Request{
		OrderID:     "ORD-1",
		Lines:       lines,
		Destination: kernel.MustPincode("560001"),
		Config:      allocation.DefaultConfig(),
	})

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, []string{"SKU-1", "SKU-2"}, cmd.SKUIDs())

	lines[0].RequestedQty = 99
	assert.Equal(t, 1, cmd.Request().Lines[0].RequestedQty)
}

func TestNewAllocateOrderCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewAllocateOrderCommand(allocation.Request{
		OrderID: " ",
		Lines:   []order.Line{{SKUID: "SKU-1", RequestedQty: -1}},
	})

	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "orderId")
	assert.Contains(t, err.Error(), "requestedQty")
}

func TestAllocateOrderCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.AllocateOrderCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrAllocateOrderCommandIsNotConstructed)
}
