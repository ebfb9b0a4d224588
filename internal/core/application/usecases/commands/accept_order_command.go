package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand registers an order in CREATED status. The pending allocation
// job picks it up from there.
//
// Example:
//
//	cmd, err := NewAcceptOrderCommand(kernel.NewUUID(), order.Details{
//	    Type:        order.Standard,
//	    PlacedAt:    time.Now(),
//	    PaymentMode: serviceability.Prepaid,
//	    Origin:      kernel.MustPincode("110001"),
//	    Destination: kernel.MustPincode("560001"),
//	    Lines:       []order.Line{{SKUID: "SKU-1", RequestedQty: 2}},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	details order.Details

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand validates the id and the order facts up front, so the
// handler never opens a transaction for input it would reject.
func NewAcceptOrderCommand(orderID kernel.UUID, details order.Details) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDetails(details),
	); err != nil {
		return AcceptOrderCommand{}, err
	}
	return cmd, nil
}

func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c AcceptOrderCommand) Details() order.Details { return c.details }

func (c *AcceptOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AcceptOrderCommand) setDetails(details order.Details) error {
	// Checked through the aggregate constructor.
	if _, err := order.NewOrder(kernel.NewUUID(), details); err != nil {
		return err
	}
	c.details = details
	return nil
}
