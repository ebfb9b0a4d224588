package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrAllocateOrderCommandIsNotConstructed = errors.New(
	"AllocateOrderCommand must be created via NewAllocateOrderCommand constructor",
)

// AllocateOrderCommand asks the engine to plan an order against live inventory
// and hold the planned quantities.
//
// Example:
//
//	cmd, err := NewAllocateOrderCommand(allocation.Request{
//	    OrderID:     "ORD-1001",
//	    Lines:       []order.Line{{SKUID: "SKU-1", RequestedQty: 15}},
//	    Destination: kernel.MustPincode("560001"),
//	    Config:      allocation.DefaultConfig(),
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid allocation request: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type AllocateOrderCommand struct {
	request allocation.Request

	guard guard.ConstructorGuard
}

// NewAllocateOrderCommand rejects malformed requests before anything is read.
func NewAllocateOrderCommand(request allocation.Request) (AllocateOrderCommand, error) {
	if err := request.Validate(); err != nil {
		return AllocateOrderCommand{}, err
	}

	request.Lines = append([]order.Line(nil), request.Lines...)
	return AllocateOrderCommand{
		request: request,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AllocateOrderCommand) Validate() error {
	return c.guard.Validate(ErrAllocateOrderCommandIsNotConstructed)
}

func (c AllocateOrderCommand) Request() allocation.Request {
	return c.request
}

// SKUIDs lists the distinct SKUs of the request in line order.
func (c AllocateOrderCommand) SKUIDs() []string {
	seen := make(map[string]struct{}, len(c.request.Lines))
	ids := make([]string, 0, len(c.request.Lines))
	for _, l := range c.request.Lines {
		if _, ok := seen[l.SKUID]; ok {
			continue
		}
		seen[l.SKUID] = struct{}{}
		ids = append(ids, l.SKUID)
	}
	return ids
}
