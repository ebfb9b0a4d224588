package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/pkg/guard"
)

var ErrSelectTransporterQueryIsNotConstructed = errors.New(
	"SelectTransporterQuery must be created via NewSelectTransporterQuery constructor",
)

// SelectTransporterQuery ranks the carriers able to take a shipment.
type SelectTransporterQuery struct {
	request carrier.Request

	guard guard.ConstructorGuard
}

func NewSelectTransporterQuery(request carrier.Request) (SelectTransporterQuery, error) {
	if err := request.Validate(); err != nil {
		return SelectTransporterQuery{}, err
	}
	return SelectTransporterQuery{request: request, guard: guard.NewConstructorGuard()}, nil
}

func (q SelectTransporterQuery) Validate() error {
	return q.guard.Validate(ErrSelectTransporterQueryIsNotConstructed)
}

func (q SelectTransporterQuery) Request() carrier.Request { return q.request }
