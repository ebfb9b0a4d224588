// Package inventory models warehouses, per-SKU stock and the reservations that hold
// stock for an allocation until it is confirmed or released.
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrWarehouseIsNotConstructed is returned for a zero value Warehouse.
var ErrWarehouseIsNotConstructed = errors.New("Warehouse must be created via NewWarehouse constructor")

// Warehouse is static reference data.
type Warehouse struct {
	id            kernel.UUID
	code          string
	pincode       kernel.Pincode
	capacityUnits int

	isConstructed bool
}

func NewWarehouse(id kernel.UUID, code string, pincode kernel.Pincode, capacityUnits int) (Warehouse, error) {
	var problems []error
	problems = append(problems, id.Validate(), pincode.Validate())
	if strings.TrimSpace(code) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("code"))
	}
	if capacityUnits < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"capacityUnits", fmt.Errorf("%d is negative", capacityUnits)))
	}
	if err := errors.Join(problems...); err != nil {
		return Warehouse{}, err
	}

	return Warehouse{
		id:            id,
		code:          code,
		pincode:       pincode,
		capacityUnits: capacityUnits,
		isConstructed: true,
	}, nil
}

func (w Warehouse) Validate() error {
	if !w.isConstructed {
		return ErrWarehouseIsNotConstructed
	}
	return nil
}

func (w Warehouse) ID() kernel.UUID         { return w.id }
func (w Warehouse) Code() string            { return w.code }
func (w Warehouse) Pincode() kernel.Pincode { return w.pincode }
func (w Warehouse) CapacityUnits() int      { return w.capacityUnits }
