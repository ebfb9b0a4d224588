package http

import (
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/picklist"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/generated/servers"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Handlers are the use cases served over HTTP.
type Handlers struct {
	AllocateOrder       commands.AllocateOrderCommandHandler
	ConfirmAllocation   commands.ConfirmAllocationCommandHandler
	ReleaseAllocation   commands.ReleaseAllocationCommandHandler
	AcceptOrder         commands.AcceptOrderCommandHandler
	CalculateSLA        queries.CalculateSLAQueryHandler
	GetOrderSLAStatus   queries.GetOrderSLAStatusQueryHandler
	OptimizePicklists   queries.OptimizePicklistsQueryHandler
	CheckServiceability queries.CheckServiceabilityQueryHandler
	ValidateOrder       queries.ValidateOrderQueryHandler
	SelectTransporter   queries.SelectTransporterQueryHandler
}

// Server implements servers.ServerInterface on top of the use case handlers.
type Server struct {
	handlers          Handlers
	allocationDefault allocation.Config
	now               func() time.Time
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a server. allocationDefault fills the hopping options a
// request leaves out.
func NewServer(handlers Handlers, allocationDefault allocation.Config) *Server {
	return &Server{
		handlers:          handlers,
		allocationDefault: allocationDefault,
		now:               time.Now,
	}
}

// CreateAllocation handles POST /api/v1/allocations.
func (s *Server) CreateAllocation(ctx echo.Context) error {
	var body servers.AllocationRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	destination, err := kernel.NewPincode(body.Destination)
	if err != nil {
		return err
	}
	request := allocation.Request{
		OrderID:     body.OrderId,
		Destination: destination,
		Config:      s.allocationConfig(body.Config),
	}
	for _, l := range body.Lines {
		request.Lines = append(request.Lines, order.Line{SKUID: l.SkuId, RequestedQty: l.Quantity})
	}
	if body.PreferredWarehouseId != nil {
		id := kernel.UUIDFromGoogle(*body.PreferredWarehouseId)
		request.PreferredWarehouseID = &id
	}
	if body.OrderType != nil {
		if request.OrderType, err = order.ParseType(*body.OrderType); err != nil {
			return err
		}
	}
	if body.PlacedAt != nil {
		request.PlacedAt = *body.PlacedAt
	}

	cmd, err := commands.NewAllocateOrderCommand(request)
	if err != nil {
		return err
	}
	result, err := s.handlers.AllocateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, servers.AllocationResponse{
		Plan:        toAllocationPlan(result.Plan),
		Reservation: toReservation(result.Reservation),
	})
}

// ConfirmAllocation handles POST /api/v1/allocations/{reservationId}/confirm.
func (s *Server) ConfirmAllocation(ctx echo.Context, reservationId openapi_types.UUID) error {
	cmd, err := commands.NewConfirmAllocationCommand(kernel.UUIDFromGoogle(reservationId), s.now())
	if err != nil {
		return err
	}
	if err := s.handlers.ConfirmAllocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ReleaseAllocation handles DELETE /api/v1/allocations/{reservationId}.
func (s *Server) ReleaseAllocation(ctx echo.Context, reservationId openapi_types.UUID) error {
	cmd, err := commands.NewReleaseAllocationCommand(kernel.UUIDFromGoogle(reservationId))
	if err != nil {
		return err
	}
	if err := s.handlers.ReleaseAllocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CalculateSla handles POST /api/v1/sla.
func (s *Server) CalculateSla(ctx echo.Context) error {
	var body servers.SlaRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	orderType, err := order.ParseType(body.OrderType)
	if err != nil {
		return err
	}
	origin, destination, err := parseLane(body.Origin, body.Destination)
	if err != nil {
		return err
	}

	query, err := queries.NewCalculateSLAQuery(orderType, origin, destination, body.PlacedAt)
	if err != nil {
		return err
	}
	plan, err := s.handlers.CalculateSLA.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toSLAPlan(plan))
}

// GetOrderSlaStatus handles GET /api/v1/orders/{orderId}/sla.
func (s *Server) GetOrderSlaStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	query, err := queries.NewGetOrderSLAStatusQuery(kernel.UUIDFromGoogle(orderId), s.now())
	if err != nil {
		return err
	}
	status, err := s.handlers.GetOrderSLAStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toComplianceStatus(status))
}

// OptimizePicklists handles POST /api/v1/picklists/optimize.
func (s *Server) OptimizePicklists(ctx echo.Context) error {
	var body servers.PicklistRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	strategyType, err := picklist.ParseStrategyType(body.Strategy.Type)
	if err != nil {
		return err
	}
	strategy := picklist.Strategy{Type: strategyType}
	if body.Strategy.MaxOrdersPerWave != nil {
		strategy.MaxOrdersPerWave = *body.Strategy.MaxOrdersPerWave
	}
	if body.Strategy.BatchSize != nil {
		strategy.BatchSize = *body.Strategy.BatchSize
	}

	query, err := queries.NewOptimizePicklistsQuery(body.OrderIds, strategy)
	if err != nil {
		return err
	}
	result, err := s.handlers.OptimizePicklists.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toPicklistResult(result))
}

// CheckServiceability handles GET /api/v1/serviceability. A pincode parameter wins
// over a route.
func (s *Server) CheckServiceability(ctx echo.Context, params servers.CheckServiceabilityParams) error {
	var query queries.CheckServiceabilityQuery
	switch {
	case params.Pincode != nil:
		pincode, err := kernel.NewPincode(*params.Pincode)
		if err != nil {
			return err
		}
		if query, err = queries.NewPincodeServiceabilityQuery(pincode); err != nil {
			return err
		}
	case params.Origin != nil && params.Destination != nil:
		origin, destination, err := parseLane(*params.Origin, *params.Destination)
		if err != nil {
			return err
		}
		mode := serviceability.UnknownPaymentMode
		if params.PaymentMode != nil {
			if mode, err = serviceability.ParsePaymentMode(*params.PaymentMode); err != nil {
				return err
			}
		}
		if query, err = queries.NewRouteServiceabilityQuery(origin, destination, mode); err != nil {
			return err
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "either pincode or origin and destination are required")
	}

	response, err := s.handlers.CheckServiceability.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toServiceabilityResponse(response))
}

// AcceptOrder handles POST /api/v1/orders. A client may choose the order id;
// otherwise a new one is assigned.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	var body servers.OrderRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	orderType, err := order.ParseType(body.OrderType)
	if err != nil {
		return err
	}
	origin, destination, err := parseLane(body.Origin, body.Destination)
	if err != nil {
		return err
	}
	mode, err := serviceability.ParsePaymentMode(body.PaymentMode)
	if err != nil {
		return err
	}
	declared, err := parseMoney("declaredValue", body.DeclaredValue)
	if err != nil {
		return err
	}
	lines := make([]order.Line, 0, len(body.Lines))
	for _, l := range body.Lines {
		lines = append(lines, order.Line{SKUID: l.SkuId, RequestedQty: l.Quantity})
	}

	id := kernel.NewUUID()
	if body.Id != nil {
		id = kernel.UUIDFromGoogle(*body.Id)
	}

	cmd, err := commands.NewAcceptOrderCommand(id, order.Details{
		Type:          orderType,
		PlacedAt:      body.PlacedAt,
		PaymentMode:   mode,
		Origin:        origin,
		Destination:   destination,
		Lines:         lines,
		WeightKg:      body.WeightKg,
		DeclaredValue: declared,
	})
	if err != nil {
		return err
	}
	if err = s.handlers.AcceptOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, servers.AcceptedOrder{
		Id:     id.Bytes(),
		Status: order.Created.String(),
	})
}

// ValidateOrder handles POST /api/v1/serviceability/validate.
func (s *Server) ValidateOrder(ctx echo.Context) error {
	var body servers.ValidateOrderRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	origin, destination, err := parseLane(body.Origin, body.Destination)
	if err != nil {
		return err
	}
	mode, err := serviceability.ParsePaymentMode(body.PaymentMode)
	if err != nil {
		return err
	}
	declared, err := parseMoney("declaredValue", body.DeclaredValue)
	if err != nil {
		return err
	}

	query, err := queries.NewValidateOrderQuery(origin, destination, mode, body.WeightKg, declared)
	if err != nil {
		return err
	}
	result, err := s.handlers.ValidateOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toValidationResult(result))
}

// SelectTransporter handles POST /api/v1/transporters/select.
func (s *Server) SelectTransporter(ctx echo.Context) error {
	var body servers.TransporterRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	origin, destination, err := parseLane(body.Origin, body.Destination)
	if err != nil {
		return err
	}
	codAmount, err := parseMoney("codAmount", body.CodAmount)
	if err != nil {
		return err
	}
	request := carrier.Request{
		Origin:      origin,
		Destination: destination,
		WeightKg:    body.WeightKg,
		IsCOD:       body.IsCod != nil && *body.IsCod,
		CODAmount:   codAmount,
	}

	query, err := queries.NewSelectTransporterQuery(request)
	if err != nil {
		return err
	}
	selection, err := s.handlers.SelectTransporter.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toTransporterSelection(selection))
}

func (s *Server) allocationConfig(in *servers.AllocationConfig) allocation.Config {
	cfg := s.allocationDefault
	if in == nil {
		return cfg
	}
	if in.EnableHopping != nil {
		cfg.EnableHopping = *in.EnableHopping
	}
	if in.MaxHops != nil {
		cfg.MaxHops = *in.MaxHops
	}
	if in.SplitOrderAllowed != nil {
		cfg.SplitOrderAllowed = *in.SplitOrderAllowed
	}
	if in.DelayDaysPerHop != nil {
		cfg.DelayDaysPerHop = *in.DelayDaysPerHop
	}
	return cfg
}

func parseLane(origin, destination string) (kernel.Pincode, kernel.Pincode, error) {
	o, err := kernel.NewPincode(origin)
	if err != nil {
		return kernel.Pincode{}, kernel.Pincode{}, err
	}
	d, err := kernel.NewPincode(destination)
	if err != nil {
		return kernel.Pincode{}, kernel.Pincode{}, err
	}
	return o, d, nil
}

// parseMoney reads an optional decimal amount. Absent means zero.
func parseMoney(param string, raw *string) (decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return v, nil
}
