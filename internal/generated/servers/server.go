// Package servers holds the HTTP contract of the fulfillment engine: the wire types,
// the ServerInterface implemented by the HTTP adapter, parameter binding and the
// embedded OpenAPI document.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AllocationLine defines model for AllocationLine.
type AllocationLine struct {
	SkuId    string `json:"skuId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// AllocationConfig defines model for AllocationConfig.
type AllocationConfig struct {
	EnableHopping     *bool `json:"enableHopping,omitempty"`
	MaxHops           *int  `json:"maxHops,omitempty" validate:"omitempty,gte=0"`
	SplitOrderAllowed *bool `json:"splitOrderAllowed,omitempty"`
	DelayDaysPerHop   *int  `json:"delayDaysPerHop,omitempty" validate:"omitempty,gte=0"`
}

// AllocationRequest defines model for AllocationRequest.
type AllocationRequest struct {
	OrderId              string              `json:"orderId" validate:"required"`
	Lines                []AllocationLine    `json:"lines" validate:"required,min=1,dive"`
	Destination          string              `json:"destination" validate:"required,len=6,numeric"`
	PreferredWarehouseId *openapi_types.UUID `json:"preferredWarehouseId,omitempty"`
	OrderType            *string             `json:"orderType,omitempty"`
	PlacedAt             *time.Time          `json:"placedAt,omitempty"`
	Config               *AllocationConfig   `json:"config,omitempty"`
}

// Split defines model for Split.
type Split struct {
	WarehouseId openapi_types.UUID `json:"warehouseId"`
	Quantity    int                `json:"quantity"`
	HopLevel    int                `json:"hopLevel"`
}

// LineAllocation defines model for LineAllocation.
type LineAllocation struct {
	SkuId        string  `json:"skuId"`
	RequestedQty int     `json:"requestedQty"`
	AllocatedQty int     `json:"allocatedQty"`
	Shortfall    int     `json:"shortfall"`
	Splits       []Split `json:"splits"`
}

// SlaImpact defines model for SlaImpact.
type SlaImpact struct {
	OriginalEta time.Time `json:"originalEta"`
	AdjustedEta time.Time `json:"adjustedEta"`
	Reason      string    `json:"reason"`
}

// AllocationPlan defines model for AllocationPlan.
type AllocationPlan struct {
	OrderId                string           `json:"orderId"`
	Lines                  []LineAllocation `json:"lines"`
	TotalHops              int              `json:"totalHops"`
	SplitRequired          bool             `json:"splitRequired"`
	DestinationServiceable bool             `json:"destinationServiceable"`
	TotalShortfall         int              `json:"totalShortfall"`
	SlaImpact              *SlaImpact       `json:"slaImpact,omitempty"`
}

// ReservedItem defines model for ReservedItem.
type ReservedItem struct {
	WarehouseId openapi_types.UUID `json:"warehouseId"`
	SkuId       string             `json:"skuId"`
	Quantity    int                `json:"quantity"`
}

// Reservation defines model for Reservation.
type Reservation struct {
	Id        openapi_types.UUID `json:"id"`
	OrderId   string             `json:"orderId"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	ExpiresAt time.Time          `json:"expiresAt"`
	Items     []ReservedItem     `json:"items"`
}

// AllocationResponse defines model for AllocationResponse.
type AllocationResponse struct {
	Plan        AllocationPlan `json:"plan"`
	Reservation *Reservation   `json:"reservation,omitempty"`
}

// SlaRequest defines model for SlaRequest.
type SlaRequest struct {
	OrderType   string    `json:"orderType" validate:"required"`
	Origin      string    `json:"origin" validate:"required,len=6,numeric"`
	Destination string    `json:"destination" validate:"required,len=6,numeric"`
	PlacedAt    time.Time `json:"placedAt" validate:"required"`
}

// Milestone defines model for Milestone.
type Milestone struct {
	Event      string    `json:"event"`
	ExpectedBy time.Time `json:"expectedBy"`
	Status     string    `json:"status"`
}

// SlaPlan defines model for SlaPlan.
type SlaPlan struct {
	OrderType    string      `json:"orderType"`
	Zone         string      `json:"zone"`
	PlacedAt     time.Time   `json:"placedAt"`
	PromisedDate time.Time   `json:"promisedDate"`
	TatDays      int         `json:"tatDays"`
	RiskLevel    string      `json:"riskLevel"`
	Milestones   []Milestone `json:"milestones"`
}

// ComplianceStatus defines model for ComplianceStatus.
type ComplianceStatus struct {
	OrderId            string     `json:"orderId"`
	SlaStatus          string     `json:"slaStatus"`
	DelayMinutes       int64      `json:"delayMinutes"`
	BreachedMilestones []string   `json:"breachedMilestones"`
	NextMilestone      *Milestone `json:"nextMilestone,omitempty"`
	PromisedDate       time.Time  `json:"promisedDate"`
}

// PicklistStrategy defines model for PicklistStrategy.
type PicklistStrategy struct {
	Type             string `json:"type" validate:"required,oneof=SINGLE_ORDER WAVE BATCH ZONE"`
	MaxOrdersPerWave *int   `json:"maxOrdersPerWave,omitempty" validate:"omitempty,gte=0"`
	BatchSize        *int   `json:"batchSize,omitempty" validate:"omitempty,gte=0"`
}

// PicklistRequest defines model for PicklistRequest.
type PicklistRequest struct {
	OrderIds []string         `json:"orderIds"`
	Strategy PicklistStrategy `json:"strategy"`
}

// PickBatch defines model for PickBatch.
type PickBatch struct {
	Id                   openapi_types.UUID `json:"id"`
	Strategy             string             `json:"strategy"`
	OrderIds             []string           `json:"orderIds"`
	Zone                 *string            `json:"zone,omitempty"`
	EstimatedItems       int                `json:"estimatedItems"`
	EstimatedTimeSeconds int64              `json:"estimatedTimeSeconds"`
}

// PicklistOptimization defines model for PicklistOptimization.
type PicklistOptimization struct {
	TotalOrders               int   `json:"totalOrders"`
	TotalBatches              int   `json:"totalBatches"`
	EstimatedTimeSavedSeconds int64 `json:"estimatedTimeSavedSeconds"`
}

// PicklistResult defines model for PicklistResult.
type PicklistResult struct {
	GenerationId openapi_types.UUID   `json:"generationId"`
	Strategy     string               `json:"strategy"`
	Batches      []PickBatch          `json:"batches"`
	Optimization PicklistOptimization `json:"optimization"`
}

// PincodeServiceability defines model for PincodeServiceability.
type PincodeServiceability struct {
	Pincode          string  `json:"pincode"`
	IsServiceable    bool    `json:"isServiceable"`
	CodAvailable     *bool   `json:"codAvailable,omitempty"`
	PrepaidAvailable *bool   `json:"prepaidAvailable,omitempty"`
	HubId            *string `json:"hubId,omitempty"`
	Zone             *string `json:"zone,omitempty"`
}

// RouteServiceability defines model for RouteServiceability.
type RouteServiceability struct {
	IsServiceable       bool     `json:"isServiceable"`
	Zone                string   `json:"zone"`
	ServiceablePartners []string `json:"serviceablePartners"`
	Reason              string   `json:"reason"`
}

// ServiceabilityResponse defines model for ServiceabilityResponse.
type ServiceabilityResponse struct {
	Pincode *PincodeServiceability `json:"pincode,omitempty"`
	Route   *RouteServiceability   `json:"route,omitempty"`
}

// OrderLine defines model for OrderLine.
type OrderLine struct {
	SkuId    string `json:"skuId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// OrderRequest defines model for OrderRequest.
type OrderRequest struct {
	Id            *openapi_types.UUID `json:"id,omitempty"`
	OrderType     string              `json:"orderType" validate:"required"`
	PlacedAt      time.Time           `json:"placedAt" validate:"required"`
	PaymentMode   string              `json:"paymentMode" validate:"required,oneof=PREPAID COD"`
	Origin        string              `json:"origin" validate:"required,len=6,numeric"`
	Destination   string              `json:"destination" validate:"required,len=6,numeric"`
	Lines         []OrderLine         `json:"lines" validate:"required,min=1,dive"`
	WeightKg      float64             `json:"weightKg" validate:"gte=0"`
	DeclaredValue *string             `json:"declaredValue,omitempty" validate:"omitempty,numeric"`
}

// AcceptedOrder defines model for AcceptedOrder.
type AcceptedOrder struct {
	Id     openapi_types.UUID `json:"id"`
	Status string             `json:"status"`
}

// ValidateOrderRequest defines model for ValidateOrderRequest.
type ValidateOrderRequest struct {
	Origin        string  `json:"origin" validate:"required,len=6,numeric"`
	Destination   string  `json:"destination" validate:"required,len=6,numeric"`
	PaymentMode   string  `json:"paymentMode" validate:"required,oneof=PREPAID COD"`
	WeightKg      float64 `json:"weightKg"`
	DeclaredValue *string `json:"declaredValue,omitempty" validate:"omitempty,numeric"`
}

// ValidationResult defines model for ValidationResult.
type ValidationResult struct {
	IsValid              bool    `json:"isValid"`
	Reason               string  `json:"reason"`
	FailedRule           *string `json:"failedRule,omitempty"`
	Zone                 string  `json:"zone"`
	CodAvailable         bool    `json:"codAvailable"`
	SuggestedPaymentMode *string `json:"suggestedPaymentMode,omitempty"`
}

// TransporterRequest defines model for TransporterRequest.
type TransporterRequest struct {
	Origin      string  `json:"origin" validate:"required,len=6,numeric"`
	Destination string  `json:"destination" validate:"required,len=6,numeric"`
	WeightKg    float64 `json:"weightKg" validate:"gt=0"`
	IsCod       *bool   `json:"isCod,omitempty"`
	CodAmount   *string `json:"codAmount,omitempty" validate:"omitempty,numeric"`
}

// Candidate defines model for Candidate.
type Candidate struct {
	CarrierCode  string  `json:"carrierCode"`
	Rate         string  `json:"rate"`
	TatDays      int     `json:"tatDays"`
	CodSupported bool    `json:"codSupported"`
	MaxCodAmount *string `json:"maxCodAmount,omitempty"`
	Score        float64 `json:"score"`
}

// TransporterSelection defines model for TransporterSelection.
type TransporterSelection struct {
	Zone         string      `json:"zone"`
	Recommended  *Candidate  `json:"recommended,omitempty"`
	Alternatives []Candidate `json:"alternatives"`
	Reason       string      `json:"reason"`
}

// CheckServiceabilityParams defines parameters for CheckServiceability.
type CheckServiceabilityParams struct {
	Pincode     *string `form:"pincode,omitempty" json:"pincode,omitempty"`
	Origin      *string `form:"origin,omitempty" json:"origin,omitempty"`
	Destination *string `form:"destination,omitempty" json:"destination,omitempty"`
	PaymentMode *string `form:"paymentMode,omitempty" json:"paymentMode,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Plan an order across warehouses and hold the inventory
	// (POST /api/v1/allocations)
	CreateAllocation(ctx echo.Context) error
	// Cancel a held allocation and return its stock
	// (DELETE /api/v1/allocations/{reservationId})
	ReleaseAllocation(ctx echo.Context, reservationId openapi_types.UUID) error
	// Make a held allocation final
	// (POST /api/v1/allocations/{reservationId}/confirm)
	ConfirmAllocation(ctx echo.Context, reservationId openapi_types.UUID) error
	// Register an order for background allocation
	// (POST /api/v1/orders)
	AcceptOrder(ctx echo.Context) error
	// Compliance of a live order against its promise
	// (GET /api/v1/orders/{orderId}/sla)
	GetOrderSlaStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// Group orders into pick batches
	// (POST /api/v1/picklists/optimize)
	OptimizePicklists(ctx echo.Context) error
	// Serviceability of a pincode, or of a route for a payment mode
	// (GET /api/v1/serviceability)
	CheckServiceability(ctx echo.Context, params CheckServiceabilityParams) error
	// Check an order against serviceability, COD and shipment limits
	// (POST /api/v1/serviceability/validate)
	ValidateOrder(ctx echo.Context) error
	// Compute the delivery promise of an order
	// (POST /api/v1/sla)
	CalculateSla(ctx echo.Context) error
	// Rank carriers for a shipment
	// (POST /api/v1/transporters/select)
	SelectTransporter(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateAllocation(ctx echo.Context) error {
	return w.Handler.CreateAllocation(ctx)
}

func (w *ServerInterfaceWrapper) ReleaseAllocation(ctx echo.Context) error {
	reservationId, err := bindUUIDPathParam(ctx, "reservationId")
	if err != nil {
		return err
	}
	return w.Handler.ReleaseAllocation(ctx, reservationId)
}

func (w *ServerInterfaceWrapper) ConfirmAllocation(ctx echo.Context) error {
	reservationId, err := bindUUIDPathParam(ctx, "reservationId")
	if err != nil {
		return err
	}
	return w.Handler.ConfirmAllocation(ctx, reservationId)
}

func (w *ServerInterfaceWrapper) AcceptOrder(ctx echo.Context) error {
	return w.Handler.AcceptOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrderSlaStatus(ctx echo.Context) error {
	orderId, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderSlaStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) OptimizePicklists(ctx echo.Context) error {
	return w.Handler.OptimizePicklists(ctx)
}

func (w *ServerInterfaceWrapper) CheckServiceability(ctx echo.Context) error {
	var params CheckServiceabilityParams

	for name, dest := range map[string]**string{
		"pincode":     &params.Pincode,
		"origin":      &params.Origin,
		"destination": &params.Destination,
		"paymentMode": &params.PaymentMode,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
		}
	}

	return w.Handler.CheckServiceability(ctx, params)
}

func (w *ServerInterfaceWrapper) ValidateOrder(ctx echo.Context) error {
	return w.Handler.ValidateOrder(ctx)
}

func (w *ServerInterfaceWrapper) CalculateSla(ctx echo.Context) error {
	return w.Handler.CalculateSla(ctx)
}

func (w *ServerInterfaceWrapper) SelectTransporter(ctx echo.Context) error {
	return w.Handler.SelectTransporter(ctx)
}

func bindUUIDPathParam(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, ctx.Param(name), &id)
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is the part of echo.Echo and echo.Group the handlers are registered on.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/allocations", wrapper.CreateAllocation)
	router.DELETE(baseURL+"/api/v1/allocations/:reservationId", wrapper.ReleaseAllocation)
	router.POST(baseURL+"/api/v1/allocations/:reservationId/confirm", wrapper.ConfirmAllocation)
	router.POST(baseURL+"/api/v1/orders", wrapper.AcceptOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId/sla", wrapper.GetOrderSlaStatus)
	router.POST(baseURL+"/api/v1/picklists/optimize", wrapper.OptimizePicklists)
	router.GET(baseURL+"/api/v1/serviceability", wrapper.CheckServiceability)
	router.POST(baseURL+"/api/v1/serviceability/validate", wrapper.ValidateOrder)
	router.POST(baseURL+"/api/v1/sla", wrapper.CalculateSla)
	router.POST(baseURL+"/api/v1/transporters/select", wrapper.SelectTransporter)
}
