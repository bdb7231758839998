package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/application/usecases/queries"
	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	SweepHandler interface {
		Handle(ctx context.Context, command commands.SweepPendingOrdersCommand) (sweep.Report, error)
	}

	RejectExpiredHandler interface {
		Handle(ctx context.Context, command commands.RejectExpiredOrdersCommand) (sweep.Report, error)
	}

	DeclineHandler interface {
		Handle(ctx context.Context, command commands.RecordDriverDeclineCommand) error
	}

	CustomerLocationHandler interface {
		Handle(ctx context.Context, command commands.UpdateCustomerLocationCommand) error
	}

	DriverLocationHandler interface {
		Handle(ctx context.Context, command commands.UpdateDriverLocationCommand) error
		HandleRemove(ctx context.Context, command commands.RemoveDriverCommand) error
	}

	PendingOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetPendingOrdersQuery) ([]queries.GetPendingOrdersQueryResponse, error)
	}

	OrderRejectionsHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetOrderRejectionsQuery,
		) ([]queries.GetOrderRejectionsQueryResponse, error)
	}
)

// Handlers groups the use cases the HTTP surface exposes.
type Handlers struct {
	Sweep            SweepHandler
	RejectExpired    RejectExpiredHandler
	Decline          DeclineHandler
	CustomerLocation CustomerLocationHandler
	DriverLocation   DriverLocationHandler
	PendingOrders    PendingOrdersHandler
	OrderRejections  OrderRejectionsHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	policy   services.Policy
	now      func() time.Time
}

// NewServer creates a server. Manually triggered passes use policy and the wall clock.
func NewServer(handlers Handlers, policy services.Policy) *Server {
	return &Server{
		handlers: handlers,
		policy:   policy,
		now:      time.Now,
	}
}

// RunSweep handles POST /api/v1/dispatch/sweep.
func (s *Server) RunSweep(ctx echo.Context) error {
	cmd, err := commands.NewSweepPendingOrdersCommand(s.now(), s.policy)
	if err != nil {
		return errorResponse(ctx, err, "Invalid sweep parameters")
	}

	report, err := s.handlers.Sweep.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err, "Failed to run sweep")
	}

	return ctx.JSON(http.StatusOK, toSweepReport(report))
}

// RunRejectExpired handles POST /api/v1/dispatch/reject-expired.
func (s *Server) RunRejectExpired(ctx echo.Context) error {
	cmd, err := commands.NewRejectExpiredOrdersCommand(s.now(), s.policy)
	if err != nil {
		return errorResponse(ctx, err, "Invalid reject parameters")
	}

	report, err := s.handlers.RejectExpired.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err, "Failed to reject expired orders")
	}

	return ctx.JSON(http.StatusOK, toSweepReport(report))
}

// GetPendingOrders handles GET /api/v1/orders/pending.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	orders, err := s.handlers.PendingOrders.Handle(ctx.Request().Context(), queries.NewGetPendingOrdersQuery())
	if err != nil {
		return errorResponse(ctx, err, "Failed to retrieve pending orders")
	}

	return ctx.JSON(http.StatusOK, toPendingOrders(orders))
}

// GetOrderRejections handles GET /api/v1/orders/{orderId}/rejections.
func (s *Server) GetOrderRejections(ctx echo.Context) error {
	orderID, err := bindUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetOrderRejectionsQuery(orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	records, err := s.handlers.OrderRejections.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err, "Failed to retrieve rejections")
	}

	return ctx.JSON(http.StatusOK, toRejections(records))
}

// DeclineOrder handles POST /api/v1/orders/{orderId}/decline.
func (s *Server) DeclineOrder(ctx echo.Context) error {
	orderID, err := bindUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var body DeclineRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	driverID, err := kernel.UUIDFromGoogle(body.DriverID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewRecordDriverDeclineCommand(orderID, driverID, s.now())
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.Decline.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err, "Failed to record decline")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateCustomerLocation handles PUT /api/v1/orders/{orderId}/customer-location.
func (s *Server) UpdateCustomerLocation(ctx echo.Context) error {
	orderID, err := bindUUIDParam(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	loc, err := bindLocation(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewUpdateCustomerLocationCommand(orderID, loc)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CustomerLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err, "Failed to update customer location")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateDriverLocation handles PUT /api/v1/drivers/{driverId}/location.
func (s *Server) UpdateDriverLocation(ctx echo.Context) error {
	driverID, err := bindUUIDParam(ctx, "driverId")
	if err != nil {
		return badRequest(ctx, err)
	}

	loc, err := bindLocation(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, loc)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.DriverLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err, "Failed to update driver location")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RemoveDriver handles DELETE /api/v1/drivers/{driverId}/location.
func (s *Server) RemoveDriver(ctx echo.Context) error {
	driverID, err := bindUUIDParam(ctx, "driverId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewRemoveDriverCommand(driverID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.DriverLocation.HandleRemove(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err, "Failed to remove driver")
	}

	return ctx.NoContent(http.StatusNoContent)
}

func bindUUIDParam(ctx echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	return kernel.UUIDFromGoogle(id)
}

func bindLocation(ctx echo.Context) (kernel.Location, error) {
	var body Location
	if err := ctx.Bind(&body); err != nil {
		return kernel.Location{}, errors.New("invalid request body")
	}

	return kernel.NewLocation(body.Lat, body.Lng)
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// errorResponse maps domain errors onto status codes. Unknown errors are
// reported with the generic message only.
func errorResponse(ctx echo.Context, err error, message string) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrPreconditionFailed):
		status = http.StatusConflict
	}

	if status != http.StatusInternalServerError {
		message = message + ": " + err.Error()
	}

	return ctx.JSON(status, Error{Code: status, Message: message})
}
