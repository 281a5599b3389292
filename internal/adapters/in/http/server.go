package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CreateOrderHandler handles order creation.
type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

// TransitionOrderHandler performs status transitions.
type TransitionOrderHandler interface {
	Handle(ctx context.Context, cmd commands.TransitionOrderCommand) error
}

// AvailableTransitionsHandler lists the outgoing edges of an order.
type AvailableTransitionsHandler interface {
	Handle(
		ctx context.Context,
		query queries.GetAvailableTransitionsQuery,
	) (queries.GetAvailableTransitionsQueryResponse, error)
}

// ValidateTransitionHandler dry-runs a transition.
type ValidateTransitionHandler interface {
	Handle(
		ctx context.Context,
		query queries.ValidateTransitionQuery,
	) (queries.ValidateTransitionQueryResponse, error)
}

// OrderSlaHandler reads the active SLA window of an order.
type OrderSlaHandler interface {
	Handle(ctx context.Context, query queries.GetOrderSlaQuery) (queries.GetOrderSlaQueryResponse, error)
}

// Server exposes the order pipeline over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     CreateOrderHandler
	transitionOrderHandler TransitionOrderHandler

	// Query handlers
	availableTransitionsHandler AvailableTransitionsHandler
	validateTransitionHandler   ValidateTransitionHandler
	orderSlaHandler             OrderSlaHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler CreateOrderHandler,
	transitionOrderHandler TransitionOrderHandler,
	availableTransitionsHandler AvailableTransitionsHandler,
	validateTransitionHandler ValidateTransitionHandler,
	orderSlaHandler OrderSlaHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		transitionOrderHandler:      transitionOrderHandler,
		availableTransitionsHandler: availableTransitionsHandler,
		validateTransitionHandler:   validateTransitionHandler,
		orderSlaHandler:             orderSlaHandler,
		logger:                      logger.With("component", "http_server"),
	}
}

// RegisterHandlers mounts the API routes, the health check and the
// Prometheus endpoint on e.
func RegisterHandlers(e *echo.Echo, s *Server) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/:id/transitions", s.GetAvailableTransitions)
	v1.POST("/orders/:id/transitions/validate", s.ValidateTransition)
	v1.POST("/orders/:id/transitions", s.TransitionOrder)
	v1.GET("/orders/:id/sla", s.GetOrderSla)
}

// CreateOrder handles POST /api/v1/orders - creates a new order in NEW.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	tenantID, err := kernel.UUIDFromString(body.TenantID)
	if err != nil {
		return badRequest(ctx, "Invalid tenant_id: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, tenantID, body.TotalAmount)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.writeError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{ID: orderID.String()})
}

// GetAvailableTransitions handles GET /api/v1/orders/:id/transitions.
func (s *Server) GetAvailableTransitions(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetAvailableTransitionsQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	res, err := s.availableTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AvailableTransitions{
		OrderID:     res.OrderID.String(),
		Status:      res.Status.String(),
		Transitions: statusNames(res.Transitions),
	})
}

// ValidateTransition handles POST /api/v1/orders/:id/transitions/validate.
// The order is not modified.
func (s *Server) ValidateTransition(ctx echo.Context) error {
	orderID, to, tctx, err := transitionInput(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewValidateTransitionQuery(orderID, to, tctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	res, err := s.validateTransitionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionValidation{
		OrderID: res.OrderID.String(),
		From:    res.From.String(),
		To:      res.To.String(),
		InGraph: res.InGraph,
		Valid:   res.Valid(),
		Errors:  res.Errors,
	})
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, to, tctx, err := transitionInput(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, to, tctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.writeError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderSla handles GET /api/v1/orders/:id/sla.
func (s *Server) GetOrderSla(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderSlaQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	res, err := s.orderSlaHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toSlaWindow(res))
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func transitionInput(ctx echo.Context) (kernel.UUID, order.Status, order.TransitionContext, error) {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return kernel.UUID{}, order.Unknown, order.TransitionContext{}, err
	}

	var body TransitionRequest
	if err = ctx.Bind(&body); err != nil {
		return kernel.UUID{}, order.Unknown, order.TransitionContext{}, errInvalidBody
	}

	to, err := order.ParseStatus(body.To)
	if err != nil {
		return kernel.UUID{}, order.Unknown, order.TransitionContext{}, err
	}

	tctx, err := body.transitionContext()
	if err != nil {
		return kernel.UUID{}, order.Unknown, order.TransitionContext{}, err
	}

	return orderID, to, tctx, nil
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
