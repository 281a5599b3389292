package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrTotalAmountIsNegative = errors.New("total amount must not be negative")
)

// CreateOrderCommand captures a new order for a tenant.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), tenantID, 125_00)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	tenantID    kernel.UUID
	totalAmount int64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identifiers and the total, in minor units.
func NewCreateOrderCommand(orderID, tenantID kernel.UUID, totalAmount int64) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTenantID(tenantID),
		cmd.setTotalAmount(totalAmount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the ID to assign to the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TenantID returns the tenant that owns the order.
func (c CreateOrderCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// TotalAmount returns the order total in minor currency units.
func (c CreateOrderCommand) TotalAmount() int64 {
	return c.totalAmount
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}
	c.tenantID = tenantID
	return nil
}

func (c *CreateOrderCommand) setTotalAmount(totalAmount int64) error {
	if totalAmount < 0 {
		return ErrTotalAmountIsNegative
	}
	c.totalAmount = totalAmount
	return nil
}
