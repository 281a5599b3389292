// Package services holds the domain services of the fulfillment pipeline.
//
// The package includes:
//   - TransitionValidator: the business rules gating each move, one rule set
//     per target status with per-edge overrides
//   - OrderStateMachine: graph checks plus validation in front of
//     Order.ChangeStatus
//   - SlaMonitor: the pure decision taken by a delayed SLA check
//
// None of these types perform I/O. Locking, persistence and scheduling are
// the job of the command handlers in the application layer.
package services
