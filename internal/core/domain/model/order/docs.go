// Package order models the Order aggregate of the fulfillment pipeline.
//
// The package includes:
//   - Status: the closed set of pipeline statuses and their adjacency table
//   - SlaPolicy: the static time budget and escalation ladder per status
//   - SlaWindow: the single active time budget of an order
//   - Order: the aggregate root that changes status, rotates its window and
//     records breaches and escalations
//   - StatusChanged, OrderSlaBreached, OrderSlaEscalated: the domain events
//   - SlaCheck: the payload of a delayed SLA job
//
// Key business rules:
//   - an order moves only along the adjacency table and never to its own status
//   - a status change replaces the SLA window with one built from the target
//     status policy, started at the moment of the change
//   - a window is breached at most once and each escalation step fires at most
//     once; only the targeted field is mutated
//
// Business validation of a move (vendor assigned, tracking number present and
// so on) lives in the services package; the aggregate guards the graph only.
package order
