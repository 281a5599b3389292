// Package kernel holds the shared value objects of the fulfillment domain.
//
// The only primitive today is UUID, the identifier used for orders, tenants,
// vendors and SLA jobs. It wraps github.com/google/uuid, rejects the nil UUID
// and marshals to its canonical text form so identifiers can travel inside
// domain events and JSON columns unchanged.
package kernel
