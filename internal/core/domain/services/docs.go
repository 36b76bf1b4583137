// Package services provides domain services that orchestrate business
// operations across multiple aggregates.
//
// The package includes:
//   - DriverDispatcher: scores available drivers against a dispatch-eligible
//     order and executes the winning assignment
//
// Domain services hold the logic that does not naturally belong to a single
// aggregate root, following Domain-Driven Design principles.
package services
