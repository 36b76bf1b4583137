// Package order implements the Order aggregate and its delivery lifecycle.
//
// An order is created at checkout in Pending status and advances through
// Confirmed, Preparing, OutForDelivery, and Delivered; Cancelled is reachable
// from any pre-pickup status. The Status value object enforces the transition
// graph, Actor gates transitions by role, and every applied move is appended
// to the order's history, which backs the tracking timeline and audit trail.
package order
