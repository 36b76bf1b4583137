// Package driver implements the Driver aggregate: identity, quality rating,
// availability status, and the last reported position. The dispatch matcher
// reads drivers from this package to score assignment candidates, and location
// heartbeats flow through it to keep positions fresh.
package driver
