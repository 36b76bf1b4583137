// Package syncqueue models the durable queue of local-first writes awaiting
// replay against the platform backend. Mutations are enqueued in the same
// transaction as the local write and dequeued only once the backend accepts
// them, so an offline session never loses buyer actions.
package syncqueue
