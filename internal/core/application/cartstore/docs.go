// Package cartstore implements the local-first cart service. Cart mutations
// apply to an in-memory working copy, persist through the cart repository,
// and enqueue sync mutations mirroring them for backend replay. When storage
// fails the working copy stays authoritative and the queued mutations are
// flushed with the next successful write.
package cartstore
