// Package store holds the in-memory mirrors of server state: orders,
// trades, positions, quotes, and notifications. Each store owns its
// entities exclusively; every mutation reclassifies partitions and
// recomputes derived aggregates inside the same critical section, so
// observers never see a transient inconsistent state.
package store
