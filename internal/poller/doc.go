// Package poller runs the pull side of the sync engine: fixed-interval
// REST fetches per entity type, applied to the stores through the same
// reconciler as push events.
package poller
