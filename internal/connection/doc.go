// Package connection manages the persistent websocket channels to the
// trading backend: one Manager per logical channel path, each owning a
// single Client, its heartbeat, its reconnect schedule, and the set of
// topic subscriptions replayed after every reconnect.
package connection
