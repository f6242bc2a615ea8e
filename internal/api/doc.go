// Package api is the REST client for the trading backend, used by the
// polling path and for initial hydration. It is a collaborator of the
// sync engine, not part of it: the engine only depends on the Feed
// interface.
package api
