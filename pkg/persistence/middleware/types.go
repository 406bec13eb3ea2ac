// Package middleware wraps a ports.StateStore with persistence-side concerns:
// redacting personal data from answers and encrypting snapshots at rest.
package middleware

import "github.com/aretw0/scriptflow/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain wraps store so that the first middleware sees calls first.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
