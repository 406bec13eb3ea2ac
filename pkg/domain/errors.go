package domain

import "errors"

// ErrSourceUnavailable is returned when the source document cannot be read or is empty.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrGraphValidation is the root of every graph construction failure.
var ErrGraphValidation = errors.New("graph validation failed")

// ErrEmptyGraph is returned when a definition holds no nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// ErrNodeNotFound is returned when a node ID is not part of the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrInvalidSessionState is returned when a session cursor points outside the graph.
var ErrInvalidSessionState = errors.New("invalid session state")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
