package domain

import "errors"

// ErrNodeNotFound is returned when a node ID cannot be resolved by the tree provider.
var ErrNodeNotFound = errors.New("node not found")

// ErrRootNotFound is returned when the cascade root does not exist or is soft-deleted.
var ErrRootNotFound = errors.New("cascade root not found")

// ErrRunActive is returned by Start while another cascade is still running.
var ErrRunActive = errors.New("a cascade is already active")

// ErrResultNotFound is returned when a result store has no entry for a run/node pair.
var ErrResultNotFound = errors.New("result not found")
