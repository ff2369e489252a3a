package minicube

import "errors"

// Sentinel errors for the minicube package.
var (
	// ErrInvalidSlot is returned for a slot index outside 0-7.
	ErrInvalidSlot = errors.New("minicube: invalid slot")

	// ErrUnknownFace is returned for a face command outside the six faces.
	// Input handlers treat it as a no-op.
	ErrUnknownFace = errors.New("minicube: unknown face command")

	// ErrTurnInProgress is returned by Submit while a turn is rotating.
	// The command is dropped, not queued.
	ErrTurnInProgress = errors.New("minicube: turn in progress")

	// ErrNoEntropy means the random seed could not be read.
	ErrNoEntropy = errors.New("minicube: no entropy for colour shuffle")

	// ErrInvariant is returned by Validate when the store is inconsistent.
	ErrInvariant = errors.New("minicube: store invariant violated")
)
