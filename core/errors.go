package core

import "errors"

var (
	// ErrInvalidParameter is returned when mesh or body parameters are out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAssetLoad is returned when a texture or font asset cannot be loaded.
	ErrAssetLoad = errors.New("asset load error")

	// ErrGraphicsBackend is returned when the window or GL context cannot be created.
	ErrGraphicsBackend = errors.New("graphics backend error")

	// ErrOrbitCycle is returned when an orbit focus would make a body orbit itself.
	ErrOrbitCycle = errors.New("orbit cycle")

	// ErrUnknownBody is returned for a body ID or name not present in the system.
	ErrUnknownBody = errors.New("unknown body")
)
