package pods

import "errors"

// Canonical errors shared across CPU/GPU builds.
var (
	ErrNoGPU      = errors.New("gpu unavailable (build with -tags=gpu to enable)")
	ErrEmptyInput = errors.New("pods: input is empty")
)
