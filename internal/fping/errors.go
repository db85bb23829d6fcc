package fping

import "github.com/pkg/errors"

var (
	// ErrUnavailable means the fping binary is missing; the prober cannot be created
	ErrUnavailable = errors.New("fping command not found - install the fping package")
	// ErrLaunch means the binary was present but could not be started for a cycle
	ErrLaunch = errors.New("failed to launch fping")
	// ErrLineParse marks a single output line that could not be parsed
	ErrLineParse = errors.New("failed to parse fping line")
	// ErrCycleIO means reading the process output failed mid-cycle
	ErrCycleIO = errors.New("failed to read fping output")
	// ErrCycleInProgress is returned when a cycle is requested while another one runs
	ErrCycleInProgress = errors.New("fping cycle already in progress")
)
