package main

import (
	"context"
	"errors"
	"os"
)

// Exit codes, spec.md §6: 0 full success, 1 nothing discovered / nothing to
// act on, 2 partial or total operational failure, 130 user interrupt.
const (
	exitSuccess      = 0
	exitNothingToDo  = 1
	exitFailure      = 2
	exitInterrupted  = 130
)

// exitCodeForDelivery maps a Delivery Engine result to spec.md §6's exit
// code contract: zero targets is "nothing to act on," a non-empty error map
// is a partial or total failure, anything else is full success.
func exitCodeForDelivery(targetCount int, errs map[string]string) int {
	if targetCount == 0 {
		return exitNothingToDo
	}
	if len(errs) > 0 {
		return exitFailure
	}
	return exitSuccess
}

// exitCodeForError maps a top-level command error to an exit code: context
// cancellation (user interrupt, e.g. Ctrl-C) is 130, everything else is a
// generic operational failure.
func exitCodeForError(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	return exitFailure
}

func exit(code int) {
	os.Exit(code)
}
