package main

import (
	"os"
	"os/user"
)

// osUserName resolves the invoking user's name for audit events, falling
// back to the USER environment variable if the os/user lookup fails (e.g.
// inside a minimal container).
func osUserName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
