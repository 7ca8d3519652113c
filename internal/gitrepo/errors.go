// Package gitrepo implements the version-control port on top of go-git.
package gitrepo

import "errors"

// ErrNoRemoteSnapshot is returned when the remote-tracking branch has no
// recorded state yet, i.e. nothing has ever been pushed. Callers can check
// for it with errors.Is().
var ErrNoRemoteSnapshot = errors.New("remote snapshot does not exist")
