package status

import "errors"

// ErrAlreadyStopped is returned by Server.Stop once the server has already
// completed its shutdown.
var ErrAlreadyStopped = errors.New("server is already stopped")
