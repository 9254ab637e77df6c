package reconcile

import "errors"

var ErrNoDrift = errors.New("earnings already match credited chores")
