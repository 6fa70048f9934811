package initiative

import "errors"

var (
	ErrUnknownEntry     = errors.New("unknown initiative entry")
	ErrPermissionDenied = errors.New("permission denied")
)
