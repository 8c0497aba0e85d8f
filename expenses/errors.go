package expenses

import (
	"errors"
)

var (
	ErrConfig            = errors.New("invalid configuration")
	ErrAuthentication    = errors.New("authentication failed")
	ErrSourceUnavailable = errors.New("expense service unavailable")
	ErrMalformedRecord   = errors.New("malformed expense record")
	ErrDestinationWrite  = errors.New("spreadsheet write failed")
)
