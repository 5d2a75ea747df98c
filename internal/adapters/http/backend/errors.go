package backend

import "errors"

// Sentinel kinds for backend errors.
var (
	ErrQuery  = errors.New("event query failed")
	ErrRender = errors.New("render events page failed")
)
