package source

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrStatus   = errors.New("unexpected response status")
	ErrScheme   = errors.New("unsupported source scheme")
	ErrDecode   = errors.New("decode events failed")
	ErrEmbedded = errors.New("embedded events unavailable")
)
