package transactions

import "errors"

var (
	errInvalidPage  = errors.New("invalid query parameter page")
	errInvalidLimit = errors.New("invalid query parameter limit")
)
