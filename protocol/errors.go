package protocol

import "errors"

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrUnexpectedEOF  = errors.New("unexpected end of input")
)
