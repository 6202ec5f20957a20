package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid solver config")

func assertf(cond bool, format string, args ...any) {
	if debugChecks && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
