package monitor

import (
	"errors"

	"github.com/ezrec/procsim/translate"
)

var f = translate.From

var (
	ErrCommand    = errors.New(f("unknown command"))
	ErrArgument   = errors.New(f("invalid argument"))
	ErrBreakpoint = errors.New(f("breakpoint outside of program"))
)
