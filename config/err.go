package config

import (
	"errors"

	"github.com/ezrec/procsim/translate"
)

var f = translate.From

var (
	ErrRegisters = errors.New(f("registers must be between 1 and 10"))
	ErrMemory    = errors.New(f("memory must be at least 1 cell"))
	ErrSeed      = errors.New(f("seed address out of range"))
	ErrMaxTicks  = errors.New(f("max_ticks must not be negative"))
	ErrPrefixes  = errors.New(f("address prefixes must be letters other than R"))
	ErrOutput    = errors.New(f("output file name missing"))
)

// ErrFile reports a configuration file that could not be used.
type ErrFile struct {
	Path string
	Err  error
}

func (err *ErrFile) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrFile) Unwrap() error {
	return err.Err
}
