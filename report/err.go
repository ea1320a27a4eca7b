package report

import (
	"github.com/ezrec/procsim/translate"
)

var f = translate.From

// ErrWrite reports a report file that could not be written.
type ErrWrite struct {
	Name string
	Err  error
}

func (err *ErrWrite) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrWrite) Unwrap() error {
	return err.Err
}
