package cpu

import (
	"errors"

	"github.com/ezrec/procsim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcRange         = errors.New(f("pc out of range"))
	ErrHalted          = errors.New(f("halted"))
	ErrProgramTooLong  = errors.New(f("program larger than memory"))
	ErrListingLength   = errors.New(f("listing does not match program"))
	ErrAddressRange    = errors.New(f("address out of range"))
	ErrConfigRegisters = errors.New(f("register count invalid"))
	ErrConfigMemory    = errors.New(f("memory size invalid"))

	// Instruction decode errors
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrAddressInvalid  = errors.New(f("address invalid"))
	ErrLiteralInvalid  = errors.New(f("literal invalid"))
	ErrTargetInvalid   = errors.New(f("target invalid"))

	// Loader errors
	ErrProgramFull        = errors.New(f("too many instructions"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrDataSyntax         = errors.New(f(".data syntax"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrExpressionNotValue = errors.New(f("expression is not an integer"))
)

// ErrFault reports a malformed instruction encountered at run time.
// The machine has already advanced past it.
type ErrFault struct {
	Pc   int
	Line string
	Err  error
}

func (err *ErrFault) Error() string {
	return f("pc %d '%v' %v", err.Pc, err.Line, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrSyntax reports a loader error at a source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
