// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Seed is an initial memory value.
type Seed struct {
	Addr   int
	Value  int
	LineNo int // Source line of the .data directive.
}

// Program is a loaded program listing.
type Program struct {
	Lines  []string // Trimmed source lines, one per instruction.
	Code   []string // Lines with $(...) expanded, as decoded.
	LineNo []int    // Source line number of each instruction.
	Seeds  []Seed   // Memory seeds from .data directives.
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.Lines)
}

// LineOf returns the source line number for a program counter, or 0.
func (prog *Program) LineOf(pc int) int {
	if pc < 0 || pc >= len(prog.LineNo) {
		return 0
	}
	return prog.LineNo[pc]
}

// Loader reads program source text into a Program.
type Loader struct {
	Verbose  bool               // If set, verbosely logs the loader actions.
	Log      logrus.FieldLogger // Diagnostic logger; nil uses the logrus standard logger.
	MaxLines int                // Maximum number of instructions; 0 is unlimited.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

func (ld *Loader) log() logrus.FieldLogger {
	if ld.Log == nil {
		return logrus.StandardLogger()
	}
	return ld.Log
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":   "0",
	"MEM_SIZE": fmt.Sprintf("%d", MEM_SIZE),
	"NUM_REGS": fmt.Sprintf("%d", NUM_REGS),
}

// Predefine defines a new equate or redefines an existing equate.
func (ld *Loader) Predefine(equ string, value string) {
	if ld.predefine == nil {
		ld.predefine = map[string]string{equ: value}
	} else {
		ld.predefine[equ] = value
	}
}

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// parenEval does load-time $(...) evaluations.
func (ld *Loader) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range ld.Equate {
		v64, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), ErrExpressionNotValue)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// expand replaces every $(...) before the comment with its decimal value.
func (ld *Loader) expand(line string) (out string, err error) {
	code, comment, commented := strings.Cut(line, COMMENT)
	out = reParen.ReplaceAllStringFunc(code, func(str string) string {
		value, _err := ld.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return fmt.Sprintf("%d", value)
	})
	if commented {
		out += COMMENT + comment
	}
	return
}

// valueOf returns the integer value of a directive word.
func (ld *Loader) valueOf(word string) (value int, err error) {
	if equ, ok := ld.Equate[word]; ok {
		word = equ
	}
	v64, err := strconv.ParseInt(word, 0, strconv.IntSize)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}
	value = int(v64)
	return
}

// directive handles a '.' line. words are case preserved.
func (ld *Loader) directive(prog *Program, lineno int, words []string) (err error) {
	switch strings.ToLower(words[0]) {
	case ".equ":
		// .equ NAME VALUE
		if len(words) != 3 {
			return ErrEquateSyntax
		}
		if _, ok := ld.Equate[words[1]]; ok {
			return ErrEquateDuplicate
		}
		ld.Equate[words[1]] = words[2]
	case ".data":
		// .data ADDR VALUE [VALUE...]
		if len(words) < 3 {
			return ErrDataSyntax
		}
		var addr int
		addr, err = ld.valueOf(words[1])
		if err != nil {
			return
		}
		for n, word := range words[2:] {
			var value int
			value, err = ld.valueOf(word)
			if err != nil {
				return
			}
			prog.Seeds = append(prog.Seeds, Seed{Addr: addr + n, Value: value, LineNo: lineno})
		}
	default:
		return ErrDirectiveInvalid
	}

	return
}

// Parse parses an input stream into a Program.
//
// Blank and comment-only lines are skipped. Every other line, trimmed of
// surrounding whitespace, is one instruction. Lines keeps the text as
// written; Code holds the text after $(...) expansion.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line, code string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	ld.Equate = maps.Clone(sysEquate)
	maps.Copy(ld.Equate, ld.predefine)

	prog = &Program{}

	for scanner.Scan() {
		lineno += 1
		line = strings.TrimSpace(scanner.Text())

		if ld.Verbose {
			ld.log().WithFields(logrus.Fields{"line": lineno}).Info(line)
		}

		ld.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

		code, err = ld.expand(line)
		if err != nil {
			return
		}

		if len(Tokenize(code)) == 0 {
			continue
		}

		if strings.HasPrefix(code, ".") {
			text, _, _ := strings.Cut(code, COMMENT)
			err = ld.directive(prog, lineno, strings.Fields(text))
			if err != nil {
				return
			}
			continue
		}

		if ld.MaxLines > 0 && len(prog.Lines) >= ld.MaxLines {
			err = ErrProgramFull
			return
		}

		prog.Lines = append(prog.Lines, line)
		prog.Code = append(prog.Code, code)
		prog.LineNo = append(prog.LineNo, lineno)
	}

	err = scanner.Err()

	return
}
