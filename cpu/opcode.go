package cpu

import (
	"strings"
)

//go:generate go tool stringer -linecomment -type=Opcode

// Opcode is an instruction mnemonic.
type Opcode int

const (
	OP_INVALID = Opcode(iota) // (invalid)
	OP_NOP                    // NOP
	OP_HALT                   // HALT
	OP_LOAD                   // LOAD
	OP_STORE                  // STORE
	OP_MOVE                   // MOVE
	OP_ADD                    // ADD
	OP_SUB                    // SUB
	OP_AND                    // AND
	OP_OR                     // OR
	OP_BRANCH                 // BRANCH
	OP_BEZERO                 // BEZERO
	OP_BNEG                   // BNEG
)

// Number of operand words each opcode requires.
var _opcode_operands = [...]int{
	OP_INVALID: 0,
	OP_NOP:     0,
	OP_HALT:    0,
	OP_LOAD:    2,
	OP_STORE:   2,
	OP_MOVE:    2,
	OP_ADD:     3,
	OP_SUB:     3,
	OP_AND:     3,
	OP_OR:      3,
	OP_BRANCH:  1,
	OP_BEZERO:  1,
	OP_BNEG:    1,
}

// opcodeMap maps mnemonics to opcodes.
var opcodeMap = map[string]Opcode{}

func init() {
	for op := OP_NOP; op <= OP_BNEG; op++ {
		opcodeMap[op.String()] = op
	}
}

// Operands returns the number of operand words the opcode requires.
func (op Opcode) Operands() int {
	if op < 0 || int(op) >= len(_opcode_operands) {
		return 0
	}
	return _opcode_operands[op]
}

// Branch returns true for the control transfer opcodes.
func (op Opcode) Branch() bool {
	return op == OP_BRANCH || op == OP_BEZERO || op == OP_BNEG
}

// LookupOpcode returns the opcode for a mnemonic.
func LookupOpcode(word string) (op Opcode, ok bool) {
	op, ok = opcodeMap[strings.ToUpper(word)]
	return
}

// Instruction is a decoded line, with all operands already resolved.
//
// Unused operand fields are INVALID. Err is set when the line is
// malformed (unknown opcode, or missing operands), in which case the
// instruction has no effect.
type Instruction struct {
	Op        Opcode
	Words     []string // Tokenized source words.
	Reg       [3]int   // Register operands, in source order.
	Addr      int      // Memory address, or branch target.
	Value     int      // Literal value, when Immediate is set.
	Immediate bool     // LOAD source is a literal.
	Err       error    // Decode error, if malformed.
}

// Decode converts a tokenized line into an Instruction.
//
// Operands that do not resolve are left INVALID, and skipped at execution
// time; only an unknown opcode or a short operand list sets Err.
func (rs *Resolver) Decode(words []string) (inst Instruction) {
	inst = Instruction{
		Op:    OP_NOP,
		Words: words,
		Reg:   [3]int{INVALID, INVALID, INVALID},
		Addr:  INVALID,
	}

	// Blank lines only reach the decoder when the loader is bypassed.
	if len(words) == 0 {
		return
	}

	op, ok := LookupOpcode(words[0])
	if !ok {
		inst.Op = OP_INVALID
		inst.Err = ErrOpcodeInvalid
		return
	}
	inst.Op = op

	args := words[1:]
	if len(args) < op.Operands() {
		inst.Err = ErrOperandMissing
		return
	}

	switch op {
	case OP_LOAD:
		inst.Reg[0] = rs.Register(args[0])
		if IsLiteral(args[1]) {
			inst.Immediate = true
			value, ok := Literal(args[1])
			if ok {
				inst.Value = value
			} else {
				inst.Immediate = false
			}
		} else {
			inst.Addr = rs.Address(args[1])
		}
	case OP_STORE:
		inst.Addr = rs.Address(args[0])
		inst.Reg[0] = rs.Register(args[1])
	case OP_MOVE:
		inst.Reg[0] = rs.Register(args[0])
		inst.Reg[1] = rs.Register(args[1])
	case OP_ADD, OP_SUB, OP_AND, OP_OR:
		for n := range 3 {
			inst.Reg[n] = rs.Register(args[n])
		}
	case OP_BRANCH, OP_BEZERO, OP_BNEG:
		target, ok := rs.Number(args[0])
		if ok {
			inst.Addr = target
		}
	case OP_NOP, OP_HALT:
		// no operands
	}

	return
}

// String returns the canonical assembly text of the instruction.
func (inst Instruction) String() string {
	if inst.Op == OP_INVALID {
		return strings.Join(inst.Words, " ")
	}
	return strings.Join(append([]string{inst.Op.String()}, inst.operandWords()...), " ")
}

func (inst Instruction) operandWords() (words []string) {
	if len(inst.Words) > 1 {
		words = inst.Words[1:]
	}
	if n := inst.Op.Operands(); len(words) > n {
		words = words[:n]
	}
	return
}
