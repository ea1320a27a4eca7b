package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcode(t *testing.T) {
	assert := assert.New(t)

	for _, name := range []string{"NOP", "HALT", "LOAD", "STORE", "MOVE", "ADD", "SUB", "AND", "OR", "BRANCH", "BEZERO", "BNEG"} {
		op, ok := LookupOpcode(name)
		assert.True(ok, name)
		assert.Equal(name, op.String())
	}

	op, ok := LookupOpcode("halt")
	assert.True(ok)
	assert.Equal(OP_HALT, op)

	_, ok = LookupOpcode("JUMP")
	assert.False(ok)

	_, ok = LookupOpcode(OP_INVALID.String())
	assert.False(ok)
	assert.Equal("(invalid)", OP_INVALID.String())
	assert.Equal(12, len(opcodeMap))

	assert.Equal("Opcode(99)", Opcode(99).String())
	assert.Equal(0, Opcode(99).Operands())

	assert.Equal(2, OP_LOAD.Operands())
	assert.Equal(3, OP_OR.Operands())
	assert.Equal(1, OP_BNEG.Operands())
	assert.True(OP_BEZERO.Branch())
	assert.False(OP_HALT.Branch())
}

func TestState(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("running", STATE_RUNNING.String())
	assert.Equal("halted", STATE_HALTED.String())
	assert.Equal("out of range", STATE_OUT_OF_RANGE.String())
	assert.Equal("State(7)", State(7).String())
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	rs := &Resolver{Registers: 4, Memory: 32, Prefixes: "IB"}

	none := [3]int{INVALID, INVALID, INVALID}

	table := [](struct {
		line string
		inst Instruction
	}){
		{"LOAD R0 5", Instruction{Op: OP_LOAD, Reg: [3]int{0, INVALID, INVALID}, Addr: INVALID, Value: 5, Immediate: true}},
		{"LOAD R1 -3", Instruction{Op: OP_LOAD, Reg: [3]int{1, INVALID, INVALID}, Addr: INVALID, Value: -3, Immediate: true}},
		{"LOAD R1 I18", Instruction{Op: OP_LOAD, Reg: [3]int{1, INVALID, INVALID}, Addr: 18}},
		{"LOAD R7 I18", Instruction{Op: OP_LOAD, Reg: none, Addr: 18}},
		{"LOAD R1 X18", Instruction{Op: OP_LOAD, Reg: [3]int{1, INVALID, INVALID}, Addr: INVALID}},
		{"STORE 10 R2", Instruction{Op: OP_STORE, Reg: [3]int{2, INVALID, INVALID}, Addr: 10}},
		{"MOVE R3 R0", Instruction{Op: OP_MOVE, Reg: [3]int{3, 0, INVALID}, Addr: INVALID}},
		{"ADD R2 R0 R1", Instruction{Op: OP_ADD, Reg: [3]int{2, 0, 1}, Addr: INVALID}},
		{"SUB R2 R0 R9", Instruction{Op: OP_SUB, Reg: [3]int{2, 0, INVALID}, Addr: INVALID}},
		{"BRANCH 3", Instruction{Op: OP_BRANCH, Reg: none, Addr: 3}},
		{"BEZERO B40", Instruction{Op: OP_BEZERO, Reg: none, Addr: 40}},
		{"BNEG ELSEWHERE", Instruction{Op: OP_BNEG, Reg: none, Addr: INVALID}},
		{"NOP", Instruction{Op: OP_NOP, Reg: none, Addr: INVALID}},
		{"HALT NOW", Instruction{Op: OP_HALT, Reg: none, Addr: INVALID}},
		{"", Instruction{Op: OP_NOP, Reg: none, Addr: INVALID}},
		{"JUMP 3", Instruction{Op: OP_INVALID, Reg: none, Addr: INVALID, Err: ErrOpcodeInvalid}},
		{"ADD R0 R1", Instruction{Op: OP_ADD, Reg: none, Addr: INVALID, Err: ErrOperandMissing}},
		{"BRANCH", Instruction{Op: OP_BRANCH, Reg: none, Addr: INVALID, Err: ErrOperandMissing}},
	}

	for _, entry := range table {
		words := Tokenize(entry.line)
		entry.inst.Words = words
		assert.Equal(entry.inst, rs.Decode(words), entry.line)
	}
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	rs := &Resolver{Registers: 4, Memory: 32}

	assert.Equal("ADD R2 R0 R1", rs.Decode(Tokenize("add r2 r0 r1 r3 # extra")).String())
	assert.Equal("HALT", rs.Decode(Tokenize("halt")).String())
	assert.Equal("FOO BAR", rs.Decode(Tokenize("foo bar")).String())
}
