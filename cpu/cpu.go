// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// Default machine shape.
const (
	NUM_REGS = 4  // Registers r0-r3.
	MEM_SIZE = 32 // Memory cells, and maximum program length.
)

//go:generate go tool stringer -linecomment -type=State

// State is the execution state of the machine.
type State int

const (
	STATE_RUNNING      = State(0) // running
	STATE_HALTED       = State(1) // halted
	STATE_OUT_OF_RANGE = State(2) // out of range
)

// Trace is a single fetched instruction.
type Trace struct {
	Pc   int    // Program counter at fetch.
	Line string // Raw source line.
}

func (tr Trace) String() string {
	return fmt.Sprintf("%d %v", tr.Pc, tr.Line)
}

// Snapshot is a copy of the reportable machine state.
type Snapshot struct {
	State    State
	Pc       int
	Register []int
	Memory   []int
	Trace    []Trace
}

// Cpu is the simulation context for the register machine.
type Cpu struct {
	Verbose bool               // Set to enable verbose logging.
	Log     logrus.FieldLogger // Diagnostic logger; nil uses the logrus standard logger.

	Resolver Resolver // Operand resolution policy.

	Pc       int      // Program counter.
	Halted   bool     // Set by HALT.
	Register []int    // Register bank.
	Memory   []int    // Data memory.
	Program  []string // Loaded program lines, as decoded.
	Listing  []string // Source text of each program line; nil if the same as Program.
	Trace    []Trace  // Fetch history.

	Ticks int // Instructions fetched since reset.
}

// NewCpu creates a new CPU with the given number of registers and memory cells.
func NewCpu(registers, memory int) (cpu *Cpu, err error) {
	if registers < 1 || registers > 10 {
		err = ErrConfigRegisters
		return
	}
	if memory < 1 {
		err = ErrConfigMemory
		return
	}

	cpu = &Cpu{
		Resolver: Resolver{Registers: registers, Memory: memory},
		Register: make([]int, registers),
		Memory:   make([]int, memory),
	}

	return
}

func (cpu *Cpu) log() logrus.FieldLogger {
	if cpu.Log == nil {
		return logrus.StandardLogger()
	}
	return cpu.Log
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Clears the program counter, halted flag, and trace.
// The loaded program is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.log().Info(f("cpu: reset"))
	}

	clear(cpu.Register)
	clear(cpu.Memory)
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Trace = nil
	cpu.Ticks = 0
}

// Load installs a program. The program may be no longer than memory.
func (cpu *Cpu) Load(program []string) (err error) {
	if len(program) > len(cpu.Memory) {
		err = ErrProgramTooLong
		return
	}

	cpu.Program = slices.Clone(program)
	cpu.Listing = nil
	cpu.Pc = 0
	cpu.Halted = false

	return
}

// LoadListing installs a program along with the source text of each line.
// The trace records the source text; the program text is decoded.
func (cpu *Cpu) LoadListing(program, listing []string) (err error) {
	if len(listing) != len(program) {
		err = ErrListingLength
		return
	}

	err = cpu.Load(program)
	if err != nil {
		return
	}

	cpu.Listing = slices.Clone(listing)

	return
}

// Line returns the source text of the program line at pc.
func (cpu *Cpu) Line(pc int) string {
	if pc < 0 || pc >= len(cpu.Program) {
		return ""
	}
	if pc < len(cpu.Listing) {
		return cpu.Listing[pc]
	}
	return cpu.Program[pc]
}

// Poke stores a seed value in memory before execution.
func (cpu *Cpu) Poke(addr, value int) (err error) {
	if addr < 0 || addr >= len(cpu.Memory) {
		err = fmt.Errorf("%w: %d", ErrAddressRange, addr)
		return
	}

	cpu.Memory[addr] = value

	return
}

// State returns the execution state.
func (cpu *Cpu) State() State {
	switch {
	case cpu.Halted:
		return STATE_HALTED
	case cpu.Pc < 0 || cpu.Pc >= len(cpu.Program):
		return STATE_OUT_OF_RANGE
	}
	return STATE_RUNNING
}

// Done returns true once the machine has reached a terminal state.
func (cpu *Cpu) Done() bool {
	return cpu.State() != STATE_RUNNING
}

// Fetch returns the line at the program counter, and records its source
// text in the trace.
func (cpu *Cpu) Fetch() (line string, err error) {
	switch cpu.State() {
	case STATE_HALTED:
		err = ErrHalted
		return
	case STATE_OUT_OF_RANGE:
		err = ErrPcRange
		return
	}

	line = cpu.Program[cpu.Pc]
	source := cpu.Line(cpu.Pc)
	cpu.Trace = append(cpu.Trace, Trace{Pc: cpu.Pc, Line: source})
	cpu.Ticks++

	if cpu.Verbose {
		cpu.log().WithFields(logrus.Fields{"pc": cpu.Pc}).Info(source)
	}

	return
}

// Decode tokenizes and resolves a source line.
func (cpu *Cpu) Decode(line string) Instruction {
	return cpu.Resolver.Decode(Tokenize(line))
}

// Tick executes a single fetch, decode, execute cycle.
//
// done is set when the machine is in a terminal state, and nothing was
// executed. A malformed instruction is returned as an *ErrFault; it is
// not fatal, and the program counter has already moved past it.
func (cpu *Cpu) Tick() (done bool, err error) {
	pc := cpu.Pc

	line, err := cpu.Fetch()
	if err != nil {
		done = true
		err = nil
		return
	}

	err = cpu.Execute(cpu.Decode(line))
	if err != nil {
		err = &ErrFault{Pc: pc, Line: cpu.Line(pc), Err: err}
		cpu.log().WithFields(logrus.Fields{
			"pc":   pc,
			"line": cpu.Line(pc),
		}).Warn(err.Error())
	}

	return
}

// Run ticks until the machine reaches a terminal state, and returns it.
// Faults are logged and execution continues.
func (cpu *Cpu) Run() State {
	for {
		done, _ := cpu.Tick()
		if done {
			return cpu.State()
		}
	}
}

// validReg returns true if all the registers are in range.
func (cpu *Cpu) validReg(regs ...int) bool {
	for _, reg := range regs {
		if reg < 0 || reg >= len(cpu.Register) {
			return false
		}
	}
	return true
}

// validAddr returns true if addr is a memory address.
func (cpu *Cpu) validAddr(addr int) bool {
	return addr >= 0 && addr < len(cpu.Memory)
}

// validTarget returns true if target indexes the program.
func (cpu *Cpu) validTarget(target int) bool {
	return target >= 0 && target < len(cpu.Program)
}

// skip logs an instruction whose operands did not resolve.
func (cpu *Cpu) skip(inst Instruction, why error) {
	cpu.log().WithFields(logrus.Fields{
		"pc":     cpu.Pc,
		"opcode": inst.Op,
	}).Debug(f("skipped: %v", why))
}

// Execute applies a decoded instruction to the machine state.
//
// The program counter is advanced by one, unless a branch was taken or
// the instruction was HALT. The returned error is the decode error of a
// malformed instruction, which has no other effect.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Halted {
		return ErrHalted
	}

	next_pc := cpu.Pc + 1

	if inst.Err != nil {
		cpu.Pc = next_pc
		return inst.Err
	}

	reg := cpu.Register
	dst, a, b := inst.Reg[0], inst.Reg[1], inst.Reg[2]

	switch inst.Op {
	case OP_NOP:
		// pass
	case OP_HALT:
		cpu.Halted = true
		return
	case OP_LOAD:
		switch {
		case !cpu.validReg(dst):
			cpu.skip(inst, ErrRegisterInvalid)
		case inst.Immediate:
			reg[dst] = inst.Value
		case len(inst.Words) > 2 && IsLiteral(inst.Words[2]):
			cpu.skip(inst, ErrLiteralInvalid)
		case !cpu.validAddr(inst.Addr):
			cpu.skip(inst, ErrAddressInvalid)
		default:
			reg[dst] = cpu.Memory[inst.Addr]
		}
	case OP_STORE:
		switch {
		case !cpu.validReg(dst):
			cpu.skip(inst, ErrRegisterInvalid)
		case !cpu.validAddr(inst.Addr):
			cpu.skip(inst, ErrAddressInvalid)
		default:
			cpu.Memory[inst.Addr] = reg[dst]
		}
	case OP_MOVE:
		if cpu.validReg(dst, a) {
			reg[dst] = reg[a]
		} else {
			cpu.skip(inst, ErrRegisterInvalid)
		}
	case OP_ADD, OP_SUB, OP_AND, OP_OR:
		if !cpu.validReg(dst, a, b) {
			cpu.skip(inst, ErrRegisterInvalid)
			break
		}
		reg[dst] = doAlu(inst.Op, reg[a], reg[b])
	case OP_BRANCH, OP_BEZERO, OP_BNEG:
		if !cpu.taken(inst.Op) {
			break
		}
		if cpu.validTarget(inst.Addr) {
			next_pc = inst.Addr
		} else {
			cpu.skip(inst, ErrTargetInvalid)
		}
	default:
		err = ErrOpcodeInvalid
	}

	cpu.Pc = next_pc

	return
}

// taken returns true if the branch condition holds.
func (cpu *Cpu) taken(op Opcode) bool {
	switch op {
	case OP_BEZERO:
		return cpu.Register[0] == 0
	case OP_BNEG:
		return cpu.Register[0] < 0
	}
	return true
}

// doAlu performs the requested register arithmetic.
func doAlu(op Opcode, a, b int) (output int) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_SUB:
		output = a - b
	case OP_AND:
		output = a & b
	case OP_OR:
		output = a | b
	}
	return
}

// Snapshot returns a copy of the reportable state.
func (cpu *Cpu) Snapshot() Snapshot {
	return Snapshot{
		State:    cpu.State(),
		Pc:       cpu.Pc,
		Register: slices.Clone(cpu.Register),
		Memory:   slices.Clone(cpu.Memory),
		Trace:    slices.Clone(cpu.Trace),
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "% 6s: %d\n", "pc", cpu.Pc)
	fmt.Fprintf(&sb, "% 6s: %v\n", "state", cpu.State())
	for n, val := range cpu.Register {
		fmt.Fprintf(&sb, "% 6s: %d\n", fmt.Sprintf("r%d", n), val)
	}

	return sb.String()
}
