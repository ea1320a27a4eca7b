// Package cpu implements the processor and program loader for the
// procsim register machine.
//
// The machine has a small bank of signed integer registers (r0-r3 by
// default), a fixed-size word addressed memory, a program counter that
// indexes the loaded program, and a halted flag. Each Tick fetches the
// source line at the program counter, records it in the trace, decodes
// it into an Instruction, and applies its effect.
//
// The loader reads mnemonic program text, supporting comments, .equ and
// .data directives, and compile-time $(...) expression evaluation.
package cpu
