package cpu

import (
	"strconv"
	"strings"
)

// INVALID is returned by the resolver for an operand that does not resolve.
const INVALID = -1

// Resolver converts operand words into register indexes, memory addresses,
// and literal values for a machine of a given shape.
//
// The zero prefix set accepts only plain decimal addresses. Setting
// Prefixes to "IB" also accepts the I3 / B7 spellings, with the prefix
// letter dropped before parsing.
type Resolver struct {
	Registers int    // Number of registers.
	Memory    int    // Number of memory cells.
	Prefixes  string // Optional address prefix letters.
}

// Register returns the register index named by word, or INVALID.
func (rs *Resolver) Register(word string) int {
	if len(word) < 2 || word[0] != 'R' {
		return INVALID
	}

	digit := word[1]
	if digit < '0' || digit > '9' {
		return INVALID
	}

	reg := int(digit - '0')
	if reg >= rs.Registers {
		return INVALID
	}

	return reg
}

// Number parses word as a signed decimal value, after dropping one
// leading prefix letter when that letter is in the prefix set.
func (rs *Resolver) Number(word string) (value int, ok bool) {
	if len(word) == 0 {
		return
	}

	if len(rs.Prefixes) != 0 && strings.ContainsRune(strings.ToUpper(rs.Prefixes), rune(word[0])) {
		word = word[1:]
	}

	value, err := strconv.Atoi(word)
	if err != nil {
		return 0, false
	}

	return value, true
}

// Address returns the memory address named by word, or INVALID when it
// does not parse or lies outside of memory.
func (rs *Resolver) Address(word string) int {
	addr, ok := rs.Number(word)
	if !ok || addr < 0 || addr >= rs.Memory {
		return INVALID
	}

	return addr
}

// IsLiteral returns true if word is an optionally signed run of decimal digits.
func IsLiteral(word string) bool {
	if len(word) > 0 && (word[0] == '+' || word[0] == '-') {
		word = word[1:]
	}

	if len(word) == 0 {
		return false
	}

	for _, c := range []byte(word) {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// Literal returns the value of a literal word. ok is false if word is not
// a literal, or does not fit in an int.
func Literal(word string) (value int, ok bool) {
	if !IsLiteral(word) {
		return
	}

	value, err := strconv.Atoi(word)
	if err != nil {
		return 0, false
	}

	return value, true
}
