package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverRegister(t *testing.T) {
	assert := assert.New(t)

	rs := &Resolver{Registers: 4, Memory: 32}

	table := [](struct {
		word string
		reg  int
	}){
		{"R0", 0},
		{"R3", 3},
		{"R4", INVALID},
		{"R9", INVALID},
		{"R", INVALID},
		{"", INVALID},
		{"X1", INVALID},
		{"RA", INVALID},
		{"R-", INVALID},
		{"10", INVALID},
		{"R12", 1},
	}

	for _, entry := range table {
		assert.Equal(entry.reg, rs.Register(entry.word), entry.word)
	}
}

func TestResolverAddress(t *testing.T) {
	assert := assert.New(t)

	plain := &Resolver{Registers: 4, Memory: 32}
	prefixed := &Resolver{Registers: 4, Memory: 32, Prefixes: "IB"}

	table := [](struct {
		word     string
		plain    int
		prefixed int
	}){
		{"0", 0, 0},
		{"31", 31, 31},
		{"32", INVALID, INVALID},
		{"-1", INVALID, INVALID},
		{"+7", 7, 7},
		{"I3", INVALID, 3},
		{"B18", INVALID, 18},
		{"X3", INVALID, INVALID},
		{"I", INVALID, INVALID},
		{"IB3", INVALID, INVALID},
		{"", INVALID, INVALID},
		{"seven", INVALID, INVALID},
	}

	for _, entry := range table {
		assert.Equal(entry.plain, plain.Address(entry.word), "plain %v", entry.word)
		assert.Equal(entry.prefixed, prefixed.Address(entry.word), "prefixed %v", entry.word)
	}
}

func TestResolverNumber(t *testing.T) {
	assert := assert.New(t)

	rs := &Resolver{Registers: 4, Memory: 4, Prefixes: "b"}

	value, ok := rs.Number("B100")
	assert.True(ok)
	assert.Equal(100, value)

	value, ok = rs.Number("-2")
	assert.True(ok)
	assert.Equal(-2, value)

	_, ok = rs.Number("I1")
	assert.False(ok)
}

func TestLiteral(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word    string
		literal bool
		value   int
		ok      bool
	}){
		{"5", true, 5, true},
		{"+5", true, 5, true},
		{"-12", true, -12, true},
		{"007", true, 7, true},
		{"", false, 0, false},
		{"+", false, 0, false},
		{"-", false, 0, false},
		{"5A", false, 0, false},
		{"I5", false, 0, false},
		{"0x10", false, 0, false},
		{"1-2", false, 0, false},
		{"99999999999999999999999", true, 0, false},
	}

	for _, entry := range table {
		assert.Equal(entry.literal, IsLiteral(entry.word), entry.word)
		value, ok := Literal(entry.word)
		assert.Equal(entry.ok, ok, entry.word)
		assert.Equal(entry.value, value, entry.word)
	}
}
