// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package monitor is an interactive command line debugger for the emulator.
package monitor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ezrec/procsim/emulator"
	"github.com/ezrec/procsim/report"
)

// PROMPT is the monitor command prompt.
const PROMPT = "(procsim) "

// LineReader supplies command lines. *readline.Instance is a LineReader.
type LineReader interface {
	Readline() (string, error)
}

// Monitor drives an emulator from text commands.
type Monitor struct {
	Emu         *emulator.Emulator
	Out         io.Writer
	Breakpoints map[int]bool // Program counters to stop at.
}

type command struct {
	name string
	args string
	help string
	exec func(mon *Monitor, args []string) (quit bool, err error)
}

var commands []command

func init() {
	commands = []command{
		{"step", "[n]", "execute n instructions (default 1)", (*Monitor).cmdStep},
		{"run", "", "reset, then run to a breakpoint or the end", (*Monitor).cmdRun},
		{"continue", "", "run to a breakpoint or the end", (*Monitor).cmdContinue},
		{"break", "PC", "stop before the instruction at PC", (*Monitor).cmdBreak},
		{"clear", "[PC]", "remove one, or all, breakpoints", (*Monitor).cmdClear},
		{"regs", "", "show the register bank", (*Monitor).cmdRegs},
		{"mem", "[from [to]]", "show memory; without a range only non-zero cells", (*Monitor).cmdMem},
		{"trace", "", "show the fetch history", (*Monitor).cmdTrace},
		{"state", "", "show the machine state", (*Monitor).cmdState},
		{"reset", "", "reset the machine and reload seeds", (*Monitor).cmdReset},
		{"help", "", "show this help", (*Monitor).cmdHelp},
		{"quit", "", "leave the monitor", (*Monitor).cmdQuit},
	}
}

// NewMonitor creates a monitor for an emulator.
func NewMonitor(emu *emulator.Emulator, out io.Writer) *Monitor {
	return &Monitor{
		Emu:         emu,
		Out:         out,
		Breakpoints: map[int]bool{},
	}
}

// NewReadline creates a line editor with history and command completion.
func NewReadline(historyFile string) (rl *readline.Instance, err error) {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		items = append(items, readline.PcItem(cmd.name))
	}

	rl, err = readline.NewEx(&readline.Config{
		Prompt:          PROMPT,
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})

	return
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (sr *scanReader) Readline() (line string, err error) {
	if !sr.scanner.Scan() {
		err = sr.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}
	line = sr.scanner.Text()
	return
}

// NewScriptReader reads commands from a plain stream, one per line.
func NewScriptReader(r io.Reader) LineReader {
	return &scanReader{scanner: bufio.NewScanner(r)}
}

// Run executes commands until quit, or the end of input.
// Command errors are printed, and do not stop the monitor.
func (mon *Monitor) Run(input LineReader) (err error) {
	for {
		var line string
		line, err = input.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		quit, cerr := mon.Exec(line)
		if cerr != nil {
			fmt.Fprintln(mon.Out, cerr)
		}
		if quit {
			return
		}
	}
}

// Exec executes a single command line. Blank lines are ignored.
func (mon *Monitor) Exec(line string) (quit bool, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	name := strings.ToLower(words[0])
	for _, cmd := range commands {
		// A single letter selects the first command starting with it.
		if cmd.name == name || (len(name) == 1 && cmd.name[0] == name[0]) {
			return cmd.exec(mon, words[1:])
		}
	}

	if name == "exit" {
		return true, nil
	}

	err = fmt.Errorf("%w: %v", ErrCommand, words[0])
	return
}

// where prints the next instruction, or the terminal state.
func (mon *Monitor) where() {
	cp := mon.Emu.Cpu
	if cp.Done() {
		fmt.Fprintln(mon.Out, f("%v at pc %d after %d ticks", cp.State(), cp.Pc, cp.Ticks))
		return
	}
	fmt.Fprintln(mon.Out, f("%d: %v (line %d)", cp.Pc, cp.Line(cp.Pc), mon.Emu.LineNo()))
}

func argInt(args []string, n int, def int) (value int, err error) {
	if len(args) <= n {
		value = def
		return
	}
	value, err = strconv.Atoi(args[n])
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrArgument, args[n])
	}
	return
}

func (mon *Monitor) cmdStep(args []string) (quit bool, err error) {
	count, err := argInt(args, 0, 1)
	if err != nil {
		return
	}
	if count < 1 {
		err = fmt.Errorf("%w: %d", ErrArgument, count)
		return
	}

	for range count {
		var done bool
		done, err = mon.Emu.Tick()
		if done || err != nil {
			break
		}
	}

	mon.where()

	return
}

// resume ticks until the machine stops, or the program counter reaches a
// breakpoint. If skip is set, a breakpoint at the current program counter
// is stepped over.
func (mon *Monitor) resume(skip bool) (err error) {
	for {
		if !skip && mon.Breakpoints[mon.Emu.Cpu.Pc] && !mon.Emu.Cpu.Done() {
			fmt.Fprintln(mon.Out, f("breakpoint at pc %d", mon.Emu.Cpu.Pc))
			break
		}
		skip = false

		var done bool
		done, err = mon.Emu.Tick()
		if done || err != nil {
			break
		}
	}

	mon.where()

	return
}

func (mon *Monitor) cmdRun(args []string) (quit bool, err error) {
	err = mon.Emu.Reset()
	if err != nil {
		return
	}

	err = mon.resume(false)
	return
}

func (mon *Monitor) cmdContinue(args []string) (quit bool, err error) {
	err = mon.resume(true)
	return
}

func (mon *Monitor) cmdBreak(args []string) (quit bool, err error) {
	if len(args) == 0 {
		for _, pc := range slices.Sorted(maps.Keys(mon.Breakpoints)) {
			fmt.Fprintln(mon.Out, f("break %d", pc))
		}
		return
	}

	pc, err := argInt(args, 0, 0)
	if err != nil {
		return
	}
	if pc < 0 || pc >= len(mon.Emu.Cpu.Program) {
		err = fmt.Errorf("%w: %d", ErrBreakpoint, pc)
		return
	}

	mon.Breakpoints[pc] = true

	return
}

func (mon *Monitor) cmdClear(args []string) (quit bool, err error) {
	if len(args) == 0 {
		clear(mon.Breakpoints)
		return
	}

	pc, err := argInt(args, 0, 0)
	if err != nil {
		return
	}

	delete(mon.Breakpoints, pc)

	return
}

func (mon *Monitor) cmdRegs(args []string) (quit bool, err error) {
	report.Registers(mon.Out, mon.Emu.Cpu.Register)
	return
}

func (mon *Monitor) cmdMem(args []string) (quit bool, err error) {
	mem := mon.Emu.Cpu.Memory
	if len(args) == 0 {
		report.Memory(mon.Out, mem, 0, len(mem), false)
		return
	}

	from, err := argInt(args, 0, 0)
	if err != nil {
		return
	}
	to, err := argInt(args, 1, from+1)
	if err != nil {
		return
	}

	report.Memory(mon.Out, mem, from, to, true)

	return
}

func (mon *Monitor) cmdTrace(args []string) (quit bool, err error) {
	report.Trace(mon.Out, mon.Emu.Cpu.Trace)
	return
}

func (mon *Monitor) cmdState(args []string) (quit bool, err error) {
	fmt.Fprint(mon.Out, mon.Emu.Cpu.String())
	fmt.Fprintln(mon.Out, f("% 6s: %d", "ticks", mon.Emu.Ticks()))
	fmt.Fprintln(mon.Out, f("% 6s: %d", "faults", mon.Emu.Faults))
	return
}

func (mon *Monitor) cmdReset(args []string) (quit bool, err error) {
	err = mon.Emu.Reset()
	if err != nil {
		return
	}

	mon.where()

	return
}

func (mon *Monitor) cmdHelp(args []string) (quit bool, err error) {
	for _, cmd := range commands {
		fmt.Fprintf(mon.Out, "%-10s %-12s %v\n", cmd.name, cmd.args, f(cmd.help))
	}
	return
}

func (mon *Monitor) cmdQuit(args []string) (quit bool, err error) {
	quit = true
	return
}
