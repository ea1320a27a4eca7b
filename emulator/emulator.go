// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator hosts a cpu.Cpu with its configuration and program
// listing, and writes the end of run reports.
package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/procsim/config"
	"github.com/ezrec/procsim/cpu"
	"github.com/ezrec/procsim/internal"
	"github.com/ezrec/procsim/report"
)

// Emulator state. CPU + program + configuration.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.
	Config   config.Config

	Faults int // Malformed instructions seen since reset.
}

// NewEmulator creates a new emulator for a configuration.
func NewEmulator(cfg config.Config) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	cp, err := cpu.NewCpu(cfg.Registers, cfg.Memory)
	if err != nil {
		return
	}
	cp.Resolver.Prefixes = cfg.AddressPrefixes

	emu = &Emulator{
		Cpu:     cp,
		Program: &cpu.Program{},
		Config:  cfg,
	}

	return
}

// SetLogger sets the diagnostic logger of the CPU and the loader.
func (emu *Emulator) SetLogger(log logrus.FieldLogger) {
	emu.Cpu.Log = log
}

// Loader returns a program loader sized for this machine.
func (emu *Emulator) Loader() *cpu.Loader {
	ld := &cpu.Loader{
		Verbose:  emu.Verbose,
		Log:      emu.Cpu.Log,
		MaxLines: emu.Config.Memory,
	}
	ld.Predefine("MEM_SIZE", fmt.Sprintf("%d", emu.Config.Memory))
	ld.Predefine("NUM_REGS", fmt.Sprintf("%d", emu.Config.Registers))

	return ld
}

// Load parses program source text, and resets the machine to run it.
func (emu *Emulator) Load(input io.Reader) (err error) {
	prog, err := emu.Loader().Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog

	err = emu.Reset()

	return
}

// Reset the machine state.
// - Clears registers, memory, trace and counters.
// - Applies configuration seeds, then program .data seeds.
// - Installs the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Faults = 0

	for seed := range emu.seeds() {
		err = emu.Cpu.Poke(seed.Addr, seed.Value)
		if err != nil {
			if seed.LineNo != 0 {
				err = &ErrRuntime{LineNo: seed.LineNo, Err: err}
			}
			return
		}
	}

	err = emu.Cpu.LoadListing(emu.Program.Code, emu.Program.Lines)

	return
}

// seeds yields the configuration seeds in address order, then the
// program seeds in source order.
func (emu *Emulator) seeds() iter.Seq[cpu.Seed] {
	configured := func(yield func(cpu.Seed) bool) {
		for _, addr := range emu.Config.SeedAddrs() {
			if !yield(cpu.Seed{Addr: addr, Value: emu.Config.Seed[addr]}) {
				return
			}
		}
	}

	return internal.Concat(configured, slices.Values(emu.Program.Seeds))
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the next instruction.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineOf(emu.Cpu.Pc)
}

// Tick performs a single tick of the emulator.
//
// Malformed instructions are counted and logged by the CPU, and are not
// returned. The only error is reaching the configured tick limit.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Done() {
		done = true
		return
	}

	if emu.Config.MaxTicks > 0 && emu.Cpu.Ticks >= emu.Config.MaxTicks {
		err = ErrTickLimit
		return
	}

	done, err = emu.Cpu.Tick()
	var fault *cpu.ErrFault
	if errors.As(err, &fault) {
		emu.Faults++
		err = nil
	}

	return
}

// Run ticks until the machine stops.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}

// Report writes the end of run report files.
func (emu *Emulator) Report(out report.CreateFS) (err error) {
	names := report.Names{
		ControlUnit: emu.Config.Output.ControlUnit,
		Registers:   emu.Config.Output.Registers,
		Memory:      emu.Config.Output.Memory,
	}

	return report.Write(out, names, emu.Cpu.Snapshot())
}
