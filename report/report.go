// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package report writes the end of run reports for a simulation: the
// control unit trace, the register bank, and the memory image.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ezrec/procsim/cpu"
)

// Names are the report file names.
type Names struct {
	ControlUnit string
	Registers   string
	Memory      string
}

// Files lists the report file names in write order.
func (names Names) Files() []string {
	return []string{names.ControlUnit, names.Registers, names.Memory}
}

// WriteTrace writes one "PC line" row per fetched instruction.
func WriteTrace(w io.Writer, trace []cpu.Trace) (err error) {
	bw := bufio.NewWriter(w)
	for _, tr := range trace {
		_, err = fmt.Fprintln(bw, tr.String())
		if err != nil {
			return
		}
	}
	return bw.Flush()
}

// WriteValues writes one value per row.
func WriteValues(w io.Writer, values []int) (err error) {
	bw := bufio.NewWriter(w)
	for _, value := range values {
		_, err = fmt.Fprintln(bw, value)
		if err != nil {
			return
		}
	}
	return bw.Flush()
}

// create writes a single report file.
func create(out CreateFS, name string, write func(w io.Writer) error) (err error) {
	defer func() {
		if err != nil {
			err = &ErrWrite{Name: name, Err: err}
		}
	}()

	file, err := out.Create(name)
	if err != nil {
		return
	}

	err = write(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}

	return
}

// Write writes the three report files for a machine snapshot.
func Write(out CreateFS, names Names, snap cpu.Snapshot) (err error) {
	err = create(out, names.ControlUnit, func(w io.Writer) error {
		return WriteTrace(w, snap.Trace)
	})
	if err != nil {
		return
	}

	err = create(out, names.Registers, func(w io.Writer) error {
		return WriteValues(w, snap.Register)
	})
	if err != nil {
		return
	}

	err = create(out, names.Memory, func(w io.Writer) error {
		return WriteValues(w, snap.Memory)
	})

	return
}
