package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/ezrec/procsim/cpu"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// Registers renders the register bank as a table.
func Registers(w io.Writer, regs []int) {
	table := newTable(w, "reg", "value")
	for n, value := range regs {
		table.Append([]string{fmt.Sprintf("r%d", n), strconv.Itoa(value)})
	}
	table.Render()
}

// Memory renders memory cells [from, to) as a table. Zero cells are
// omitted unless all is set.
func Memory(w io.Writer, mem []int, from, to int, all bool) {
	from = max(from, 0)
	to = min(to, len(mem))

	table := newTable(w, "addr", "value")
	for addr := from; addr < to; addr++ {
		if mem[addr] == 0 && !all {
			continue
		}
		table.Append([]string{strconv.Itoa(addr), strconv.Itoa(mem[addr])})
	}
	table.Render()
}

// Trace renders the fetch history as a table.
func Trace(w io.Writer, trace []cpu.Trace) {
	table := newTable(w, "step", "pc", "instruction")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	for n, tr := range trace {
		table.Append([]string{strconv.Itoa(n), strconv.Itoa(tr.Pc), tr.Line})
	}
	table.Render()
}

// Listing renders a decoded program listing. Malformed lines carry their
// decode error in the last column.
func Listing(w io.Writer, prog *cpu.Program, rs *cpu.Resolver) (malformed int) {
	table := newTable(w, "pc", "line", "instruction", "error")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for pc, code := range prog.Code {
		inst := rs.Decode(cpu.Tokenize(code))
		note := ""
		if inst.Err != nil {
			note = inst.Err.Error()
			malformed++
		}
		table.Append([]string{strconv.Itoa(pc), strconv.Itoa(prog.LineOf(pc)), inst.String(), note})
	}
	table.Render()
	return
}
