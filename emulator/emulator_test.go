package emulator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/procsim/config"
	"github.com/ezrec/procsim/cpu"
	"github.com/ezrec/procsim/report"
)

func newTestEmulator(t *testing.T, cfg config.Config, program ...string) (emu *Emulator, hook *test.Hook) {
	emu, err := NewEmulator(cfg)
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	emu.SetLogger(logger)

	err = emu.Load(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(config.Default())
	assert.NoError(err)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(4, len(emu.Cpu.Register))
	assert.Equal(32, len(emu.Cpu.Memory))
	assert.Equal("IB", emu.Cpu.Resolver.Prefixes)

	cfg := config.Default()
	cfg.Registers = 0
	_, err = NewEmulator(cfg)
	assert.ErrorIs(err, config.ErrRegisters)
}

func TestEmulatorAgeCheck(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"# Is the age at I0 at least the limit at I18?",
		"LOAD R0 I0",
		"LOAD R1 I18",
		"SUB R0 R0 R1",
		"BNEG 6       # under age",
		"LOAD R2 1",
		"STORE I1 R2  # approved",
		"HALT",
	}

	emu, _ := newTestEmulator(t, config.Default(), program...)

	assert.Equal(20, emu.Cpu.Memory[0])
	assert.Equal(18, emu.Cpu.Memory[18])

	err := emu.Run()
	assert.NoError(err)

	assert.Equal(cpu.STATE_HALTED, emu.Cpu.State())
	assert.Equal(1, emu.Cpu.Memory[1])
	assert.Equal(2, emu.Cpu.Register[0])
	assert.Equal(7, emu.Ticks())

	// Under age: the branch skips the approval.
	emu.Config.Seed[0] = 15
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())
	assert.Equal(0, emu.Cpu.Memory[1])
	assert.Equal(-3, emu.Cpu.Register[0])
	assert.Equal(5, emu.Ticks())
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator(t, config.Default(),
		"# header",
		"",
		"LOAD R0 1",
		"# middle",
		"HALT",
	)

	assert.Equal(3, emu.LineNo())
	done, err := emu.Tick()
	assert.False(done)
	assert.NoError(err)
	assert.Equal(5, emu.LineNo())

	done, err = emu.Tick()
	assert.False(done)
	assert.NoError(err)

	done, err = emu.Tick()
	assert.True(done)
	assert.NoError(err)
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(config.Default())
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	emu.SetLogger(logger)
	emu.Verbose = true

	assert.NoError(emu.Load(strings.NewReader("# start\nLOAD R0 $(1+1)\nHALT\n")))

	var loaded []string
	for _, entry := range hook.AllEntries() {
		if line, ok := entry.Data["line"].(int); ok {
			loaded = append(loaded, entry.Message)
			assert.Equal(len(loaded), line)
		}
	}
	assert.Equal([]string{"# start", "LOAD R0 $(1+1)", "HALT"}, loaded)

	hook.Reset()
	assert.NoError(emu.Run())

	var fetched []string
	for _, entry := range hook.AllEntries() {
		if _, ok := entry.Data["pc"]; ok {
			fetched = append(fetched, entry.Message)
		}
	}
	assert.Equal([]string{"LOAD R0 $(1+1)", "HALT"}, fetched)
}

func TestEmulatorFaults(t *testing.T) {
	assert := assert.New(t)

	emu, hook := newTestEmulator(t, config.Default(), "FROB R0", "ADD R0", "LOAD R0 3", "HALT")

	assert.NoError(emu.Run())
	assert.Equal(2, emu.Faults)
	assert.Equal(3, emu.Cpu.Register[0])

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(2, warnings)

	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Faults)
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.MaxTicks = 10

	emu, _ := newTestEmulator(t, cfg, "NOP", "BRANCH 0")

	err := emu.Run()
	assert.ErrorIs(err, ErrTickLimit)

	var re *ErrRuntime
	assert.True(errors.As(err, &re))
	assert.Equal(1, re.LineNo)
	assert.Equal(10, emu.Ticks())
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State())
}

func TestEmulatorDataSeeds(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Memory = 8
	cfg.Seed = map[int]int{2: 5}

	emu, _ := newTestEmulator(t, cfg,
		".data 2 7 9   # overrides the configured seed",
		"LOAD R0 $(MEM_SIZE - 1)",
		"HALT",
	)

	assert.Equal([]int{0, 0, 7, 9, 0, 0, 0, 0}, emu.Cpu.Memory)
	assert.NoError(emu.Run())
	assert.Equal(7, emu.Cpu.Register[0])
	assert.Equal("LOAD R0 $(MEM_SIZE - 1)", emu.Cpu.Trace[0].Line)

	emu, err := NewEmulator(cfg)
	assert.NoError(err)
	err = emu.Load(strings.NewReader("HALT\n.data 7 1 2\n"))
	assert.ErrorIs(err, cpu.ErrAddressRange)

	var re *ErrRuntime
	assert.True(errors.As(err, &re))
	assert.Equal(2, re.LineNo)
}

func TestEmulatorProgramFull(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Memory = 2
	cfg.Seed = nil

	emu, err := NewEmulator(cfg)
	assert.NoError(err)

	err = emu.Load(strings.NewReader("NOP\nNOP\nHALT\n"))
	assert.ErrorIs(err, cpu.ErrProgramFull)
}

func TestEmulatorReport(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator(t, config.Default(),
		"LOAD R0 5",
		"LOAD R1 3",
		"ADD R2 R0 R1",
		"STORE 10 R2",
		"HALT",
	)
	assert.NoError(emu.Run())

	dir := t.TempDir()
	assert.NoError(emu.Report(report.DirFS(dir)))

	data, err := os.ReadFile(filepath.Join(dir, "unidade_controle.txt"))
	assert.NoError(err)
	assert.Equal("0 LOAD R0 5\n1 LOAD R1 3\n2 ADD R2 R0 R1\n3 STORE 10 R2\n4 HALT\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "banco_registradores.txt"))
	assert.NoError(err)
	assert.Equal("5\n3\n8\n0\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "memoria_ram.txt"))
	assert.NoError(err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Equal(32, len(lines))
	assert.Equal("20", lines[0])
	assert.Equal("8", lines[10])
	assert.Equal("18", lines[18])
}

func TestEmulatorEmpty(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator(t, config.Default())

	assert.Equal(0, emu.Program.Len())
	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Empty(emu.Cpu.Trace)
}
