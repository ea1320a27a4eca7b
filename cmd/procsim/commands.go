package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/procsim/config"
	"github.com/ezrec/procsim/emulator"
	"github.com/ezrec/procsim/monitor"
	"github.com/ezrec/procsim/report"
	"github.com/ezrec/procsim/translate"
)

var f = translate.From

// DEFAULT_PROGRAM is read when no program file is named.
const DEFAULT_PROGRAM = "entrada.txt"

var (
	ErrSeedFlag  = errors.New(f("seed must be ADDR=VALUE"))
	ErrMalformed = errors.New(f("malformed instructions"))
)

type options struct {
	config   string
	output   string
	prefixes string
	seeds    []string
	maxTicks int
	verbose  bool
}

// isTerminal returns true if the stream is an interactive terminal.
func isTerminal(stream any) bool {
	file, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func parseSeed(text string) (addr, value int, err error) {
	left, right, ok := strings.Cut(text, "=")
	if !ok {
		err = fmt.Errorf("%w: %v", ErrSeedFlag, text)
		return
	}

	addr, err = strconv.Atoi(strings.TrimSpace(left))
	if err == nil {
		value, err = strconv.Atoi(strings.TrimSpace(right))
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSeedFlag, text)
	}

	return
}

// loadConfig reads the configuration file, if any, and applies the
// command line overrides.
func (opts *options) loadConfig(cmd *cobra.Command) (cfg config.Config, err error) {
	cfg = config.Default()
	if len(opts.config) != 0 {
		cfg, err = config.LoadFile(opts.config)
		if err != nil {
			return
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Dir = opts.output
	}
	if flags.Changed("prefixes") {
		cfg.AddressPrefixes = opts.prefixes
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = opts.maxTicks
	}
	for _, text := range opts.seeds {
		var addr, value int
		addr, value, err = parseSeed(text)
		if err != nil {
			return
		}
		if cfg.Seed == nil {
			cfg.Seed = map[int]int{}
		}
		cfg.Seed[addr] = value
	}

	err = cfg.Validate()

	return
}

// newEmulator configures an emulator, and loads the program named by args.
func (opts *options) newEmulator(cmd *cobra.Command, args []string) (emu *emulator.Emulator, err error) {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return
	}

	emu, err = emulator.NewEmulator(cfg)
	if err != nil {
		return
	}
	emu.Verbose = opts.verbose
	emu.SetLogger(logrus.StandardLogger())

	path := DEFAULT_PROGRAM
	if len(args) != 0 {
		path = args[0]
	}

	inf, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("%v: %w", f("%v: cannot open program", path), err)
		return
	}
	defer inf.Close()

	err = emu.Load(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	if emu.Program.Len() == 0 {
		err = fmt.Errorf("%v: %w", path, emulator.ErrProgramEmpty)
		return
	}

	return
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "procsim",
		Short:         "Didactic register machine simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.config, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&opts.output, "output", "o", ".", "Directory for the report files")
	flags.StringVar(&opts.prefixes, "prefixes", "IB", "Address prefix letters")
	flags.StringArrayVar(&opts.seeds, "seed", nil, "Memory seed ADDR=VALUE (repeatable)")
	flags.IntVar(&opts.maxTicks, "max-ticks", 0, "Stop after this many instructions (0 = unlimited)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose mode")

	runCmd := &cobra.Command{
		Use:   "run [program]",
		Short: "Run a program and write the report files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			emu, err := opts.newEmulator(cmd, args)
			if err != nil {
				return
			}

			// A run stopped by max_ticks still reports its partial state.
			runErr := emu.Run()
			if runErr != nil && !errors.Is(runErr, emulator.ErrTickLimit) {
				err = runErr
				return
			}

			dir := emu.Config.Output.Dir
			out := report.DirFS(dir)
			err = out.Mkdir(".", 0o755)
			if err != nil {
				return
			}

			err = emu.Report(out)
			if err != nil {
				return
			}

			fmt.Fprintln(stdout, f("Simulation complete. Generated files:"))
			names := []string{emu.Config.Output.ControlUnit, emu.Config.Output.Registers, emu.Config.Output.Memory}
			for _, name := range names {
				if dir != "." {
					name = filepath.Join(dir, name)
				}
				fmt.Fprintf(stdout, "- %v\n", name)
			}

			if emu.Faults != 0 {
				logrus.Warn(f("%d malformed instructions", emu.Faults))
			}

			if isTerminal(stdout) {
				fmt.Fprintln(stdout)
				fmt.Fprint(stdout, emu.Cpu.String())
				report.Registers(stdout, emu.Cpu.Register)
				report.Memory(stdout, emu.Cpu.Memory, 0, len(emu.Cpu.Memory), false)
			}

			err = runErr
			return
		},
	}

	debugCmd := &cobra.Command{
		Use:   "debug [program]",
		Short: "Load a program into the interactive monitor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			emu, err := opts.newEmulator(cmd, args)
			if err != nil {
				return
			}

			mon := monitor.NewMonitor(emu, stdout)

			if !isTerminal(stdin) {
				return mon.Run(monitor.NewScriptReader(stdin))
			}

			history := ""
			if home, herr := os.UserHomeDir(); herr == nil {
				history = filepath.Join(home, ".procsim_history")
			}

			rl, err := monitor.NewReadline(history)
			if err != nil {
				return
			}
			defer rl.Close()

			mon.Out = rl.Stdout()
			err = mon.Run(rl)

			return
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check [program]",
		Short: "Load a program and print the decoded listing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			emu, err := opts.newEmulator(cmd, args)
			if err != nil {
				return
			}

			malformed := report.Listing(stdout, emu.Program, &emu.Cpu.Resolver)
			if malformed != 0 {
				err = fmt.Errorf("%w: %d", ErrMalformed, malformed)
			}

			return
		},
	}

	rootCmd.AddCommand(runCmd, debugCmd, checkCmd)

	return rootCmd
}
