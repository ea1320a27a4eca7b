// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config holds the machine shape, memory seeds, and report file
// names for a simulation run.
package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Output names the report files.
type Output struct {
	Dir         string `yaml:"dir"`          // Directory for the report files.
	ControlUnit string `yaml:"control_unit"` // Fetch trace, "PC line" per row.
	Registers   string `yaml:"registers"`    // Register bank, one value per row.
	Memory      string `yaml:"memory"`       // Memory, one value per row.
}

// Config is a simulation configuration.
type Config struct {
	Registers       int         `yaml:"registers"`
	Memory          int         `yaml:"memory"`
	AddressPrefixes string      `yaml:"address_prefixes"`
	Seed            map[int]int `yaml:"seed"`
	MaxTicks        int         `yaml:"max_ticks"`
	Output          Output      `yaml:"output"`
}

// Default returns the configuration of the classic simulator: four
// registers, 32 memory cells, I/B address prefixes, and the age-check
// seed data at addresses 0, 1 and 18.
func Default() Config {
	return Config{
		Registers:       4,
		Memory:          32,
		AddressPrefixes: "IB",
		Seed: map[int]int{
			0:  20, // age
			1:  0,  // result
			18: 18, // age limit
		},
		Output: Output{
			Dir:         ".",
			ControlUnit: "unidade_controle.txt",
			Registers:   "banco_registradores.txt",
			Memory:      "memoria_ram.txt",
		},
	}
}

// Load reads a YAML configuration on top of the defaults.
// Unknown keys are an error.
func Load(r io.Reader) (cfg Config, err error) {
	cfg = Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	cfg.Seed = nil
	err = dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return
	}

	// An absent seed map keeps the default seeds that fit in memory.
	if cfg.Seed == nil {
		cfg.Seed = Default().Seed
		maps.DeleteFunc(cfg.Seed, func(addr, _ int) bool {
			return addr >= cfg.Memory
		})
	}

	err = cfg.Validate()

	return
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (cfg Config, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	cfg, err = Load(inf)
	if err != nil {
		err = &ErrFile{Path: path, Err: err}
	}

	return
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() (err error) {
	var errs []error

	if cfg.Registers < 1 || cfg.Registers > 10 {
		errs = append(errs, ErrRegisters)
	}

	if cfg.Memory < 1 {
		errs = append(errs, ErrMemory)
	}

	for _, addr := range cfg.SeedAddrs() {
		if addr < 0 || addr >= cfg.Memory {
			errs = append(errs, fmt.Errorf("%w: %d", ErrSeed, addr))
		}
	}

	if cfg.MaxTicks < 0 {
		errs = append(errs, ErrMaxTicks)
	}

	for _, c := range cfg.AddressPrefixes {
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') || c == 'R' || c == 'r' {
			errs = append(errs, ErrPrefixes)
			break
		}
	}

	if cfg.Output.ControlUnit == "" || cfg.Output.Registers == "" || cfg.Output.Memory == "" {
		errs = append(errs, ErrOutput)
	}

	return errors.Join(errs...)
}

// SeedAddrs returns the seeded addresses in ascending order.
func (cfg *Config) SeedAddrs() []int {
	return slices.Sorted(maps.Keys(cfg.Seed))
}
