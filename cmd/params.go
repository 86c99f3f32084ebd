package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phage-sim/phage-sim/sim"
)

// LoadParams reads a parameter file on top of sim.DefaultConfig().
//
// Files ending in .yaml or .yml hold a YAML rendition of sim.Config and are
// decoded strictly: unknown keys are errors. Any other file is the plain
// four-line format:
//
//	<initial phages>
//	<initial bacteria>
//	<max steps>
//	<output path prefix>   (optional)
func LoadParams(path string) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("read params: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLParams(data)
	default:
		return parseTextParams(bytes.NewReader(data))
	}
}

func parseYAMLParams(data []byte) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return sim.Config{}, fmt.Errorf("parse params YAML: %w", err)
	}
	return cfg, nil
}

func parseTextParams(r io.Reader) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() && len(lines) < 4 {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return sim.Config{}, fmt.Errorf("read params: %w", err)
	}
	if len(lines) < 3 {
		return sim.Config{}, fmt.Errorf("params file needs at least 3 lines (phages, bacteria, max steps), got %d", len(lines))
	}

	phages, err := strconv.Atoi(lines[0])
	if err != nil {
		return sim.Config{}, fmt.Errorf("line 1 (initial phages): %w", err)
	}
	bacteria, err := strconv.Atoi(lines[1])
	if err != nil {
		return sim.Config{}, fmt.Errorf("line 2 (initial bacteria): %w", err)
	}
	maxSteps, err := strconv.ParseInt(lines[2], 10, 64)
	if err != nil {
		return sim.Config{}, fmt.Errorf("line 3 (max steps): %w", err)
	}

	cfg.Population = sim.PopulationConfig{InitialPhages: phages, InitialBacteria: bacteria}
	cfg.MaxSteps = maxSteps
	if len(lines) == 4 {
		cfg.OutputPath = lines[3]
	}
	return cfg, nil
}

// WriteParams renders cfg as YAML that LoadParams accepts.
func WriteParams(w io.Writer, cfg sim.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
