// Package config handles YAML scenario file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fixturecap/internal/dispatch"
)

// Scenario is an ordered list of validated steps.
type Scenario struct {
	Name  string
	Path  string
	Steps []dispatch.Step
}

type scenarioFile struct {
	Scenario string       `yaml:"scenario"`
	Steps    []stepConfig `yaml:"steps"`
}

type stepConfig struct {
	Action  string   `yaml:"action"`
	Name    string   `yaml:"name"`
	Image   string   `yaml:"image"`
	Command []string `yaml:"command"`
	Labels  []string `yaml:"labels"`
	Seconds float64  `yaml:"seconds"`
	Signal  string   `yaml:"signal"`
	From    string   `yaml:"from"`
	To      string   `yaml:"to"`
	Force   *bool    `yaml:"force"`
}

// LoadScenario reads and validates one scenario file. Every step is checked
// against the closed kind set here, so configuration defects surface before
// any command runs.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario file: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	if len(file.Steps) == 0 {
		return Scenario{}, fmt.Errorf("scenario %s defines no steps", path)
	}

	name := file.Scenario
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	steps := make([]dispatch.Step, len(file.Steps))
	for i, sc := range file.Steps {
		step := dispatch.Step{
			Kind:    dispatch.Kind(strings.ToLower(sc.Action)),
			Name:    sc.Name,
			Image:   sc.Image,
			Command: sc.Command,
			Labels:  sc.Labels,
			Seconds: sc.Seconds,
			Signal:  sc.Signal,
			From:    sc.From,
			To:      sc.To,
			Force:   sc.Force,
		}
		if err := step.Validate(); err != nil {
			return Scenario{}, fmt.Errorf("scenario %s step %d: %w", path, i+1, err)
		}
		steps[i] = step
	}

	return Scenario{Name: name, Path: path, Steps: steps}, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by filename
// for a deterministic run order.
func LoadDir(dir string) ([]Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	scenarios := make([]Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
