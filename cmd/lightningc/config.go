package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/plasmaengine/lightningspv/pipeline"
	"github.com/plasmaengine/lightningspv/spirv"
)

const defaultConfigPath = "lightningc.toml"

type emitConfig struct {
	Version    string `toml:"version"`
	DebugNames bool   `toml:"debug_names"`
}

type pipelineConfig struct {
	Passes      []string `toml:"passes"`
	DebugPasses []string `toml:"debug_passes"`
	Backend     string   `toml:"backend"`
	Jobs        int      `toml:"jobs"`
	CacheDir    string   `toml:"cache_dir"`
}

type config struct {
	Emit     emitConfig     `toml:"emit"`
	Pipeline pipelineConfig `toml:"pipeline"`
}

func defaultConfig() config {
	return config{
		Emit: emitConfig{Version: "1.2", DebugNames: true},
		Pipeline: pipelineConfig{
			Passes:  []string{"strip-debug"},
			Backend: "identity",
		},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error
// unless the path was given explicitly.
func loadConfig(path string, explicit bool) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var file config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("emit", "version") {
		cfg.Emit.Version = file.Emit.Version
	}
	if meta.IsDefined("emit", "debug_names") {
		cfg.Emit.DebugNames = file.Emit.DebugNames
	}
	if meta.IsDefined("pipeline", "passes") {
		cfg.Pipeline.Passes = file.Pipeline.Passes
	}
	if meta.IsDefined("pipeline", "debug_passes") {
		cfg.Pipeline.DebugPasses = file.Pipeline.DebugPasses
	}
	if meta.IsDefined("pipeline", "backend") {
		cfg.Pipeline.Backend = file.Pipeline.Backend
	}
	if meta.IsDefined("pipeline", "jobs") {
		cfg.Pipeline.Jobs = file.Pipeline.Jobs
	}
	if meta.IsDefined("pipeline", "cache_dir") {
		cfg.Pipeline.CacheDir = file.Pipeline.CacheDir
	}
	return cfg, nil
}

func parseVersion(s string) (spirv.Version, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return spirv.Version{}, fmt.Errorf("invalid SPIR-V version %q", s)
	}
	ma, err := strconv.ParseUint(major, 10, 8)
	if err != nil {
		return spirv.Version{}, fmt.Errorf("invalid SPIR-V version %q: %w", s, err)
	}
	mi, err := strconv.ParseUint(minor, 10, 8)
	if err != nil {
		return spirv.Version{}, fmt.Errorf("invalid SPIR-V version %q: %w", s, err)
	}
	if ma != 1 || mi > 6 {
		return spirv.Version{}, fmt.Errorf("unsupported SPIR-V version %q", s)
	}
	return spirv.Version{Major: uint8(ma), Minor: uint8(mi)}, nil
}

func (c config) spirvOptions() (spirv.Options, error) {
	v, err := parseVersion(c.Emit.Version)
	if err != nil {
		return spirv.Options{}, err
	}
	return spirv.Options{Version: v, DebugNames: c.Emit.DebugNames}, nil
}

func (c config) description() (pipeline.Description, error) {
	var desc pipeline.Description
	for _, name := range c.Pipeline.Passes {
		p, err := pipeline.Builtin(name)
		if err != nil {
			return desc, fmt.Errorf("[pipeline].passes: %w", err)
		}
		desc.ToolPasses = append(desc.ToolPasses, p)
	}
	for _, name := range c.Pipeline.DebugPasses {
		p, err := pipeline.Builtin(name)
		if err != nil {
			return desc, fmt.Errorf("[pipeline].debug_passes: %w", err)
		}
		desc.DebugPasses = append(desc.DebugPasses, p)
	}
	backend, err := pipeline.Builtin(c.Pipeline.Backend)
	if err != nil {
		return desc, fmt.Errorf("[pipeline].backend: %w", err)
	}
	desc.Backend = backend
	return desc, nil
}

func (c config) pipelineConfig() pipeline.Config {
	return pipeline.Config{Jobs: c.Pipeline.Jobs, CacheDir: c.Pipeline.CacheDir}
}
