package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/build"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/strata/internal/ir"
)

// LoadDir loads every CUE file of the package in dir as one document.
func LoadDir(dir string) (cue.Value, error) {
	return loadInstances([]string{"."}, &load.Config{Dir: dir})
}

// LoadFiles loads the given CUE files as one document.
func LoadFiles(files ...string) (cue.Value, error) {
	if len(files) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE files given")
	}
	return loadInstances(files, nil)
}

// CompileDir loads dir and compiles it into a graph.
func CompileDir(dir string, opts Options) (*ir.Graph, error) {
	v, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return Compile(v, opts)
}

func loadInstances(args []string, cfg *load.Config) (cue.Value, error) {
	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE instances loaded")
	}
	if len(instances) > 1 {
		return cue.Value{}, fmt.Errorf("expected one CUE package, found %d", len(instances))
	}

	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("loading CUE files: %w", formatCUEError(inst.Err))
	}
	return buildValue(inst)
}

func buildValue(inst *build.Instance) (cue.Value, error) {
	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("building CUE value: %w", formatCUEError(err))
	}
	return v, nil
}
