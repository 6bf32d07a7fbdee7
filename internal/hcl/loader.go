package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/crossdeploy/internal/config"
	"github.com/vk/crossdeploy/internal/ctxlog"
	"github.com/vk/crossdeploy/internal/fsutil"
	"github.com/vk/crossdeploy/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

type parsedFile struct {
	path   string
	remain hcl.Body
}

// Load parses every .hcl file reachable from paths and merges them into a
// single model. Exactly one `pipeline`, one `build` and one `configure`
// block must exist across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var (
		parsed    []parsedFile
		pipelines []*schema.Pipeline
	)

	// First pass: pipeline blocks only.
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.PipelineFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		pipelines = append(pipelines, root.Pipelines...)
		parsed = append(parsed, parsedFile{path: file, remain: root.Remain})
	}

	if len(pipelines) != 1 {
		return nil, fmt.Errorf("expected exactly one pipeline block, found %d", len(pipelines))
	}
	model := &config.Model{Pipeline: translatePipeline(pipelines[0])}
	evalCtx := newEvalContext(model.Pipeline)

	// Second pass: everything else, with pipeline variables in scope.
	var (
		builds     []*schema.Build
		configures []*schema.Configure
		synths     []*schema.Synth
	)
	for _, f := range parsed {
		var body schema.BodyFile
		if diags := gohcl.DecodeBody(f.remain, evalCtx, &body); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", f.path, diags)
		}
		synths = append(synths, body.Synth...)
		builds = append(builds, body.Build...)
		configures = append(configures, body.Configure...)
		for _, s := range body.Stages {
			stage, err := translateStage(s)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", f.path, err)
			}
			model.Stages = append(model.Stages, stage)
		}
	}

	if len(synths) > 1 {
		return nil, fmt.Errorf("expected at most one synth block, found %d", len(synths))
	}
	if len(synths) == 1 {
		model.Synth = translateSynth(synths[0])
	}
	if len(builds) != 1 {
		return nil, fmt.Errorf("expected exactly one build block, found %d", len(builds))
	}
	if model.Build, err = translateBuild(builds[0], evalCtx); err != nil {
		return nil, err
	}
	if len(configures) != 1 {
		return nil, fmt.Errorf("expected exactly one configure block, found %d", len(configures))
	}
	if model.Configure, err = translateConfigure(configures[0], evalCtx); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "pipeline", model.Pipeline.Name, "stages", len(model.Stages))
	return model, nil
}
