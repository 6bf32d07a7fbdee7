// Package harness runs the full synthesis stack against HCL files written
// to a temporary directory.
package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/crossdeploy/internal/app"
	"github.com/vk/crossdeploy/internal/hcl"
	"github.com/vk/crossdeploy/internal/render"
	"github.com/vk/crossdeploy/internal/testutil"
)

// Result holds the outcomes of a synthesis run.
type Result struct {
	Dir       string
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Document decodes the JSON output of a successful run.
func (r *Result) Document(t *testing.T) *render.Document {
	t.Helper()
	require.NoError(t, r.Err)
	var doc render.Document
	require.NoError(t, json.Unmarshal([]byte(r.Output), &doc))
	return &doc
}

// Run writes files and synthesizes them with a JSON output and debug logs.
func Run(t *testing.T, files map[string]string) *Result {
	t.Helper()
	dir := testutil.WriteFiles(t, files)

	cfg, err := app.NewConfig(app.Config{
		PipelinePaths: []string{dir},
		OutputFormat:  "json",
		LogLevel:      "debug",
		LogFormat:     "text",
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a := app.NewApp(out, logs, cfg, hcl.NewLoader())
	runErr := a.Run(context.Background())

	return &Result{
		Dir:       dir,
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       a,
	}
}

// PipelineBlock is a pipeline owned by account 111111111111 together with
// the mandatory build and configure blocks.
const PipelineBlock = `
pipeline "svc" {
  repository  = "acme/svc"
  branch      = "main"
  account     = "111111111111"
  region      = "ap-northeast-1"
  application = "svc-bg"
}

build {
  registry_repository = "svc"
}

configure {
  execution_role = "svc-exec"
  task_family    = "svc"
}
`
