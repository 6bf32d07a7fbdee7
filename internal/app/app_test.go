package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/crossdeploy/internal/hcl"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/render"
	"github.com/vk/crossdeploy/internal/testutil"
	"gopkg.in/yaml.v3"
)

func runApp(t *testing.T, cfg Config) (*App, string, string, error) {
	t.Helper()
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a := NewApp(out, logs, config, hcl.NewLoader())
	err = a.Run(context.Background())
	return a, out.String(), logs.String(), err
}

func TestRun_RendersJSON(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": testutil.PipelineHCL})

	// --- Act ---
	a, out, logs, err := runApp(t, Config{PipelinePaths: []string{dir}, LogLevel: "debug"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, logs, "Pipeline synthesized.")

	var doc render.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "orders", doc.Pipeline.Name)
	require.Len(t, doc.Stages, 2)
	assert.Equal(t, "dev", doc.Stages[0].Name)
	assert.Equal(t, "prod", doc.Stages[1].Name)

	accounts := []string{doc.Grants[0].Account, doc.Grants[1].Account}
	assert.Equal(t, []string{"222222222222", "333333333333"}, accounts)

	sealed := a.Pipeline()
	require.NotNil(t, sealed)
	prodDeploy, ok := sealed.Stages()[1].Step(model.StepDeploy)
	require.True(t, ok)
	require.NotNil(t, prodDeploy.Timeouts)
	assert.Equal(t, "45m0s", prodDeploy.Timeouts.ApprovalWait.String())
	assert.Equal(t, model.DefaultDeployTimeouts.TerminationWait, prodDeploy.Timeouts.TerminationWait)
	assert.Equal(t, model.Linear10PercentEvery3Minutes, prodDeploy.DeploymentGroup.Policy)

	build, ok := sealed.Stages()[0].Step(model.StepBuild)
	require.True(t, ok)
	assert.Equal(t, "ORDERS", build.Env["SERVICE"])
}

func TestRun_WritesYAMLFile(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": testutil.PipelineHCL})
	outPath := filepath.Join(t.TempDir(), "pipeline.yaml")

	// --- Act ---
	_, out, _, err := runApp(t, Config{PipelinePaths: []string{dir}, OutputPath: outPath, OutputFormat: "yml"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "fingerprint")
	assert.Contains(t, decoded, "grants")
}

func TestRun_SameAccountStageHasNoGrant(t *testing.T) {
	// --- Arrange ---
	hclText := strings.Replace(testutil.PipelineHCL, `account           = "222222222222"`, `account           = pipeline.account`, 1)
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": hclText})

	// --- Act ---
	a, _, _, err := runApp(t, Config{PipelinePaths: []string{dir}})

	// --- Assert ---
	require.NoError(t, err)
	grants := a.Pipeline().Grants()
	require.Len(t, grants, 1)
	assert.Equal(t, "333333333333", grants[0].Account)
}

func TestRun_Errors(t *testing.T) {
	t.Run("unknown policy names the stage", func(t *testing.T) {
		hclText := strings.Replace(testutil.PipelineHCL, `"Canary10Percent5Minutes"`, `"Sometimes"`, 1)
		dir := testutil.WriteFiles(t, map[string]string{"main.hcl": hclText})

		_, _, _, err := runApp(t, Config{PipelinePaths: []string{dir}})

		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "dev", verr.Stage)
		assert.Equal(t, "Sometimes", verr.Value)
	})

	t.Run("duplicate stage", func(t *testing.T) {
		hclText := testutil.PipelineHCL + `
stage "dev" {
  account           = "444444444444"
  region            = "eu-west-1"
  deployment_policy = "AllAtOnce"
}
`
		dir := testutil.WriteFiles(t, map[string]string{"main.hcl": hclText})

		_, _, _, err := runApp(t, Config{PipelinePaths: []string{dir}})

		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, err.Error(), "stage already registered")
	})

	t.Run("missing path", func(t *testing.T) {
		_, _, _, err := runApp(t, Config{PipelinePaths: []string{filepath.Join(t.TempDir(), "nope")}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})
}

func TestSynthesize_NilModel(t *testing.T) {
	_, err := Synthesize(context.Background(), nil, "")
	assert.EqualError(t, err, "configuration has no pipeline")
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig(Config{PipelinePaths: []string{"x"}})
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.OutputFormat)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"no paths", Config{}, "PipelinePaths is a required configuration field"},
		{"bad format", Config{PipelinePaths: []string{"x"}, OutputFormat: "xml"}, "unsupported output format"},
		{"bad log format", Config{PipelinePaths: []string{"x"}, LogFormat: "xml"}, "invalid log-format"},
		{"bad log level", Config{PipelinePaths: []string{"x"}, LogLevel: "trace"}, "invalid log-level"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadEnvSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := loadEnvSettings(context.Background(), envconfigMap(nil))
		require.NoError(t, err)
		assert.Equal(t, &EnvSettings{LogLevel: "info", LogFormat: "text", Partition: "aws", OutputFormat: "json"}, s)
	})

	t.Run("overrides", func(t *testing.T) {
		s, err := loadEnvSettings(context.Background(), envconfigMap(map[string]string{
			"CROSSDEPLOY_LOG_LEVEL": "debug",
			"CROSSDEPLOY_PARTITION": "aws-cn",
		}))
		require.NoError(t, err)
		assert.Equal(t, "debug", s.LogLevel)
		assert.Equal(t, "aws-cn", s.Partition)
	})
}

func TestNewLogger_Level(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	logger := newLogger("warn", "json", buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
