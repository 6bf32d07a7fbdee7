package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/resolver"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.Application = "crossAccountEcsBGDeployApp"
	s.Build.RegistryRepository = "ecs-tutorial"
	s.Build.Region = "ap-northeast-1"
	s.Configure.ExecutionRole = "tutorialEcsExecutionRole"
	s.Configure.TaskFamily = "crossAccountEcsBGDeployDef"
	return s
}

func uatStage() model.StageDescriptor {
	return model.StageDescriptor{
		Name:        "UAT",
		Environment: model.Environment{Account: "222222222222", Region: "ap-northeast-1"},
		Policy:      model.Canary10Percent5Minutes,
	}
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o, err := New(testSettings(), resolver.New("aws"))
	require.NoError(t, err)
	return o
}

func TestBuildStage_ThreeStepGraph(t *testing.T) {
	// --- Arrange ---
	o := newTestOrchestrator(t)

	// --- Act ---
	g, err := o.BuildStage(context.Background(), uatStage(), model.SynthOutput)
	require.NoError(t, err)

	// --- Assert ---
	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "UAT.build", nodes[0].ID)
	assert.Equal(t, "UAT.configure", nodes[1].ID)
	assert.Equal(t, "UAT.deploy", nodes[2].ID)

	build, configure, deploy := nodes[0], nodes[1], nodes[2]

	assert.Empty(t, build.DependsOn, "build has no upstream step inside the stage")
	assert.Equal(t, []model.ArtifactKey{model.SynthOutput}, build.Inputs)
	assert.Equal(t, model.ArtifactKey("UAT.build.output"), build.Output)
	assert.Equal(t, []string{"imageDetail.json"}, build.OutputFiles)
	assert.True(t, build.Privileged)

	assert.Contains(t, configure.Inputs, model.SynthOutput)
	assert.Contains(t, configure.Inputs, build.Output)
	assert.Equal(t, []string{"UAT.build"}, configure.DependsOn)
	assert.Equal(t, map[string]string{"dockerOutput": "UAT.build.output"}, configure.AdditionalInputs)

	assert.Equal(t, []string{"UAT.configure"}, deploy.DependsOn)
	assert.Equal(t, []model.ArtifactKey{configure.Output}, deploy.Inputs)
	require.NotNil(t, deploy.DeploymentGroup)
	assert.Equal(t, g.DeploymentGroup(), *deploy.DeploymentGroup)
	assert.Equal(t, model.Canary10Percent5Minutes, deploy.DeploymentGroup.Policy)
	assert.Nil(t, build.DeploymentGroup)
	assert.Nil(t, configure.DeploymentGroup)

	assert.Equal(t, []Dependency{
		{From: "UAT.build", To: "UAT.configure", Kind: EdgeImplicit, Artifact: "UAT.build.output"},
		{From: "UAT.configure", To: "UAT.deploy", Kind: EdgeExplicit, Artifact: "UAT.configure.output"},
	}, g.Edges())
}

func TestBuildStage_EnvironmentBindings(t *testing.T) {
	o := newTestOrchestrator(t)
	g, err := o.BuildStage(context.Background(), uatStage(), model.SynthOutput)
	require.NoError(t, err)

	build, ok := g.Step(model.StepBuild)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"AWS_REGION_NAME":     "ap-northeast-1",
		"ECR_REPOSITORY_NAME": "ecs-tutorial",
	}, build.Env)

	configure, ok := g.Step(model.StepConfigure)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"TASK_EXEC_ROLE":          "tutorialEcsExecutionRole",
		"APPLICATION":             "crossAccountEcsBGDeployApp",
		"FARGATE_TASK_DEFINITION": "crossAccountEcsBGDeployDef",
	}, configure.Env)
}

func TestBuildStage_Timeouts(t *testing.T) {
	o := newTestOrchestrator(t)

	t.Run("defaults", func(t *testing.T) {
		g, err := o.BuildStage(context.Background(), uatStage(), model.SynthOutput)
		require.NoError(t, err)
		deploy, _ := g.Step(model.StepDeploy)
		require.NotNil(t, deploy.Timeouts)
		assert.Equal(t, model.DefaultDeployTimeouts, *deploy.Timeouts)
	})

	t.Run("stage override", func(t *testing.T) {
		d := uatStage()
		d.Timeouts = model.DeployTimeouts{ApprovalWait: time.Hour, TerminationWait: 5 * time.Minute}
		g, err := o.BuildStage(context.Background(), d, model.SynthOutput)
		require.NoError(t, err)
		deploy, _ := g.Step(model.StepDeploy)
		assert.Equal(t, d.Timeouts, *deploy.Timeouts)
	})

	t.Run("partial override keeps the other default", func(t *testing.T) {
		d := uatStage()
		d.Timeouts = model.DeployTimeouts{ApprovalWait: time.Hour}
		g, err := o.BuildStage(context.Background(), d, model.SynthOutput)
		require.NoError(t, err)
		deploy, _ := g.Step(model.StepDeploy)
		assert.Equal(t, model.DeployTimeouts{
			ApprovalWait:    time.Hour,
			TerminationWait: model.DefaultDeployTimeouts.TerminationWait,
		}, *deploy.Timeouts)
	})
}

func TestBuildStage_ConfigureCopiesImageDescriptor(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		g, err := newTestOrchestrator(t).BuildStage(context.Background(), uatStage(), model.SynthOutput)
		require.NoError(t, err)

		configure, _ := g.Step(model.StepConfigure)
		assert.Equal(t, []string{
			"cp dockerOutput/imageDetail.json codedeploy/",
			"cd codedeploy",
			"chmod a+x codedeploy_configuration.sh",
			"./codedeploy_configuration.sh",
		}, configure.Commands)
	})

	t.Run("overridden paths", func(t *testing.T) {
		// --- Arrange ---
		s := testSettings()
		s.Build.ImageDescriptor = "image.json"
		s.Configure.BuildInputDirectory = "docker"
		s.Configure.OutputDirectory = "deploy/"
		s.Configure.Commands = []string{"./configure.sh"}
		o, err := New(s, resolver.New("aws"))
		require.NoError(t, err)

		// --- Act ---
		g, err := o.BuildStage(context.Background(), uatStage(), model.SynthOutput)
		require.NoError(t, err)

		// --- Assert ---
		build, _ := g.Step(model.StepBuild)
		configure, _ := g.Step(model.StepConfigure)
		assert.Equal(t, []string{"image.json"}, build.OutputFiles)
		assert.Equal(t, map[string]string{"docker": "UAT.build.output"}, configure.AdditionalInputs)
		assert.Equal(t, "deploy/", configure.OutputDirectory)
		assert.Equal(t, []string{"cp docker/image.json deploy/", "./configure.sh"}, configure.Commands)
	})
}

func TestBuildStage_RebuildIsStructurallyIdentical(t *testing.T) {
	o := newTestOrchestrator(t)

	first, err := o.BuildStage(context.Background(), uatStage(), model.SynthOutput)
	require.NoError(t, err)
	second, err := o.BuildStage(context.Background(), uatStage(), model.SynthOutput)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Nodes(), second.Nodes()); diff != "" {
		t.Errorf("nodes differ between rebuilds (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Edges(), second.Edges()); diff != "" {
		t.Errorf("edges differ between rebuilds (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.DeploymentGroup(), second.DeploymentGroup())
}

func TestBuildStage_ReferenceResolutionError(t *testing.T) {
	o := newTestOrchestrator(t)
	d := uatStage()
	d.Environment.Region = ""

	_, err := o.BuildStage(context.Background(), d, model.SynthOutput)

	var rerr *model.ReferenceResolutionError
	require.True(t, errors.As(err, &rerr), "expected ReferenceResolutionError, got %v", err)
	assert.Equal(t, "region", rerr.Missing)
}

func TestNodes_ReturnsCopies(t *testing.T) {
	o := newTestOrchestrator(t)
	g, err := o.BuildStage(context.Background(), uatStage(), model.SynthOutput)
	require.NoError(t, err)

	nodes := g.Nodes()
	nodes[1].Env["APPLICATION"] = "mutated"
	nodes[2].DeploymentGroup.ARN = "mutated"
	nodes[1].Inputs[0] = "mutated"

	configure, _ := g.Step(model.StepConfigure)
	deploy, _ := g.Step(model.StepDeploy)
	assert.Equal(t, "crossAccountEcsBGDeployApp", configure.Env["APPLICATION"])
	assert.Equal(t, model.SynthOutput, configure.Inputs[0])
	assert.NotEqual(t, "mutated", deploy.DeploymentGroup.ARN)
}

func TestLinkExplicitDeps_MissingDependency(t *testing.T) {
	g := newStageGraph(uatStage())
	g.dag.AddNode("UAT.deploy")
	spec := &stepSpec{node: model.StepNode{ID: "UAT.deploy"}, dependsOn: []string{"UAT.approve"}}

	err := g.linkExplicitDeps(context.Background(), spec)

	var derr *model.DependencyOrderingError
	require.True(t, errors.As(err, &derr), "expected DependencyOrderingError, got %v", err)
	assert.Equal(t, "UAT.approve", derr.Dependency)
}

func TestLinkImplicitDeps_UnknownArtifact(t *testing.T) {
	g := newStageGraph(uatStage())
	g.dag.AddNode("UAT.configure")
	spec := &stepSpec{node: model.StepNode{
		ID:     "UAT.configure",
		Inputs: []model.ArtifactKey{model.SynthOutput, "Other.build.output"},
	}}

	err := g.linkImplicitDeps(context.Background(), spec, map[model.ArtifactKey]string{}, model.SynthOutput)

	var derr *model.DependencyOrderingError
	require.True(t, errors.As(err, &derr), "expected DependencyOrderingError, got %v", err)
	assert.Contains(t, derr.Error(), "no step produces")
}

func TestRecordEdge_ExplicitWins(t *testing.T) {
	g := newStageGraph(uatStage())
	g.recordEdge("a", "b", EdgeImplicit, "a.output")
	g.recordEdge("a", "b", EdgeExplicit, "")

	dep := g.edges[dagEdge("a", "b")]
	assert.Equal(t, EdgeExplicit, dep.Kind)
	assert.Equal(t, model.ArtifactKey("a.output"), dep.Artifact)
}

func TestNew_ValidatesSettings(t *testing.T) {
	s := testSettings()
	s.Configure.ExecutionRole = ""

	_, err := New(s, nil)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "configure.execution_role", verr.Field)

	s = testSettings()
	s.Build.ImageDescriptor = ""
	_, err = New(s, nil)
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "build.image_descriptor", verr.Field)
}

func TestVerify_DeploymentGroupOutsideStage(t *testing.T) {
	// --- Arrange ---
	g, err := newTestOrchestrator(t).BuildStage(context.Background(), uatStage(), model.SynthOutput)
	require.NoError(t, err)

	deploy := g.nodes["UAT.deploy"]
	foreign := *deploy.DeploymentGroup
	foreign.ARN = "arn:aws:codedeploy:ap-northeast-1:999999999999:application:crossAccountEcsBGDeployApp"
	deploy.DeploymentGroup = &foreign
	g.nodes["UAT.deploy"] = deploy

	// --- Act ---
	err = g.verify()

	// --- Assert ---
	var orderErr *model.DependencyOrderingError
	require.ErrorAs(t, err, &orderErr)
	assert.Contains(t, orderErr.Reason, "is outside 222222222222/ap-northeast-1")

	foreign.ARN = "not-an-arn"
	var refErr *model.ReferenceResolutionError
	require.ErrorAs(t, g.verify(), &refErr)
}
