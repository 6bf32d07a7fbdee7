package orchestrator

import (
	"fmt"
	"maps"
	"path"
	"strings"

	"github.com/vk/crossdeploy/internal/model"
)

// Settings holds the step templates shared by every stage.
type Settings struct {
	Build     BuildSettings
	Configure ConfigureSettings
	// Application is the blue/green application (and deployment group) name
	// resolved in every target account.
	Application string
}

// BuildSettings configures the container build step.
type BuildSettings struct {
	RegistryRepository string
	// Region of the registry the image is pushed to.
	Region          string
	BuildImage      string
	Privileged      bool
	Commands        []string
	OutputDirectory string
	ImageDescriptor string
	Env             map[string]string
}

// ConfigureSettings configures the deployment-descriptor step.
type ConfigureSettings struct {
	ExecutionRole string
	TaskFamily    string
	// Commands run after the image descriptor has been copied from the
	// build input into OutputDirectory.
	Commands        []string
	OutputDirectory string
	// BuildInputDirectory is where Build's artifact is mounted.
	BuildInputDirectory string
	Env                 map[string]string
}

const (
	envRegion        = "AWS_REGION_NAME"
	envRepository    = "ECR_REPOSITORY_NAME"
	envExecutionRole = "TASK_EXEC_ROLE"
	envApplication   = "APPLICATION"
	envTaskFamily    = "FARGATE_TASK_DEFINITION"
)

// DefaultSettings returns the templates used by the reference blue/green
// service. Callers still need to set the names that identify their service.
func DefaultSettings() Settings {
	return Settings{
		Build: BuildSettings{
			BuildImage:      "aws/codebuild/standard:5.0",
			Privileged:      true,
			Commands:        []string{"cd codebuild", "chmod +x build.sh", "./build.sh"},
			OutputDirectory: "codebuild/",
			ImageDescriptor: "imageDetail.json",
		},
		Configure: ConfigureSettings{
			Commands: []string{
				"cd codedeploy",
				"chmod a+x codedeploy_configuration.sh",
				"./codedeploy_configuration.sh",
			},
			OutputDirectory:     "codedeploy",
			BuildInputDirectory: "dockerOutput",
		},
	}
}

// Validate reports the first missing required setting.
func (s Settings) Validate() error {
	required := []struct {
		field, value string
	}{
		{"application", s.Application},
		{"build.registry_repository", s.Build.RegistryRepository},
		{"build.region", s.Build.Region},
		{"build.image_descriptor", s.Build.ImageDescriptor},
		{"configure.execution_role", s.Configure.ExecutionRole},
		{"configure.task_family", s.Configure.TaskFamily},
		{"configure.output_directory", s.Configure.OutputDirectory},
		{"configure.build_input_directory", s.Configure.BuildInputDirectory},
	}
	for _, r := range required {
		if r.value == "" {
			return &model.ValidationError{Field: r.field, Reason: "must not be empty"}
		}
	}
	return nil
}

// buildEnv returns the environment bindings of the Build step.
func (s Settings) buildEnv() map[string]string {
	env := maps.Clone(s.Build.Env)
	if env == nil {
		env = make(map[string]string)
	}
	env[envRegion] = s.Build.Region
	env[envRepository] = s.Build.RegistryRepository
	return env
}

// configureEnv returns the environment bindings of the Configure step.
func (s Settings) configureEnv() map[string]string {
	env := maps.Clone(s.Configure.Env)
	if env == nil {
		env = make(map[string]string)
	}
	env[envExecutionRole] = s.Configure.ExecutionRole
	env[envApplication] = s.Application
	env[envTaskFamily] = s.Configure.TaskFamily
	return env
}

// copyDescriptorCommand copies Build's image descriptor from where the build
// artifact is mounted into Configure's working directory.
func (s Settings) copyDescriptorCommand() string {
	src := path.Join(s.Configure.BuildInputDirectory, s.Build.ImageDescriptor)
	dst := strings.TrimSuffix(s.Configure.OutputDirectory, "/") + "/"
	return fmt.Sprintf("cp %s %s", src, dst)
}
