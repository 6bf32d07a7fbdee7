// Package render turns a sealed pipeline into the document handed to the
// external deployment engine, as JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/crossdeploy/internal/model"
	"github.com/vk/crossdeploy/internal/orchestrator"
	"github.com/vk/crossdeploy/internal/pipeline"
	"github.com/vk/crossdeploy/internal/trust"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: must be 'json' or 'yaml'", s)
	}
}

// fingerprintNamespace scopes every fingerprint derived by this package.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://crossdeploy.dev/pipeline"))

// Document is the serializable form of a sealed pipeline.
type Document struct {
	Fingerprint string                   `json:"fingerprint" yaml:"fingerprint"`
	Pipeline    model.PipelineDefinition `json:"pipeline" yaml:"pipeline"`
	Settings    pipeline.Settings        `json:"settings" yaml:"settings"`
	Synth       model.StepNode           `json:"synth" yaml:"synth"`
	Roles       pipeline.Roles           `json:"roles" yaml:"roles"`
	Stages      []Stage                  `json:"stages" yaml:"stages"`
	Grants      []model.TrustGrant       `json:"grants" yaml:"grants"`
	Policy      trust.PolicyDocument     `json:"policy" yaml:"policy"`
}

// Stage is one rendered stage graph.
type Stage struct {
	Name            string                    `json:"name" yaml:"name"`
	Fingerprint     string                    `json:"fingerprint" yaml:"fingerprint"`
	ServiceStack    string                    `json:"service_stack" yaml:"service_stack"`
	Environment     model.Environment         `json:"environment" yaml:"environment"`
	DeploymentGroup model.DeploymentGroupRef  `json:"deployment_group" yaml:"deployment_group"`
	Steps           []Step                    `json:"steps" yaml:"steps"`
	Edges           []orchestrator.Dependency `json:"edges" yaml:"edges"`
}

// Step is a step node with its stable fingerprint.
type Step struct {
	Fingerprint    string `json:"fingerprint" yaml:"fingerprint"`
	model.StepNode `yaml:",inline"`
}

// New builds the document of s. Grants reflect the last ComputeGrants call.
// Fingerprints depend only on names and environments, so re-rendering an
// unchanged pipeline yields identical identifiers.
func New(s *pipeline.Sealed) *Document {
	def := s.Definition()
	root := uuid.NewSHA1(fingerprintNamespace, []byte(def.Name+"/"+def.Environment.String()))

	doc := &Document{
		Fingerprint: root.String(),
		Pipeline:    def,
		Settings:    s.Settings(),
		Synth:       s.Synth(),
		Roles:       s.Roles(),
		Stages:      []Stage{},
		Grants:      s.Grants(),
		Policy:      s.PolicyDocument(),
	}
	if doc.Grants == nil {
		doc.Grants = []model.TrustGrant{}
	}

	for _, g := range s.Stages() {
		d := g.Stage()
		stageID := uuid.NewSHA1(root, []byte(d.Name+"/"+d.Environment.String()))
		stage := Stage{
			Name:            d.Name,
			Fingerprint:     stageID.String(),
			ServiceStack:    s.ServiceStack(d.Name),
			Environment:     d.Environment,
			DeploymentGroup: g.DeploymentGroup(),
			Edges:           g.Edges(),
		}
		for _, n := range g.Nodes() {
			stage.Steps = append(stage.Steps, Step{
				Fingerprint: uuid.NewSHA1(stageID, []byte(n.ID)).String(),
				StepNode:    n,
			})
		}
		doc.Stages = append(doc.Stages, stage)
	}
	return doc
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
