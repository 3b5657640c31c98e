package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/secmon-lab/gradecalc/pkg/service/schema"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Input holds the location of the grading input document
type Input struct {
	Path string
}

// Flags returns CLI flags for Input configuration
func (i *Input) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Input document (JSON or YAML) with course, assignment_group and learner_submissions",
			Category:    "Input",
			Required:    true,
			Sources:     cli.EnvVars("GRADECALC_INPUT"),
			Destination: &i.Path,
		},
	}
}

// Load reads, schema-checks and decodes the input document
func (i *Input) Load() (*model.GradingInput, error) {
	return LoadInputFromFile(i.Path)
}

// LogValue returns structured log value
func (i Input) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", i.Path),
	)
}

// LoadInputFromFile loads a grading input document. JSON is parsed by the
// YAML decoder as well.
func LoadInputFromFile(path string) (*model.GradingInput, error) {
	if path == "" {
		return nil, goerr.New("input file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "input file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read input file",
			goerr.V("path", path))
	}

	return ParseInput(data)
}

// ParseInput decodes a grading input document after validating it against
// the input schema
func ParseInput(data []byte) (*model.GradingInput, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input document",
			goerr.T(model.ErrTagInvalidInput))
	}

	if err := schema.Validate(raw); err != nil {
		return nil, err
	}

	var input model.GradingInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, goerr.Wrap(err, "failed to decode input document",
			goerr.T(model.ErrTagInvalidInput))
	}

	return &input, nil
}
