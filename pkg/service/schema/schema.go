// Package schema checks raw input documents against the gradecalc JSON Schema
// before they are decoded into domain records.
package schema

import (
	_ "embed"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed input.schema.json
var inputSchema []byte

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(inputSchema))
	})
	return compiled, compileErr
}

// Validate checks a decoded document (maps, slices and scalars as produced
// by a JSON or YAML decoder) against the input schema
func Validate(doc any) error {
	s, err := loadSchema()
	if err != nil {
		return goerr.Wrap(err, "failed to compile input schema")
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return goerr.Wrap(err, "failed to validate input document",
			goerr.T(model.ErrTagInvalidInput))
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, e.String())
		}
		return goerr.New("input document does not match schema",
			goerr.T(model.ErrTagInvalidInput),
			goerr.V("violations", violations))
	}

	return nil
}
