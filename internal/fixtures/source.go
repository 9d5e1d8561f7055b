// internal/fixtures/source.go
package fixtures

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
)

// Source loads a fixture catalog.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// StaticSource serves the built-in sample data.
type StaticSource struct{}

func (StaticSource) Load(ctx context.Context) (*Catalog, error) {
	return NewCatalog(SampleData())
}

//go:embed fixture_schema.json
var fixtureSchema string

// FileSource reads a JSON fixture document from disk and validates it against
// the fixture schema before building the catalog.
type FileSource struct {
	Path   string
	logger logger.Logger
}

func NewFileSource(path string, log logger.Logger) *FileSource {
	return &FileSource{Path: path, logger: logger.Component(log, "fixtures.file")}
}

func (s *FileSource) Load(ctx context.Context) (*Catalog, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.NewFixtureLoadFailedError(s.Path, err)
	}
	catalog, err := ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	s.logger.Info("fixtures loaded", map[string]interface{}{
		"path":    s.Path,
		"lps":     len(catalog.lps),
		"deals":   len(catalog.deals),
		"matches": len(catalog.matches),
	})
	return catalog, nil
}

// ParseDocument validates a raw fixture document and builds a catalog from it.
func ParseDocument(raw []byte) (*Catalog, error) {
	if err := ValidateDocument(raw); err != nil {
		return nil, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.NewFixtureValidationError(err.Error())
	}
	return NewCatalog(data)
}

// ValidateDocument checks raw against the embedded fixture schema.
func ValidateDocument(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(fixtureSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return errors.NewFixtureValidationError(fmt.Sprintf("document is not valid JSON: %v", err))
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.NewFixtureValidationError(strings.Join(msgs, "; "))
}
