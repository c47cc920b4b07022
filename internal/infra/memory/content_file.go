package memory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"prepquiz-service/internal/domain"
)

// FileContentLoader reads the catalogue from a YAML file. JSON files work too since
// YAML is a superset of JSON.
type FileContentLoader struct {
	path string
}

func NewFileContentLoader(path string) *FileContentLoader {
	return &FileContentLoader{path: path}
}

func (l *FileContentLoader) LoadContent(_ context.Context) (domain.Content, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Content{}, fmt.Errorf("%w: %s", domain.ErrContentNotFound, l.path)
		}
		return domain.Content{}, fmt.Errorf("read content: %w", err)
	}
	return ParseContent(data)
}

// ParseContent decodes a YAML or JSON catalogue document.
func ParseContent(data []byte) (domain.Content, error) {
	var content domain.Content
	if err := yaml.Unmarshal(data, &content); err != nil {
		return domain.Content{}, fmt.Errorf("decode content: %w", err)
	}
	if len(content.Categories) == 0 {
		return domain.Content{}, domain.ErrContentNotFound
	}
	return content, nil
}
