package catalog

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/mockwiseai/backend/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed/*.yaml
var seedFS embed.FS

type Upserter interface {
	UpsertQuestion(ctx context.Context, q *models.Question) error
}

type seedFile struct {
	Questions []models.Question `yaml:"questions"`
}

// Parse reads a YAML document with a top level questions list.
func Parse(data []byte) ([]models.Question, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, q := range f.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return nil, fmt.Errorf("question %d: id is required", i)
		}
		if !q.Type.Valid() {
			return nil, fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
		}
	}
	return f.Questions, nil
}

// Builtin returns the questions shipped with the binary.
func Builtin() ([]models.Question, error) {
	entries, err := seedFS.ReadDir("seed")
	if err != nil {
		return nil, fmt.Errorf("failed to read seed directory: %w", err)
	}

	var out []models.Question
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := seedFS.ReadFile("seed/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", entry.Name(), err)
		}
		qs, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", entry.Name(), err)
		}
		out = append(out, qs...)
	}
	return out, nil
}

// Seed upserts the builtin questions, then those in path when it is set.
// Entries in path override builtins with the same id.
func Seed(ctx context.Context, store Upserter, path string) (int, error) {
	qs, err := Builtin()
	if err != nil {
		return 0, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read question seed %s: %w", path, err)
		}
		extra, err := Parse(data)
		if err != nil {
			return 0, fmt.Errorf("parse question seed %s: %w", path, err)
		}
		qs = append(qs, extra...)
	}

	for i := range qs {
		if err := store.UpsertQuestion(ctx, &qs[i]); err != nil {
			return i, fmt.Errorf("seed question %s: %w", qs[i].ID, err)
		}
	}
	return len(qs), nil
}
