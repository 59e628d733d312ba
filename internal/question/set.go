package question

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Set is a named collection of questions loaded from a YAML file.
type Set struct {
	Name      string     `yaml:"name"`
	Questions []Question `yaml:"questions"`
}

// ReadSetFile loads a question set from a single YAML file and validates
// every question in it.
func ReadSetFile(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var set Set
	if err := yaml.NewDecoder(file).Decode(&set); err != nil {
		return nil, fmt.Errorf("yaml.NewDecoder().Decode(%s) > %w", path, err)
	}

	for _, q := range set.Questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return &set, nil
}

// ReadSetDir loads all question sets from the .yml files in a directory,
// keyed by file basename.
func ReadSetDir(dir string) (map[string]*Set, error) {
	sets := make(map[string]*Set)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}

		set, err := ReadSetFile(path)
		if err != nil {
			return fmt.Errorf("ReadSetFile(%s) > %w", path, err)
		}

		basename := filepath.Base(path)
		basename = basename[:len(basename)-len(filepath.Ext(basename))]
		sets[basename] = set
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("filepath.Walk(%s) > %w", dir, err)
	}

	return sets, nil
}
