package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reqshape/reqshape/pkg/params"
)

// TablesFile is the on-disk form of params.tables_file.
//
//	aliases:
//	  filter_def: find_d
//	types:
//	  skip: int
type TablesFile struct {
	Aliases map[string]string `yaml:"aliases"`
	Types   map[string]string `yaml:"types"`
}

func LoadTablesFile(path string) (TablesFile, error) {
	// #nosec G304 -- tables_file comes from trusted config/env.
	b, err := os.ReadFile(path)
	if err != nil {
		return TablesFile{}, err
	}
	var tf TablesFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return TablesFile{}, fmt.Errorf("parse tables file %q: %w", path, err)
	}
	return tf, nil
}

// BuildTables resolves the alias and type tables of cfg. Sections present in
// the tables file replace the inline ones.
func BuildTables(cfg *Config) (params.Tables, error) {
	if cfg == nil {
		return params.DefaultTables(), nil
	}
	aliases := cfg.Params.Aliases
	types := cfg.Params.Types
	if path := strings.TrimSpace(cfg.Params.TablesFile); path != "" {
		tf, err := LoadTablesFile(path)
		if err != nil {
			return params.Tables{}, err
		}
		if tf.Aliases != nil {
			aliases = tf.Aliases
		}
		if tf.Types != nil {
			types = tf.Types
		}
	}
	tables, err := params.NewTables(aliases, types)
	if err != nil {
		return params.Tables{}, fmt.Errorf("build tables: %w", err)
	}
	return tables, nil
}
