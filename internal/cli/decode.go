package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reqshape/reqshape/internal/config"
	"github.com/reqshape/reqshape/pkg/jsonutil"
	"github.com/reqshape/reqshape/pkg/params"
)

type decodeOptions struct {
	jsonPath string
	form     string
	query    string

	alias  bool
	coerce bool
	norm   bool
	find   bool

	tablesPath string
	selectPath string
}

func newDecodeCmd() *cobra.Command {
	opts := decodeOptions{norm: true}
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a JSON body, form and query into one object",
		Example: `  reqshape decode --form 'people[].name[]=A&people[].name[]=B'
  reqshape decode --json body.json --query 'start_record=5' --find
  echo '{"a":{"b":1}}' | reqshape decode --json - --select '$.a.b'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd.OutOrStdout(), cmd.InOrStdin(), opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.jsonPath, "json", "", "JSON body file (- for stdin)")
	fs.StringVar(&opts.form, "form", "", "urlencoded form fields")
	fs.StringVar(&opts.query, "query", "", "urlencoded query fields")
	fs.BoolVar(&opts.alias, "alias", false, "apply the alias table")
	fs.BoolVar(&opts.coerce, "coerce", false, "keep only typed fields and cast them")
	fs.BoolVar(&opts.norm, "norm", true, "normalize [] array groups")
	fs.BoolVar(&opts.find, "find", false, "shorthand for --alias --coerce --norm")
	fs.StringVar(&opts.tablesPath, "tables", "", "tables yaml (aliases/types) replacing the built-in tables")
	fs.StringVar(&opts.selectPath, "select", "", "print only the value at a $.path")
	return cmd
}

func runDecode(w io.Writer, stdin io.Reader, opts decodeOptions) error {
	body, err := readDecodeBody(stdin, opts.jsonPath)
	if err != nil {
		return err
	}
	form, err := loadFieldString("form", opts.form)
	if err != nil {
		return err
	}
	query, err := loadFieldString("query", opts.query)
	if err != nil {
		return err
	}

	ro := params.Options{
		Alias:           opts.alias || opts.find,
		Coerce:          opts.coerce || opts.find,
		NormalizeArrays: opts.norm || opts.find,
	}
	if path := strings.TrimSpace(opts.tablesPath); path != "" {
		cfg := config.Default()
		cfg.Params.TablesFile = path
		tables, err := config.BuildTables(cfg)
		if err != nil {
			return err
		}
		ro.Tables = &tables
	}

	out, err := params.NewRequest(body, nil, form, query).Object(ro)
	if err != nil {
		return err
	}

	var b []byte
	if sel := strings.TrimSpace(opts.selectPath); sel != "" {
		v, ok := jsonutil.GetByPath(out, sel)
		if !ok {
			return fmt.Errorf("no value at %s", sel)
		}
		b, err = v.MarshalJSON()
	} else {
		b, err = out.MarshalJSON()
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func readDecodeBody(stdin io.Reader, path string) ([]byte, error) {
	switch strings.TrimSpace(path) {
	case "":
		return nil, nil
	case "-":
		if stdin == nil {
			return nil, errors.New("--json -: no stdin")
		}
		return io.ReadAll(stdin)
	default:
		// #nosec G304 -- path comes from the command line.
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read json body: %w", err)
		}
		return b, nil
	}
}

func loadFieldString(source string, raw string) (*params.Mapping, error) {
	fields, err := params.ParseFields(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	m, err := params.LoadForm(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return m, nil
}
