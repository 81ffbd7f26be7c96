package params

// Options selects the pipeline stages applied by Resolve.
type Options struct {
	Alias           bool
	Coerce          bool
	NormalizeArrays bool
	// Tables holds the alias and type tables; the zero value means
	// DefaultTables.
	Tables *Tables
}

func (o Options) tables() Tables {
	if o.Tables == nil {
		return DefaultTables()
	}
	return *o.Tables
}

// Merge copies the entries of sources into a new mapping, left to right.
// Later sources replace earlier values of the same key as a whole.
func Merge(sources ...*Mapping) *Mapping {
	out := NewMapping()
	for _, src := range sources {
		src.Range(func(k string, v Value) bool {
			out.Set(k, v)
			return true
		})
	}
	return out
}

// Resolve merges sources (lowest precedence first) and runs alias
// resolution, type coercion and array normalization, in that order, for the
// stages enabled in opts. Sources are not modified.
func Resolve(sources []*Mapping, opts Options) (*Mapping, error) {
	out := Merge(sources...)
	tables := opts.tables()
	if opts.Alias {
		ApplyAliases(out, tables.Aliases)
	}
	if opts.Coerce {
		if err := CoerceFilterFields(out, tables.Types); err != nil {
			return nil, err
		}
	}
	if opts.NormalizeArrays {
		if err := NormalizeArrays(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
