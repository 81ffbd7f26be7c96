package params

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/reqshape/reqshape/pkg/textutil"
)

// Cast converts a field value into its declared type.
type Cast func(Value) (Value, error)

var casts = map[string]Cast{
	"int":   ToInt,
	"float": ToFloat,
	"str":   ToString,
	"bool":  ToBool,
	"date":  ToDate,
}

// CastByName resolves the casts accepted in configuration files.
func CastByName(name string) (Cast, bool) {
	c, ok := casts[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// CastNames lists the configurable cast names.
func CastNames() []string {
	out := make([]string, 0, len(casts))
	for k := range casts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ToInt accepts integers, integral floats and numeric strings.
func ToInt(v Value) (Value, error) {
	raw, err := scalarOf(v)
	if err != nil {
		return Value{}, err
	}
	switch t := raw.(type) {
	case int:
		return Scalar(t), nil
	case int64:
		return Scalar(int(t)), nil
	case int32:
		return Scalar(int(t)), nil
	case float64:
		if t != math.Trunc(t) {
			return Value{}, fmt.Errorf("%v is not an integer", t)
		}
		if t < math.MinInt || t >= -math.MinInt {
			return Value{}, fmt.Errorf("%v overflows int", t)
		}
		return Scalar(int(t)), nil
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return Value{}, err
		}
		return Scalar(int(i)), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return Value{}, fmt.Errorf("invalid int %q", t)
		}
		return Scalar(i), nil
	}
	return Value{}, fmt.Errorf("cannot convert %T to int", raw)
}

func ToFloat(v Value) (Value, error) {
	raw, err := scalarOf(v)
	if err != nil {
		return Value{}, err
	}
	switch t := raw.(type) {
	case float64:
		return Scalar(t), nil
	case float32:
		return Scalar(float64(t)), nil
	case int:
		return Scalar(float64(t)), nil
	case int64:
		return Scalar(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Scalar(f), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float %q", t)
		}
		return Scalar(f), nil
	}
	return Value{}, fmt.Errorf("cannot convert %T to float", raw)
}

// ToString renders any scalar with its natural text form.
func ToString(v Value) (Value, error) {
	raw, err := scalarOf(v)
	if err != nil {
		return Value{}, err
	}
	switch t := raw.(type) {
	case string:
		return Scalar(t), nil
	case nil:
		return Scalar(""), nil
	case fmt.Stringer:
		return Scalar(t.String()), nil
	case bool, int, int32, int64, float32, float64, json.Number:
		return Scalar(fmt.Sprint(t)), nil
	}
	return Value{}, fmt.Errorf("cannot convert %T to string", raw)
}

func ToBool(v Value) (Value, error) {
	raw, err := scalarOf(v)
	if err != nil {
		return Value{}, err
	}
	switch t := raw.(type) {
	case bool:
		return Scalar(t), nil
	case int:
		return Scalar(t != 0), nil
	case float64:
		return Scalar(t != 0), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "y", "on":
			return Scalar(true), nil
		case "0", "false", "no", "n", "off", "":
			return Scalar(false), nil
		}
		return Value{}, fmt.Errorf("invalid bool %q", t)
	}
	return Value{}, fmt.Errorf("cannot convert %T to bool", raw)
}

// ToDate renders a unix timestamp as a day/month/year string. Values that are
// not numeric pass through as text.
func ToDate(v Value) (Value, error) {
	s, err := ToString(v)
	if err != nil {
		return Value{}, err
	}
	return Scalar(textutil.DateTime(s.String(), textutil.DefaultDateLayout)), nil
}

func scalarOf(v Value) (any, error) {
	if v.Kind() != KindScalar {
		return nil, fmt.Errorf("expected scalar, got %s", v.Kind())
	}
	return v.Raw(), nil
}
