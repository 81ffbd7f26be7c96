package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/francoispqt/gojay"
)

// DecodeJSONBody parses a request body into a mapping that keeps the
// document's key order. Bodies that are empty, invalid or not a JSON object
// decode to an empty mapping.
func DecodeJSONBody(body []byte) *Mapping {
	// gojay accepts truncated input and trailing bytes
	if !json.Valid(body) {
		return NewMapping()
	}
	m, err := decodeJSONObject(body)
	if err != nil {
		return NewMapping()
	}
	return m
}

func decodeJSONObject(data []byte) (*Mapping, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("not a json object")
	}
	obj := &jsonObject{m: NewMapping()}
	if err := gojay.UnmarshalJSONObject(data, obj); err != nil {
		return nil, err
	}
	return obj.m, nil
}

type jsonObject struct {
	m *Mapping
}

func (o *jsonObject) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	v, err := decodeEmbedded(dec)
	if err != nil {
		return err
	}
	o.m.Set(key, v)
	return nil
}

func (o *jsonObject) NKeys() int { return 0 }

type jsonArray struct {
	items []Value
}

func (a *jsonArray) UnmarshalJSONArray(dec *gojay.Decoder) error {
	v, err := decodeEmbedded(dec)
	if err != nil {
		return err
	}
	a.items = append(a.items, v)
	return nil
}

func decodeEmbedded(dec *gojay.Decoder) (Value, error) {
	raw := gojay.EmbeddedJSON{}
	if err := dec.AddEmbeddedJSON(&raw); err != nil {
		return Value{}, err
	}
	return decodeRaw(bytes.TrimSpace(raw))
}

func decodeRaw(raw []byte) (Value, error) {
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("empty json value")
	}
	switch raw[0] {
	case '{':
		m, err := decodeJSONObject(raw)
		if err != nil {
			return Value{}, err
		}
		return Nested(m), nil
	case '[':
		arr := &jsonArray{items: []Value{}}
		if err := gojay.UnmarshalJSONArray(raw, arr); err != nil {
			return Value{}, err
		}
		return List(arr.items...), nil
	case '"':
		var s string
		if err := gojay.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return Scalar(s), nil
	}
	switch string(raw) {
	case "null":
		return Scalar(nil), nil
	case "true":
		return Scalar(true), nil
	case "false":
		return Scalar(false), nil
	}
	if i, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return Scalar(int(i)), nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid json value %q", raw)
	}
	return Scalar(f), nil
}
