package canonical

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Format selects how mapping keys take part in the canonical form.
type Format uint8

const (
	// FormatValues concatenates values only, in key-sorted order.
	FormatValues Format = iota
	// FormatKeyValue emits each mapping key immediately before its value.
	FormatKeyValue
)

// String returns the name used in configuration.
func (f Format) String() string {
	switch f {
	case FormatValues:
		return "values"
	case FormatKeyValue:
		return "keyvalue"
	default:
		return "unknown"
	}
}

// ParseFormat is the inverse of Format.String. An empty name selects FormatValues.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "values":
		return FormatValues, nil
	case "keyvalue":
		return FormatKeyValue, nil
	default:
		return 0, fmt.Errorf("unknown canonical format %q", name)
	}
}

// Options configures a Serializer.
type Options struct {
	Format Format
}

// Serializer produces the canonical byte form that requests and responses are
// signed over. The zero value uses FormatValues. A Serializer holds no state
// and is safe for concurrent use.
type Serializer struct {
	opts Options
}

func NewSerializer(opts Options) Serializer {
	return Serializer{opts: opts}
}

// Serialize is shorthand for the default serializer.
func Serialize(method, uuid string, data any) ([]byte, error) {
	return Serializer{}.Serialize(method, uuid, data)
}

// Serialize returns method ‖ uuid ‖ flatten(data).
//
// Mapping values are visited in lexicographic key order at every depth, list
// elements in their given order. nil values are omitted. Structs are first
// normalised through their JSON encoding, so omitempty fields disappear.
func (s Serializer) Serialize(method, uuid string, data any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(method)
	buf.WriteString(uuid)
	if err := s.write(&buf, data, "data"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Flatten returns only the flattened data part, without method and uuid.
func (s Serializer) Flatten(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.write(&buf, data, "data"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s Serializer) write(buf *bytes.Buffer, v any, path string) error {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		buf.WriteString(x)
		return nil
	case bool:
		buf.WriteString(strconv.FormatBool(x))
		return nil
	case json.Number:
		n, err := fixedNumber(x)
		if err != nil {
			return &Error{Path: path, Reason: "invalid number", Cause: err}
		}
		buf.WriteString(n)
		return nil
	case []byte:
		if x == nil {
			return nil
		}
		buf.WriteString(base64.StdEncoding.EncodeToString(x))
		return nil
	case json.RawMessage:
		decoded, err := Decode(x)
		if err != nil {
			return &Error{Path: path, Reason: "invalid raw JSON", Cause: err}
		}
		return s.write(buf, decoded, path)
	case decimal.Decimal:
		buf.WriteString(x.String())
		return nil
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		buf.WriteString(x.String())
		return nil
	case map[string]any:
		return s.writeMap(buf, x, path)
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = val
		}
		return s.writeMap(buf, m, path)
	case []any:
		for i, elem := range x {
			if err := s.write(buf, elem, indexPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, elem := range x {
			buf.WriteString(elem)
		}
		return nil
	case json.Marshaler:
		normalised, err := Normalize(x)
		if err != nil {
			return &Error{Path: path, Reason: "cannot normalise value", Cause: err}
		}
		return s.write(buf, normalised, path)
	}

	return s.writeReflect(buf, reflect.ValueOf(v), path)
}

func (s Serializer) writeMap(buf *bytes.Buffer, m map[string]any, path string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		val := m[k]
		if isNil(val) {
			continue
		}
		if s.opts.Format == FormatKeyValue {
			buf.WriteString(k)
		}
		if err := s.write(buf, val, path+"."+k); err != nil {
			return err
		}
	}
	return nil
}

func (s Serializer) writeReflect(buf *bytes.Buffer, rv reflect.Value, path string) error {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return s.write(buf, rv.Elem().Interface(), path)
	case reflect.String:
		buf.WriteString(rv.String())
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		buf.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &Error{Path: path, Reason: "non-finite number"}
		}
		bitSize := 64
		if rv.Kind() == reflect.Float32 {
			bitSize = 32
		}
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, bitSize))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		// JSON encodes byte slices as base64 strings.
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			buf.WriteString(base64.StdEncoding.EncodeToString(rv.Bytes()))
			return nil
		}
		for i := 0; i < rv.Len(); i++ {
			if err := s.write(buf, rv.Index(i).Interface(), indexPath(path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return &Error{Path: path, Reason: fmt.Sprintf("map key type %s is not a string", rv.Type().Key())}
		}
		if rv.IsNil() {
			return nil
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return s.writeMap(buf, m, path)
	case reflect.Struct:
		normalised, err := Normalize(rv.Interface())
		if err != nil {
			return &Error{Path: path, Reason: "cannot normalise struct", Cause: err}
		}
		return s.write(buf, normalised, path)
	default:
		return &Error{Path: path, Reason: fmt.Sprintf("unsupported value of type %s", rv.Type())}
	}
	return nil
}

// Normalize converts v into the generic shape the serializer walks:
// map[string]any, []any, string, bool, json.Number and nil. It goes through
// v's JSON encoding, so struct tags decide field names and omission.
// Numbers that encoding/json writes with an exponent are rewritten in fixed
// decimal notation, so the normalised value marshals to what is signed.
func Normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error marshalling value: %w", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return fixNumbers(decoded)
}

// Decode parses exactly one JSON value keeping numbers as json.Number, so the
// canonical form carries the exact digits that were on the wire.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding JSON: %w", err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("error decoding JSON: unexpected data after top-level value")
	}
	return out, nil
}

// fixedNumber returns n without an exponent. Numbers already in fixed
// notation are kept verbatim, trailing zeros included.
func fixedNumber(n json.Number) (string, error) {
	s := n.String()
	if !strings.ContainsAny(s, "eE") {
		return s, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func fixNumbers(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		n, err := fixedNumber(x)
		if err != nil {
			return nil, err
		}
		return json.Number(n), nil
	case map[string]any:
		for k, val := range x {
			fixed, err := fixNumbers(val)
			if err != nil {
				return nil, err
			}
			x[k] = fixed
		}
	case []any:
		for i, val := range x {
			fixed, err := fixNumbers(val)
			if err != nil {
				return nil, err
			}
			x[i] = fixed
		}
	}
	return v, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
