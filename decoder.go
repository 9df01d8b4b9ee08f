package jsonasm

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/modern-go/reflect2"

	"github.com/jsonasm/jsonasm-go/internal/arena"
	"github.com/jsonasm/jsonasm-go/internal/parser"
)

type decoder struct {
	data []byte
}

var decoderPool = sync.Pool{
	New: func() interface{} { return &decoder{} },
}

func newDecoder(data []byte) *decoder {
	d := decoderPool.Get().(*decoder)
	d.data = data
	return d
}

func (d *decoder) release() {
	d.data = nil
	decoderPool.Put(d)
}

func (d *decoder) unmarshal(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("unmarshal requires non-nil pointer")
	}

	doc, err := parser.Parse(d.data, parser.Options{})
	if err != nil {
		return err
	}

	return decodeValue(doc, doc.Root(), rv.Elem())
}

func decodeValue(doc *arena.Document, ref arena.Ref, dst reflect.Value) error {
	if ref == arena.NullRef || doc.IsNull(ref) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeValue(doc, ref, dst.Elem())
	}

	if dst.Kind() == reflect.Interface && dst.Type().NumMethod() == 0 {
		dst.Set(reflect.ValueOf(genericValue(doc, ref)))
		return nil
	}

	switch doc.Type(ref) {
	case arena.TagTrue, arena.TagFalse:
		return decodeBool(doc.Bool(ref), dst)
	case arena.TagInt:
		return decodeInt(doc.Int(ref), dst)
	case arena.TagFloat:
		return decodeFloat(doc.Float(ref), dst)
	case arena.TagShortString, arena.TagLongString:
		return decodeString(doc.Str(ref), dst)
	case arena.TagArray:
		return decodeArray(doc, ref, dst)
	case arena.TagObject:
		return decodeObject(doc, ref, dst)
	default:
		return errors.New("unexpected value type")
	}
}

// genericValue materializes ref into a plain interface{} tree, used when
// decoding into an interface{} target -- matches encoding/json's own
// behavior for Unmarshal(data, &v) with v *interface{}.
func genericValue(doc *arena.Document, ref arena.Ref) interface{} {
	switch doc.Type(ref) {
	case arena.TagNull:
		return nil
	case arena.TagTrue, arena.TagFalse:
		return doc.Bool(ref)
	case arena.TagInt:
		return float64(doc.Int(ref))
	case arena.TagFloat:
		return doc.Float(ref)
	case arena.TagShortString, arena.TagLongString:
		return doc.Str(ref)
	case arena.TagArray:
		out := make([]interface{}, 0, doc.Size(ref))
		for e := doc.Child(ref); e != arena.NullRef; e = doc.Next(e) {
			out = append(out, genericValue(doc, e))
		}
		return out
	case arena.TagObject:
		out := make(map[string]interface{}, doc.Size(ref))
		for k := doc.Child(ref); k != arena.NullRef; k = doc.Next(k) {
			out[doc.Key(k)] = genericValue(doc, doc.Value(k))
		}
		return out
	default:
		return nil
	}
}

func decodeBool(src bool, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Bool:
		dst.SetBool(src)
		return nil
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(reflect.ValueOf(src))
			return nil
		}
	}
	return errors.New("cannot unmarshal bool into " + dst.Type().String())
}

func decodeInt(src int64, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(src)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst.SetUint(uint64(src))
		return nil
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(float64(src))
		return nil
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(reflect.ValueOf(float64(src)))
			return nil
		}
	}
	return errors.New("cannot unmarshal int into " + dst.Type().String())
}

func decodeFloat(src float64, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(src)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(int64(src))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst.SetUint(uint64(src))
		return nil
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(reflect.ValueOf(src))
			return nil
		}
	}
	return errors.New("cannot unmarshal number into " + dst.Type().String())
}

func decodeString(src string, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(src)
		return nil
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(reflect.ValueOf(src))
			return nil
		}
	}
	return errors.New("cannot unmarshal string into " + dst.Type().String())
}

func decodeArray(doc *arena.Document, ref arena.Ref, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Slice:
		n := doc.Size(ref)
		if dst.IsNil() || dst.Len() < n {
			dst.Set(reflect.MakeSlice(dst.Type(), n, n))
		}
		i := 0
		for e := doc.Child(ref); e != arena.NullRef; e = doc.Next(e) {
			if err := decodeValue(doc, e, dst.Index(i)); err != nil {
				return err
			}
			i++
		}
		return nil
	case reflect.Array:
		n := doc.Size(ref)
		if dst.Len() < n {
			return errors.New("array too small")
		}
		i := 0
		for e := doc.Child(ref); e != arena.NullRef; e = doc.Next(e) {
			if err := decodeValue(doc, e, dst.Index(i)); err != nil {
				return err
			}
			i++
		}
		return nil
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(reflect.ValueOf(genericValue(doc, ref)))
			return nil
		}
	}
	return errors.New("cannot unmarshal array into " + dst.Type().String())
}

func decodeObject(doc *arena.Document, ref arena.Ref, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Map:
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(dst.Type()))
		}
		keyType := dst.Type().Key()
		elemType := dst.Type().Elem()
		if keyType.Kind() != reflect.String {
			return errors.New("map key must be string")
		}
		for k := doc.Child(ref); k != arena.NullRef; k = doc.Next(k) {
			keyVal := reflect.New(keyType).Elem()
			keyVal.SetString(doc.Key(k))
			elemVal := reflect.New(elemType).Elem()
			if err := decodeValue(doc, doc.Value(k), elemVal); err != nil {
				return err
			}
			dst.SetMapIndex(keyVal, elemVal)
		}
		return nil
	case reflect.Struct:
		return decodeStruct(doc, ref, dst)
	case reflect.Interface:
		if dst.Type().NumMethod() == 0 {
			dst.Set(reflect.ValueOf(genericValue(doc, ref)))
			return nil
		}
	}
	return errors.New("cannot unmarshal object into " + dst.Type().String())
}

func decodeStruct(doc *arena.Document, ref arena.Ref, dst reflect.Value) error {
	fields := cachedFields(dst.Type())
	for k := doc.Child(ref); k != arena.NullRef; k = doc.Next(k) {
		name := doc.Key(k)
		fi, ok := fields.byName[name]
		if !ok {
			continue
		}
		field := dst.Field(fi.index)
		if !field.CanSet() {
			continue
		}
		if err := decodeValue(doc, doc.Value(k), field); err != nil {
			return err
		}
	}
	return nil
}

// fieldInfo is one struct field's decode/encode metadata, computed once
// per struct type via reflect2's field introspection (reflect2.Type2's
// StructType view gives name/tag access without repeatedly re-walking
// reflect.Type.Field for every decoded value, the cachedFields role
// DESIGN.md assigns to github.com/modern-go/reflect2).
type fieldInfo struct {
	index     int
	name      string
	omitempty bool
}

type structFields struct {
	ordered []fieldInfo
	byName  map[string]fieldInfo
}

var fieldCache sync.Map // reflect.Type -> *structFields

func cachedFields(t reflect.Type) *structFields {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(*structFields)
	}

	rt2 := reflect2.Type2(t)
	structType, ok := rt2.(reflect2.StructType)
	if !ok {
		sf := &structFields{byName: map[string]fieldInfo{}}
		fieldCache.Store(t, sf)
		return sf
	}

	sf := &structFields{byName: make(map[string]fieldInfo, structType.NumField())}
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		structField := t.Field(i)
		if structField.PkgPath != "" {
			continue
		}
		tag := f.Tag().Get("json")
		if tag == "-" {
			continue
		}
		name := f.Name()
		omitempty := false
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitempty = true
				}
			}
		}
		fi := fieldInfo{index: i, name: name, omitempty: omitempty}
		sf.ordered = append(sf.ordered, fi)
		sf.byName[name] = fi
	}

	fieldCache.Store(t, sf)
	return sf
}
