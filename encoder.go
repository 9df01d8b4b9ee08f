package jsonasm

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"sync"

	"github.com/cloudwego/base64x"

	"github.com/jsonasm/jsonasm-go/internal/serializer"
)

type encoder struct {
	buf []byte
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &encoder{buf: make([]byte, 0, 4096)}
	},
}

func newEncoder() *encoder {
	e := encoderPool.Get().(*encoder)
	e.buf = e.buf[:0]
	return e
}

func (e *encoder) release() {
	if cap(e.buf) > 64*1024 {
		e.buf = make([]byte, 0, 4096)
	}
	encoderPool.Put(e)
}

func (e *encoder) marshal(v interface{}) ([]byte, error) {
	if err := e.encode(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	result := make([]byte, len(e.buf))
	copy(result, e.buf)
	return result, nil
}

func (e *encoder) encode(v reflect.Value) error {
	if !v.IsValid() {
		e.buf = append(e.buf, "null"...)
		return nil
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Bool:
		return e.encodeBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.encodeInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return e.encodeUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return e.encodeFloat(v.Float())
	case reflect.String:
		return e.encodeString(v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return e.encodeBytes(v.Bytes())
		}
		return e.encodeArray(v)
	case reflect.Array:
		return e.encodeArray(v)
	case reflect.Map:
		return e.encodeMap(v)
	case reflect.Struct:
		return e.encodeStruct(v)
	case reflect.Interface:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.encode(v.Elem())
	default:
		return errors.New("unsupported type: " + v.Type().String())
	}
}

func (e *encoder) encodeBool(b bool) error {
	if b {
		e.buf = append(e.buf, "true"...)
	} else {
		e.buf = append(e.buf, "false"...)
	}
	return nil
}

func (e *encoder) encodeInt(i int64) error {
	e.buf = strconv.AppendInt(e.buf, i, 10)
	return nil
}

func (e *encoder) encodeUint(u uint64) error {
	e.buf = strconv.AppendUint(e.buf, u, 10)
	return nil
}

func (e *encoder) encodeFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("unsupported float value")
	}
	e.buf = strconv.AppendFloat(e.buf, f, 'g', -1, 64)
	return nil
}

// encodeString reuses internal/serializer's escaping rules (C5's
// AppendEscapedString) instead of keeping a second string-escaping
// implementation in this outer shell.
func (e *encoder) encodeString(s string) error {
	e.buf = serializer.AppendEscapedString(e.buf, s, false, false)
	return nil
}

// encodeBytes base64-encodes a []byte field, matching encoding/json's
// convention for byte slices. It uses cloudwego/base64x in place of the
// teacher's encoding/base64 call -- a drop-in, SIMD-accelerated
// replacement with the same Encoding interface.
func (e *encoder) encodeBytes(b []byte) error {
	e.buf = append(e.buf, '"')
	e.buf = append(e.buf, base64x.StdEncoding.EncodeToString(b)...)
	e.buf = append(e.buf, '"')
	return nil
}

func (e *encoder) encodeArray(v reflect.Value) error {
	e.buf = append(e.buf, '[')
	n := v.Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		if err := e.encode(v.Index(i)); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, ']')
	return nil
}

func (e *encoder) encodeMap(v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return errors.New("map key must be string")
	}
	e.buf = append(e.buf, '{')
	keys := v.MapKeys()
	for i, key := range keys {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		if err := e.encodeString(key.String()); err != nil {
			return err
		}
		e.buf = append(e.buf, ':')
		if err := e.encode(v.MapIndex(key)); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) encodeStruct(v reflect.Value) error {
	e.buf = append(e.buf, '{')
	fields := cachedFields(v.Type())
	first := true
	for _, fi := range fields.ordered {
		field := v.Field(fi.index)
		if fi.omitempty && isEmptyValue(field) {
			continue
		}
		if !first {
			e.buf = append(e.buf, ',')
		}
		first = false
		if err := e.encodeString(fi.name); err != nil {
			return err
		}
		e.buf = append(e.buf, ':')
		if err := e.encode(field); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
