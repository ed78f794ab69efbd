// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package extract

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// bindField caches one struct field's binding metadata, grounded on the
// teacher's router/binding.go fieldInfo (trimmed to the scalar kinds the
// extract package's Query/Path/Form extractors actually need).
type bindField struct {
	index   []int
	tagName string
	kind    reflect.Kind
}

var bindCache sync.Map // map[reflect.Type][]bindField

func structFields(t reflect.Type, tag string) []bindField {
	if cached, ok := bindCache.Load(cacheKey{t, tag}); ok {
		return cached.([]bindField)
	}
	var fields []bindField
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get(tag)
		if name == "" {
			name = f.Name
		}
		if name == "-" {
			continue
		}
		fields = append(fields, bindField{index: f.Index, tagName: name, kind: f.Type.Kind()})
	}
	bindCache.Store(cacheKey{t, tag}, fields)
	return fields
}

type cacheKey struct {
	t   reflect.Type
	tag string
}

// bindValues assigns values, a map of tag-name to first-string-value, onto
// a pointer-to-struct dst using the named struct tag.
func bindValues(dst any, tag string, values map[string][]string) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("extract: bind target must be a pointer to struct, got %T", dst)
	}
	elem := rv.Elem()
	fields := structFields(elem.Type(), tag)

	for _, bf := range fields {
		raw, ok := values[bf.tagName]
		if !ok || len(raw) == 0 {
			continue
		}
		field := elem.FieldByIndex(bf.index)
		if err := setScalar(field, bf.kind, raw[0]); err != nil {
			return fmt.Errorf("extract: field %q: %w", bf.tagName, err)
		}
	}
	return nil
}

func setScalar(field reflect.Value, kind reflect.Kind, raw string) error {
	switch kind {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}
