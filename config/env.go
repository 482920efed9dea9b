package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
)

// EnvFeeder overrides configuration fields from environment variables. A
// field tagged `env:"ADDR"` is read from PREFIX_ADDR when Prefix is set, or
// from ADDR otherwise. Empty variables are ignored.
type EnvFeeder struct {
	Prefix string

	// Lookup replaces os.LookupEnv, mainly for tests.
	Lookup func(string) (string, bool)
}

// NewEnvFeeder creates an EnvFeeder reading variables with the given prefix.
func NewEnvFeeder(prefix string) EnvFeeder {
	return EnvFeeder{Prefix: prefix}
}

// Feed implements Feeder
func (f EnvFeeder) Feed(target any) error {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return ErrEnvInvalidStructure
	}
	return f.feedStruct(reflect.ValueOf(target).Elem())
}

func (f EnvFeeder) feedStruct(rv reflect.Value) error {
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rv.Type().Field(i)
		if !fieldType.IsExported() {
			continue
		}
		if err := f.feedField(field, &fieldType); err != nil {
			return fmt.Errorf("error in field '%s': %w", fieldType.Name, err)
		}
	}
	return nil
}

func (f EnvFeeder) feedField(field reflect.Value, fieldType *reflect.StructField) error {
	switch {
	case field.Kind() == reflect.Struct:
		return f.feedStruct(field)
	case field.Kind() == reflect.Pointer && !field.IsNil() && field.Elem().Kind() == reflect.Struct:
		return f.feedStruct(field.Elem())
	}

	name, ok := fieldType.Tag.Lookup(tagEnv)
	if !ok || name == "" {
		return nil
	}
	value, ok := f.lookup(f.varName(name))
	if !ok || value == "" {
		return nil
	}
	return setFromString(field, value)
}

func (f EnvFeeder) varName(tag string) string {
	name := strings.ToUpper(tag)
	if f.Prefix != "" {
		name = strings.ToUpper(f.Prefix) + "_" + name
	}
	return name
}

func (f EnvFeeder) lookup(key string) (string, bool) {
	if f.Lookup != nil {
		return f.Lookup(key)
	}
	return os.LookupEnv(key)
}
