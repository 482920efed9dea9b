package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/golobby/cast"
)

const (
	tagDefault  = "default"
	tagRequired = "required"
	tagEnv      = "env"
)

var durationType = reflect.TypeFor[time.Duration]()

// ProcessDefaults sets every zero-valued field carrying a `default:"..."` tag
// to the tag's value. Nested structs and non-nil struct pointers are walked.
// Slices take a comma-separated list.
//
//	type Config struct {
//	    Addr    string        `toml:"addr" default:"127.0.0.1:8080"`
//	    Timeout time.Duration `toml:"timeout" default:"5s"`
//	}
func ProcessDefaults(cfg any) error {
	v, err := structValue(cfg)
	if err != nil {
		return err
	}
	return processStructDefaults(v)
}

func processStructDefaults(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		switch {
		case field.Kind() == reflect.Struct:
			if err := processStructDefaults(field); err != nil {
				return err
			}
			continue
		case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.Struct:
			if !field.IsNil() {
				if err := processStructDefaults(field.Elem()); err != nil {
					return err
				}
			}
			continue
		}

		defaultVal, ok := fieldType.Tag.Lookup(tagDefault)
		if !ok || !field.IsZero() {
			continue
		}
		if err := setFromString(field, defaultVal); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDefaultValue, fieldType.Name, err)
		}
	}
	return nil
}

// ValidateRequired checks that every field tagged `required:"true"` holds a
// non-zero value. All missing fields are reported together, by dotted path.
func ValidateRequired(cfg any) error {
	v, err := structValue(cfg)
	if err != nil {
		return err
	}

	var missing []string
	collectMissing(v, "", &missing)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiredFieldMissing, strings.Join(missing, ", "))
	}
	return nil
}

func collectMissing(v reflect.Value, prefix string, missing *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !field.CanSet() {
			continue
		}

		name := fieldType.Name
		if prefix != "" {
			name = prefix + "." + name
		}

		switch {
		case field.Kind() == reflect.Struct:
			collectMissing(field, name, missing)
			continue
		case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.Struct:
			if !field.IsNil() {
				collectMissing(field.Elem(), name, missing)
				continue
			}
		}

		if fieldType.Tag.Get(tagRequired) == "true" && field.IsZero() {
			*missing = append(*missing, name)
		}
	}
}

// setFromString converts s to the field's type and stores it.
func setFromString(field reflect.Value, s string) error {
	if !field.CanSet() {
		return ErrEnvFieldNotSettable
	}

	if field.Type() == durationType {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("cannot convert %q to duration: %w", s, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.Slice:
		parts := strings.Split(s, ",")
		slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := setFromString(slice.Index(i), strings.TrimSpace(part)); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	case reflect.Pointer:
		elem := reflect.New(field.Type().Elem())
		if err := setFromString(elem.Elem(), s); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	converted, err := cast.FromType(s, field.Type())
	if err != nil {
		return fmt.Errorf("cannot convert value to type %v: %w", field.Type(), err)
	}
	field.Set(reflect.ValueOf(converted).Convert(field.Type()))
	return nil
}

func structValue(cfg any) (reflect.Value, error) {
	if cfg == nil {
		return reflect.Value{}, ErrConfigNil
	}
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, ErrConfigNotPointer
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, ErrConfigNotStruct
	}
	return v, nil
}

func checkTarget(target any) error {
	_, err := structValue(target)
	return err
}
