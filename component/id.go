package component

import (
	"cmp"
	"reflect"
)

// ID names a component. By convention it is the fully qualified name of the
// component's type, such as "github.com/acme/app/db.Pool".
type ID string

// String implements fmt.Stringer
func (id ID) String() string {
	return string(id)
}

// Compare orders identifiers by string comparison.
func (id ID) Compare(other ID) int {
	return cmp.Compare(id, other)
}

// IDOf derives an ID from the dynamic type of v, looking through pointers.
func IDOf(v any) ID {
	return typeID(reflect.TypeOf(v))
}

// TypeID derives an ID from T, looking through pointers.
func TypeID[T any]() ID {
	return typeID(reflect.TypeFor[T]())
}

func typeID(t reflect.Type) ID {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return ID(t.String())
	}
	return ID(t.PkgPath() + "." + t.Name())
}
