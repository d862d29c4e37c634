package stream

import (
	"cmp"
	"reflect"
)

// natural returns the natural ordering of T: the built-in order of integer,
// float and string kinds (named types included), or a Compare(T) int method
// such as time.Time's. For interface types the ordering is resolved from the
// dynamic type of the compared elements.
func natural[T any](op string) (func(a, b T) int, error) {
	if f := builtinOrder[T](); f != nil {
		return f, nil
	}

	var zero T
	if _, ok := any(zero).(interface{ Compare(T) int }); ok {
		return func(a, b T) int {
			return any(a).(interface{ Compare(T) int }).Compare(b)
		}, nil
	}

	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return func(a, b T) int {
			return dynamicCompare(op, any(a), any(b))
		}, nil
	}

	c, err := naturalOf(op, t)
	if err != nil {
		return nil, err
	}
	return func(a, b T) int {
		return c(reflect.ValueOf(a), reflect.ValueOf(b))
	}, nil
}

// builtinOrder covers the common unnamed types without reflection.
func builtinOrder[T any]() func(a, b T) int {
	var f interface{}
	switch any(*new(T)).(type) {
	case int:
		f = cmp.Compare[int]
	case int64:
		f = cmp.Compare[int64]
	case int32:
		f = cmp.Compare[int32]
	case uint:
		f = cmp.Compare[uint]
	case uint64:
		f = cmp.Compare[uint64]
	case float64:
		f = cmp.Compare[float64]
	case float32:
		f = cmp.Compare[float32]
	case string:
		f = cmp.Compare[string]
	default:
		return nil
	}
	return f.(func(a, b T) int)
}

// naturalOf resolves the ordering of a concrete type.
func naturalOf(op string, t reflect.Type) (func(a, b reflect.Value) int, error) {
	if m, ok := t.MethodByName("Compare"); ok {
		mt := m.Type
		if mt.NumIn() == 2 && mt.In(1) == t && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Int {
			return func(a, b reflect.Value) int {
				return int(m.Func.Call([]reflect.Value{a, b})[0].Int())
			}, nil
		}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) }, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) }, nil
	case reflect.Float32, reflect.Float64:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) }, nil
	case reflect.String:
		return func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) }, nil
	}

	return nil, &TypeMismatchError{Op: op, Type: t.String(), Reason: "has no natural ordering"}
}

// dynamicCompare orders two elements of an interface-typed stream. It panics
// with a *TypeMismatchError, which evaluation turns back into an error, when
// the elements cannot be ordered.
func dynamicCompare(op string, a, b interface{}) int {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		panic(&TypeMismatchError{Op: op, Type: typeName(ta) + " and " + typeName(tb), Reason: "cannot be ordered together"})
	}
	if ta == nil {
		return 0
	}

	c, err := naturalOf(op, ta)
	if err != nil {
		panic(err)
	}
	return c(reflect.ValueOf(a), reflect.ValueOf(b))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
