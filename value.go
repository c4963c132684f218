package flowstack

import (
	"fmt"
	"hash/maphash"
	"reflect"
)

// Value is a presentable piece of data. The stack stores Values type-erased,
// so each one carries its own identity: TypeKey selects the destination that
// renders it, Equal and Hash identify the value itself.
//
// Most callers never implement Value directly; wrap any comparable value with
// [ValueOf] instead.
type Value interface {
	TypeKey() string
	Equal(other Value) bool
	Hash() uint64
}

// hashSeed is shared by all Items so equal payloads hash equally.
var hashSeed = maphash.MakeSeed()

// Item adapts a comparable Go value to the Value interface.
type Item[T comparable] struct {
	V T
}

// ValueOf wraps v as a Value.
func ValueOf[T comparable](v T) Item[T] {
	return Item[T]{V: v}
}

// TypeKeyOf returns the type key used for values of type T.
func TypeKeyOf[T comparable]() string {
	return reflect.TypeFor[T]().String()
}

// TypeKey returns the Go type name of the wrapped value.
func (it Item[T]) TypeKey() string {
	return TypeKeyOf[T]()
}

// Equal reports whether other wraps a value of the same type that is == to
// this one.
func (it Item[T]) Equal(other Value) bool {
	o, ok := other.(Item[T])
	return ok && o.V == it.V
}

// Hash returns a hash of the wrapped value.
func (it Item[T]) Hash() uint64 {
	return maphash.Comparable(hashSeed, it.V)
}

// String implements fmt.Stringer for log output.
func (it Item[T]) String() string {
	return fmt.Sprintf("%v", it.V)
}

// sameValue reports whether a and b share a type key and are Equal.
func sameValue(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.TypeKey() == b.TypeKey() && a.Equal(b)
}
