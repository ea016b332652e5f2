package ir

import "fmt"

// Type is a value type: a primitive with a byte size, or a pointer to
// another Type. Types are interned process-wide; equality of types is
// pointer equality after interning (spec.md §3).
type Type struct {
	name string
	size int
	elem *Type // non-nil for pointer types
}

func (t *Type) String() string { return t.name }

// Size returns the byte size of the type (1, 2, 4, or 8).
func (t *Type) Size() int { return t.size }

// IsPointer reports whether t is a pointer-to-T type.
func (t *Type) IsPointer() bool { return t.elem != nil }

// Elem returns the pointee type; only valid when IsPointer() is true.
func (t *Type) Elem() *Type { return t.elem }

// Distinguished singletons, interned once at process start and never
// mutated afterward (spec.md §5: the type pool is written once at
// startup and read-only thereafter).
var (
	INT   = &Type{name: "int", size: 4}
	CHAR  = &Type{name: "char", size: 1}
	SHORT = &Type{name: "short", size: 2}
	LONG  = &Type{name: "long", size: 8}
	BOOL  = &Type{name: "bool", size: 1}
	VOID  = &Type{name: "void", size: 0}
)

var pointerPool = map[*Type]*Type{}

// PointerTo returns the interned pointer-to-elem type, lazily creating
// it on first request.
func PointerTo(elem *Type) *Type {
	if p, ok := pointerPool[elem]; ok {
		return p
	}
	p := &Type{name: fmt.Sprintf("%s*", elem.name), size: 8, elem: elem}
	pointerPool[elem] = p
	return p
}
