// Package idl provides support for the subset of CORBA IDL used by the
// hpp-corbaserver interface files: modules, interfaces, typedefs, sequences,
// arrays and exceptions. Parsed definitions feed the Go stub and servant
// generator.
package idl

import (
	"fmt"
	"strings"
)

// BasicType represents a primitive IDL type
type BasicType string

// IDL basic types
const (
	TypeShort     BasicType = "short"
	TypeLong      BasicType = "long"
	TypeLongLong  BasicType = "long long"
	TypeUShort    BasicType = "unsigned short"
	TypeULong     BasicType = "unsigned long"
	TypeULongLong BasicType = "unsigned long long"
	TypeFloat     BasicType = "float"
	TypeDouble    BasicType = "double"
	TypeBoolean   BasicType = "boolean"
	TypeOctet     BasicType = "octet"
	TypeAny       BasicType = "any"
	TypeString    BasicType = "string"
	TypeVoid      BasicType = "void"
)

// Type is the interface for all IDL types
type Type interface {
	TypeName() string
	GoTypeName() string
}

// Direction represents the parameter direction in IDL operations
type Direction string

// Parameter direction constants
const (
	In    Direction = "in"
	Out   Direction = "out"
	InOut Direction = "inout"
)

// SimpleType represents a basic IDL type
type SimpleType struct {
	Name BasicType
}

// TypeName returns the IDL type name
func (t *SimpleType) TypeName() string {
	return string(t.Name)
}

// GoTypeName returns the corresponding Go type name
func (t *SimpleType) GoTypeName() string {
	switch t.Name {
	case TypeShort:
		return "int16"
	case TypeLong:
		return "int32"
	case TypeLongLong:
		return "int64"
	case TypeUShort:
		return "uint16"
	case TypeULong:
		return "uint32"
	case TypeULongLong:
		return "uint64"
	case TypeFloat:
		return "float32"
	case TypeDouble:
		return "float64"
	case TypeBoolean:
		return "bool"
	case TypeOctet:
		return "byte"
	case TypeAny:
		return "interface{}"
	case TypeString:
		return "string"
	case TypeVoid:
		return ""
	default:
		return string(t.Name)
	}
}

// SequenceType represents an IDL sequence type
type SequenceType struct {
	ElementType Type
	MaxSize     int // -1 for unbounded
}

// TypeName returns the IDL type name
func (t *SequenceType) TypeName() string {
	if t.MaxSize < 0 {
		return fmt.Sprintf("sequence<%s>", t.ElementType.TypeName())
	}
	return fmt.Sprintf("sequence<%s, %d>", t.ElementType.TypeName(), t.MaxSize)
}

// GoTypeName returns the corresponding Go type name
func (t *SequenceType) GoTypeName() string {
	return "[]" + t.ElementType.GoTypeName()
}

// ArrayType represents a fixed-size IDL array, e.g. "typedef double Transform_[7]".
// Arrays travel as sequences on the wire, so the Go mapping is a slice.
type ArrayType struct {
	ElementType Type
	Size        int
}

// TypeName returns the IDL type name
func (t *ArrayType) TypeName() string {
	return fmt.Sprintf("%s[%d]", t.ElementType.TypeName(), t.Size)
}

// GoTypeName returns the corresponding Go type name
func (t *ArrayType) GoTypeName() string {
	return "[]" + t.ElementType.GoTypeName()
}

// TypeDef represents an IDL typedef
type TypeDef struct {
	Name     string
	Module   string
	OrigType Type
}

// TypeName returns the IDL type name
func (t *TypeDef) TypeName() string {
	return t.Name
}

// GoTypeName returns the corresponding Go type name
func (t *TypeDef) GoTypeName() string {
	return t.Name
}

// ScopedType represents a type referenced through its scope, e.g. "hpp::floatSeq".
// Resolution to the defining module happens at generation time.
type ScopedType struct {
	Name string
}

// TypeName returns the fully scoped IDL name
func (t *ScopedType) TypeName() string {
	return t.Name
}

// GoTypeName returns the unqualified Go type name
func (t *ScopedType) GoTypeName() string {
	parts := strings.Split(t.Name, "::")
	return parts[len(parts)-1]
}

// ExceptionType represents an IDL exception declaration
type ExceptionType struct {
	Name    string
	Module  string
	Members []ExceptionMember
}

// ExceptionMember is a field of an IDL exception
type ExceptionMember struct {
	Name string
	Type Type
}

// TypeName returns the IDL type name
func (t *ExceptionType) TypeName() string {
	return t.Name
}

// GoTypeName returns the corresponding Go type name
func (t *ExceptionType) GoTypeName() string {
	return t.Name
}

// InterfaceType represents an IDL interface
type InterfaceType struct {
	Name       string
	Module     string
	Parents    []string
	Operations []Operation
}

// Operation represents an operation in an IDL interface
type Operation struct {
	Name       string
	ReturnType Type
	Parameters []Parameter
	Raises     []string
}

// Parameter represents a parameter in an IDL operation
type Parameter struct {
	Name      string
	Type      Type
	Direction Direction
}

// TypeName returns the IDL type name
func (t *InterfaceType) TypeName() string {
	return t.Name
}

// GoTypeName returns the corresponding Go type name
func (t *InterfaceType) GoTypeName() string {
	return t.Name
}

// Module represents an IDL module that contains types
type Module struct {
	Name       string
	Parent     *Module
	Types      map[string]Type
	Submodules map[string]*Module
}

// NewModule creates a new IDL module
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		Types:      make(map[string]Type),
		Submodules: make(map[string]*Module),
	}
}

// AddSubmodule adds a submodule with the given name
func (m *Module) AddSubmodule(name string) *Module {
	submodule := NewModule(name)
	submodule.Parent = m
	m.Submodules[name] = submodule
	return submodule
}

// GetSubmodule gets a submodule by name
func (m *Module) GetSubmodule(name string) (*Module, bool) {
	submodule, exists := m.Submodules[name]
	return submodule, exists
}

// AddType adds a type to the module
func (m *Module) AddType(name string, typ Type) {
	m.Types[name] = typ
}

// GetType gets a type by name
func (m *Module) GetType(name string) (Type, bool) {
	typ, exists := m.Types[name]
	return typ, exists
}

// FullName returns the fully qualified module name
func (m *Module) FullName() string {
	if m.Parent == nil || m.Parent.Name == "" {
		return m.Name
	}
	return m.Parent.FullName() + "::" + m.Name
}

// Path returns the module path as a slice of names
func (m *Module) Path() []string {
	if m.Name == "" {
		return []string{}
	}
	if m.Parent == nil || m.Parent.Name == "" {
		return []string{m.Name}
	}
	return append(m.Parent.Path(), m.Name)
}

// AllTypes returns all types in the module and its submodules, submodule
// types under their scoped names
func (m *Module) AllTypes() map[string]Type {
	result := make(map[string]Type)

	for name, typ := range m.Types {
		result[name] = typ
	}

	for subName, submodule := range m.Submodules {
		for name, typ := range submodule.AllTypes() {
			result[subName+"::"+name] = typ
		}
	}

	return result
}

// ResolveType looks up a possibly scoped type name starting from this module
func (m *Module) ResolveType(name string) (Type, bool) {
	parts := strings.Split(name, "::")
	current := m
	for _, part := range parts[:len(parts)-1] {
		sub, ok := current.GetSubmodule(part)
		if !ok {
			return nil, false
		}
		current = sub
	}
	return current.GetType(parts[len(parts)-1])
}

// RepositoryID builds the "IDL:path/Name:version" repository ID for a type
// declared in this module
func (m *Module) RepositoryID(typeName string, version string) string {
	if version == "" {
		version = "1.0"
	}
	path := strings.Join(append(m.Path(), typeName), "/")
	return fmt.Sprintf("IDL:%s:%s", path, version)
}

// GoPackageName returns the Go package name for this module
func (m *Module) GoPackageName() string {
	if m.Name == "" {
		return "main"
	}
	return strings.ToLower(m.Name)
}
