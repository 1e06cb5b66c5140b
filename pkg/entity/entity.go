// SPDX-License-Identifier: Apache-2.0

// Package entity resolves index declarations against a document-shaped Go
// struct model: member existence, wire names and navigation shape.
package entity

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberKind classifies how a struct field can participate in an index
// mapping.
type MemberKind uint8

const (
	KindScalar MemberKind = iota
	// KindDocument is a navigation to a single nested owned document.
	KindDocument
	// KindDocumentSlice is a navigation to a collection of nested owned
	// documents.
	KindDocumentSlice
	// KindNotPersisted covers fields the document store never sees: bson:"-",
	// unexported fields, channels, funcs and the like.
	KindNotPersisted
)

// Type describes one document-shaped entity struct.
type Type struct {
	rt      reflect.Type
	name    string
	members map[string]*Member

	mu      sync.Mutex
	targets map[string]*Type
}

// Member is one resolved struct field of a Type.
type Member struct {
	Name     string
	WireName string
	Kind     MemberKind

	goType reflect.Type
}

// scalar struct types that must not be treated as navigations
var scalarStructs = map[reflect.Type]struct{}{
	reflect.TypeOf(time.Time{}):            {},
	reflect.TypeOf(primitive.ObjectID{}):   {},
	reflect.TypeOf(primitive.Decimal128{}): {},
	reflect.TypeOf(primitive.Binary{}):     {},
	reflect.TypeOf(uuid.UUID{}):            {},
}

// TypeOf builds the entity descriptor for the struct type T. It panics when T
// is not a struct, which is a programming error rather than a configuration
// one.
func TypeOf[T any]() *Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return newType(rt)
}

func newType(rt reflect.Type) *Type {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		panic("entity: type is not a struct: " + rt.String())
	}

	t := &Type{
		rt:      rt,
		name:    rt.Name(),
		members: make(map[string]*Member, rt.NumField()),
		targets: make(map[string]*Type),
	}
	for i := range rt.NumField() {
		f := rt.Field(i)
		t.members[f.Name] = newMember(f)
	}
	return t
}

func newMember(f reflect.StructField) *Member {
	m := &Member{
		Name:     f.Name,
		WireName: wireName(f),
		goType:   f.Type,
	}

	switch {
	case !f.IsExported(), m.WireName == "-":
		m.Kind = KindNotPersisted
	default:
		m.Kind = kindOf(f.Type)
	}
	if m.WireName == "-" || m.WireName == "" {
		m.WireName = f.Name
	}
	return m
}

func kindOf(rt reflect.Type) MemberKind {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if _, ok := scalarStructs[rt]; ok {
		return KindScalar
	}

	switch rt.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindScalar
	case reflect.Struct:
		return KindDocument
	case reflect.Slice, reflect.Array:
		switch kindOf(rt.Elem()) {
		case KindScalar:
			// arrays of scalars index as the scalar kind
			return KindScalar
		case KindDocument:
			return KindDocumentSlice
		default:
			return KindNotPersisted
		}
	case reflect.Map, reflect.Interface:
		// open-shaped values are persisted but have no statically resolvable
		// members; they index through dynamic mappings only
		return KindScalar
	default:
		return KindNotPersisted
	}
}

func wireName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("bson")
	if !ok {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func (t *Type) Name() string {
	return t.name
}

// Member resolves a struct field by its Go name.
func (t *Type) Member(name string) (*Member, error) {
	m, ok := t.members[name]
	if !ok {
		return nil, ErrMemberNotFound{Entity: t.name, Member: name}
	}
	if m.Kind == KindNotPersisted {
		return nil, ErrMemberNotPersisted{Entity: t.name, Member: name}
	}
	return m, nil
}

// Navigation resolves a member and checks it is a navigation of the wanted
// cardinality, returning the target entity type.
func (t *Type) Navigation(name string, collection bool) (*Member, *Type, error) {
	m, err := t.Member(name)
	if err != nil {
		return nil, nil, err
	}
	switch m.Kind {
	case KindDocument, KindDocumentSlice:
	default:
		return nil, nil, ErrInvalidEmbedTarget{Entity: t.name, Member: name}
	}
	if collection != (m.Kind == KindDocumentSlice) {
		return nil, nil, ErrEmbedCardinality{Entity: t.name, Member: name, WantCollection: collection}
	}
	return m, t.target(m), nil
}

// ResolvePath resolves a dotted member path through navigations, returning
// the resolved members in order. Every segment but the last must be a
// navigation.
func (t *Type) ResolvePath(path string) ([]*Member, error) {
	segments := strings.Split(path, ".")
	members := make([]*Member, 0, len(segments))

	cur := t
	for i, segment := range segments {
		m, err := cur.Member(segment)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
		if i == len(segments)-1 {
			break
		}
		switch m.Kind {
		case KindDocument, KindDocumentSlice:
			cur = cur.target(m)
		default:
			return nil, ErrInvalidEmbedTarget{Entity: cur.name, Member: segment}
		}
	}
	return members, nil
}

// WirePath translates a dotted Go member path into its dotted wire form.
func (t *Type) WirePath(path string) (string, error) {
	members, err := t.ResolvePath(path)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.WireName
	}
	return strings.Join(parts, "."), nil
}

func (t *Type) target(m *Member) *Type {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cached, ok := t.targets[m.Name]; ok {
		return cached
	}

	rt := m.goType
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array {
		rt = rt.Elem()
		for rt.Kind() == reflect.Pointer {
			rt = rt.Elem()
		}
	}

	target := newType(rt)
	t.targets[m.Name] = target
	return target
}
