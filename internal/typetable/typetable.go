// Package typetable records struct/union layouts by tag, computing field
// offsets, overall size, and alignment as each is declared (§4.4). It is
// grounded on the original translator's typetab.h/.c and, for the
// scope-stamped storage, on scopemap (§4.1).
package typetable

import (
	"fmt"
	"sort"

	"github.com/besm6/c11front/internal/scopemap"
	"github.com/besm6/c11front/internal/types"
	"github.com/pkg/errors"
)

// Field is one laid-out member of a struct or union.
type Field struct {
	Name   string
	Type   types.Type
	Offset int64
}

// Def is the complete layout of a struct or union tag.
type Def struct {
	Tag       string
	IsUnion   bool
	Fields    []Field
	Size      int64
	Alignment int64
}

// FieldByName finds a member by name, or returns ok=false.
func (d Def) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

type Table struct {
	m     *scopemap.Map[Def]
	level int
}

func New() *Table {
	return &Table{m: scopemap.New[Def](16), level: 0}
}

func (t *Table) EnterScope() { t.level++ }
func (t *Table) ExitScope() {
	t.m.Purge(t.level)
	t.level--
}

// alignUp rounds n up to the next multiple of align.
func alignUp(n, align int64) int64 {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// AddStruct lays out a struct or union given its member names and types
// in declaration order, records it at the current scope, and returns the
// computed Def. It returns an error if the tag is already defined at the
// current scope, matching typetab_add_struct's duplicate-definition
// check.
func (t *Table) AddStruct(tag string, isUnion bool, members []Field) (Def, error) {
	if _, level, ok := t.m.Lookup(tag); ok && level == t.level {
		kind := "struct"
		if isUnion {
			kind = "union"
		}
		return Def{}, errors.Errorf("redefinition of %s %s", kind, tag)
	}

	var fields []Field
	var size, align int64

	if isUnion {
		for _, f := range members {
			fs := types.SizeOf(f.Type, t)
			fa := types.AlignmentOf(f.Type, t)
			fields = append(fields, Field{Name: f.Name, Type: f.Type, Offset: 0})
			if fs > size {
				size = fs
			}
			if fa > align {
				align = fa
			}
		}
	} else {
		var offset int64
		for _, f := range members {
			fa := types.AlignmentOf(f.Type, t)
			offset = alignUp(offset, fa)
			fields = append(fields, Field{Name: f.Name, Type: f.Type, Offset: offset})
			offset += types.SizeOf(f.Type, t)
			if fa > align {
				align = fa
			}
		}
		size = offset
	}
	if align == 0 {
		align = 1
	}
	size = alignUp(size, align)

	def := Def{Tag: tag, IsUnion: isUnion, Fields: fields, Size: size, Alignment: align}
	t.m.Insert(tag, t.level, def)
	return def, nil
}

// Find looks up a tag's layout at any visible scope.
func (t *Table) Find(tag string) (Def, bool) {
	def, _, ok := t.m.Lookup(tag)
	return def, ok
}

// Exists reports whether tag has been defined (as opposed to merely
// forward-declared) at any visible scope.
func (t *Table) Exists(tag string) bool {
	_, ok := t.Find(tag)
	return ok
}

// Layout implements types.StructLookup.
func (t *Table) Layout(tag string) (size int64, alignment int64, ok bool) {
	def, ok := t.Find(tag)
	if !ok {
		return 0, 0, false
	}
	return def.Size, def.Alignment, true
}

// String renders every currently visible struct/union in tag order, for
// debug dumps.
func (t *Table) String() string {
	var tags []string
	t.m.Ascend(func(key string, _ int, _ Def) bool {
		tags = append(tags, key)
		return true
	})
	sort.Strings(tags)
	out := ""
	for _, tag := range tags {
		def, _ := t.Find(tag)
		out += fmt.Sprintf("%s: size=%d align=%d fields=%v\n", tag, def.Size, def.Alignment, def.Fields)
	}
	return out
}
