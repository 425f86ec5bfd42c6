package parser

import (
	"strings"

	"github.com/opmodel/confgraph/internal/metadata"
)

// ImportRegistry answers which type imported another. The edge history
// outlives the traversal stack.
type ImportRegistry interface {
	ImportingFor(importedName string) *metadata.TypeMetadata
	RemoveImportingType(importingName string)
}

// ImportStack is the stack of units being expanded plus every import edge
// registered so far.
type ImportStack struct {
	stack   []*Unit
	imports map[string][]*metadata.TypeMetadata
}

// NewImportStack creates an empty stack.
func NewImportStack() *ImportStack {
	return &ImportStack{imports: map[string][]*metadata.TypeMetadata{}}
}

// Push places u on top of the stack.
func (s *ImportStack) Push(u *Unit) { s.stack = append(s.stack, u) }

// Pop removes and returns the top unit.
func (s *ImportStack) Pop() *Unit {
	if len(s.stack) == 0 {
		return nil
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

// Top returns the unit on top of the stack.
func (s *ImportStack) Top() *Unit {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// Len returns the stack depth.
func (s *ImportStack) Len() int { return len(s.stack) }

// Contains reports whether a unit with the given name is on the stack.
func (s *ImportStack) Contains(name string) bool {
	for _, u := range s.stack {
		if u.Name() == name {
			return true
		}
	}
	return false
}

// RegisterImport records that importing imported importedName.
func (s *ImportStack) RegisterImport(importing *metadata.TypeMetadata, importedName string) {
	s.imports[importedName] = append(s.imports[importedName], importing)
}

// ImportingFor returns the most recent importer of importedName.
func (s *ImportStack) ImportingFor(importedName string) *metadata.TypeMetadata {
	list := s.imports[importedName]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// RemoveImportingType forgets every edge whose importer is importingName.
func (s *ImportStack) RemoveImportingType(importingName string) {
	for imported, list := range s.imports {
		kept := list[:0]
		for _, md := range list {
			if md.Name != importingName {
				kept = append(kept, md)
			}
		}
		if len(kept) == 0 {
			delete(s.imports, imported)
		} else {
			s.imports[imported] = kept
		}
	}
}

// ChainedImport reports whether name is on the stack and its chain of most
// recent importers leads back to itself.
func (s *ImportStack) ChainedImport(name string) bool {
	if !s.Contains(name) {
		return false
	}
	seen := map[string]bool{}
	for importing := s.ImportingFor(name); importing != nil; importing = s.ImportingFor(importing.Name) {
		if importing.Name == name {
			return true
		}
		if seen[importing.Name] {
			return false
		}
		seen[importing.Name] = true
	}
	return false
}

// Path renders the stack bottom to top.
func (s *ImportStack) Path() string {
	names := make([]string, len(s.stack))
	for i, u := range s.stack {
		names[i] = u.Name()
	}
	return "[" + strings.Join(names, "->") + "]"
}
