package cmdutil

import (
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/parser"
	"github.com/opmodel/confgraph/internal/registry"
)

// UnitReport is the serializable view of a resolved configuration unit.
type UnitReport struct {
	Name       string   `json:"name" yaml:"name"`
	Definition string   `json:"definition,omitempty" yaml:"definition,omitempty"`
	Status     string   `json:"status" yaml:"status"`
	Origin     string   `json:"origin,omitempty" yaml:"origin,omitempty"`
	ImportedBy []string `json:"importedBy,omitempty" yaml:"importedBy,omitempty"`
	Producers  []string `json:"producers,omitempty" yaml:"producers,omitempty"`
	Resources  []string `json:"resources,omitempty" yaml:"resources,omitempty"`
	Registrars int      `json:"registrars,omitempty" yaml:"registrars,omitempty"`
}

// DefinitionReport is the serializable view of one registered definition.
type DefinitionReport struct {
	Name              string   `json:"name" yaml:"name"`
	Aliases           []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Type              string   `json:"type,omitempty" yaml:"type,omitempty"`
	Kind              string   `json:"kind" yaml:"kind"`
	Role              string   `json:"role" yaml:"role"`
	Origin            string   `json:"origin,omitempty" yaml:"origin,omitempty"`
	Scope             string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Lazy              bool     `json:"lazy,omitempty" yaml:"lazy,omitempty"`
	Primary           bool     `json:"primary,omitempty" yaml:"primary,omitempty"`
	DependsOn         []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	FactoryType       string   `json:"factoryType,omitempty" yaml:"factoryType,omitempty"`
	FactoryDefinition string   `json:"factoryDefinition,omitempty" yaml:"factoryDefinition,omitempty"`
	FactoryMethod     string   `json:"factoryMethod,omitempty" yaml:"factoryMethod,omitempty"`
	InitMethod        string   `json:"initMethod,omitempty" yaml:"initMethod,omitempty"`
	DestroyMethod     string   `json:"destroyMethod,omitempty" yaml:"destroyMethod,omitempty"`
}

// unitStatus classifies a unit for display.
func unitStatus(u *parser.Unit) string {
	switch {
	case u.IsImported():
		return output.StatusImported
	case u.Scanned:
		return output.StatusScanned
	default:
		return output.StatusPrimary
	}
}

// UnitReports converts units, keeping their resolution order.
func UnitReports(units []*parser.Unit) []UnitReport {
	reports := make([]UnitReport, 0, len(units))
	for _, u := range units {
		r := UnitReport{
			Name:       u.Name(),
			Definition: u.AssignedName,
			Status:     unitStatus(u),
			Origin:     u.Origin,
			Registrars: len(u.Registrars()),
		}
		for _, importer := range u.ImportedBy() {
			r.ImportedBy = append(r.ImportedBy, importer.Name())
		}
		for _, p := range u.Producers() {
			r.Producers = append(r.Producers, p.Name())
		}
		for _, res := range u.Resources() {
			r.Resources = append(r.Resources, res.Location)
		}
		reports = append(reports, r)
	}
	return reports
}

// DefinitionReports converts every definition of reg in registration order.
func DefinitionReports(reg registry.Registry) []DefinitionReport {
	names := reg.Names()
	reports := make([]DefinitionReport, 0, len(names))
	for _, name := range names {
		def, ok := reg.Get(name)
		if !ok {
			continue
		}
		reports = append(reports, DefinitionReport{
			Name:              name,
			Aliases:           reg.Aliases(name),
			Type:              def.TypeName,
			Kind:              string(def.Kind),
			Role:              def.Role.String(),
			Origin:            def.Origin,
			Scope:             def.Scope,
			Lazy:              def.Lazy,
			Primary:           def.Primary,
			DependsOn:         def.DependsOn,
			Description:       def.Description,
			FactoryType:       def.FactoryType,
			FactoryDefinition: def.FactoryDefinition,
			FactoryMethod:     def.FactoryMethod,
			InitMethod:        def.InitMethod,
			DestroyMethod:     def.DestroyMethod,
		})
	}
	return reports
}

// UnitTree builds the import graph: one root per unit that was not imported,
// with the units it imported below it and its producer methods as leaves.
func UnitTree(units []*parser.Unit) []*output.TreeNode {
	children := map[string][]*parser.Unit{}
	var roots []*parser.Unit
	for _, u := range units {
		if !u.IsImported() {
			roots = append(roots, u)
			continue
		}
		for _, importer := range u.ImportedBy() {
			children[importer.Name()] = append(children[importer.Name()], u)
		}
	}

	var build func(node *output.TreeNode, u *parser.Unit, path map[string]bool)
	build = func(node *output.TreeNode, u *parser.Unit, path map[string]bool) {
		path[u.Name()] = true
		defer delete(path, u.Name())
		for _, p := range u.Producers() {
			node.Add(p.Name()+"()", p.Method.ReturnType)
		}
		for _, child := range children[u.Name()] {
			if path[child.Name()] {
				continue
			}
			build(node.Add(child.Name(), unitStatus(child)), child, path)
		}
	}

	nodes := make([]*output.TreeNode, 0, len(roots))
	for _, u := range roots {
		node := &output.TreeNode{Name: u.Name(), Description: unitStatus(u)}
		build(node, u, map[string]bool{})
		nodes = append(nodes, node)
	}
	return nodes
}
