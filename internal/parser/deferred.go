package parser

import (
	"context"
	"fmt"
	"sort"

	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/output"
	"github.com/opmodel/confgraph/internal/strategy"
)

type deferredHolder struct {
	unit         *Unit
	selector     DeferredSelector
	selectorType *metadata.TypeMetadata
}

// deferredHandler queues deferred selectors during the main pass. Selectors
// found while the queue is being processed run at once in their own grouping.
type deferredHandler struct {
	p          *Parser
	pending    []*deferredHolder
	processing bool
	groups     int
}

func (h *deferredHandler) handle(ctx context.Context, unit *Unit, selector DeferredSelector, selectorType *metadata.TypeMetadata) error {
	holder := &deferredHolder{unit: unit, selector: selector, selectorType: selectorType}
	if !h.processing {
		h.pending = append(h.pending, holder)
		return nil
	}
	gh := newGroupingHandler(h)
	if err := gh.register(holder); err != nil {
		return err
	}
	return gh.processGroupImports(ctx)
}

func (h *deferredHandler) process(ctx context.Context) error {
	pending := h.pending
	h.pending = nil
	h.processing = true
	defer func() { h.processing = false }()

	if len(pending) == 0 {
		return nil
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return orderOf(pending[i].selector, pending[i].selectorType) < orderOf(pending[j].selector, pending[j].selectorType)
	})

	gh := newGroupingHandler(h)
	for _, holder := range pending {
		if err := gh.register(holder); err != nil {
			return err
		}
	}
	return gh.processGroupImports(ctx)
}

// grouping is the set of deferred selectors sharing one Group.
type grouping struct {
	group   Group
	holders []*deferredHolder
}

func (g *grouping) imports() ([]GroupEntry, error) {
	for _, holder := range g.holders {
		if err := g.group.Process(holder.unit.Metadata, holder.selector); err != nil {
			return nil, fmt.Errorf("processing deferred imports of %s: %w", holder.unit.Location(), err)
		}
	}
	return g.group.SelectImports()
}

func (g *grouping) candidateFilter() Filter {
	filter := DefaultExclusionFilter
	for _, holder := range g.holders {
		if fs, ok := holder.selector.(FilteringSelector); ok {
			filter = filter.Or(fs.ExclusionFilter())
		}
	}
	return filter
}

type groupingHandler struct {
	h         *deferredHandler
	keys      []any
	groupings map[any]*grouping
	units     map[string]*Unit
}

func newGroupingHandler(h *deferredHandler) *groupingHandler {
	return &groupingHandler{h: h, groupings: map[any]*grouping{}, units: map[string]*Unit{}}
}

func (gh *groupingHandler) register(holder *deferredHolder) error {
	groupType := holder.selector.ImportGroup()
	var key any = holder
	if groupType != "" {
		key = groupType
	}

	g, ok := gh.groupings[key]
	if !ok {
		group, err := gh.createGroup(groupType)
		if err != nil {
			return err
		}
		g = &grouping{group: group}
		gh.groupings[key] = g
		gh.keys = append(gh.keys, key)
	}
	g.holders = append(g.holders, holder)
	gh.units[holder.unit.Name()] = holder.unit
	return nil
}

func (gh *groupingHandler) createGroup(groupType string) (Group, error) {
	if groupType == "" {
		return &defaultGroup{}, nil
	}
	return strategy.InstantiateByName[Group](groupType, gh.h.p.caps, "import group")
}

func (gh *groupingHandler) processGroupImports(ctx context.Context) error {
	p := gh.h.p
	for _, key := range gh.keys {
		g := gh.groupings[key]
		gh.h.groups++
		filter := g.candidateFilter()
		entries, err := g.imports()
		if err != nil {
			return err
		}
		output.Debug("processing deferred group", "selectors", len(g.holders), "imports", len(entries))

		for _, entry := range entries {
			unit := gh.units[entry.Importing.Name]
			if unit == nil {
				return oerrors.NewInvalidImportError(
					fmt.Sprintf("deferred import %s names unknown importing type %s", entry.Name, entry.Importing.Name),
					entry.Importing.Name)
			}
			if filter(entry.Name) {
				continue
			}
			candidate, err := resolveElement(entry.Name, p.reader, p.classes, unit.Location())
			if err != nil {
				return err
			}
			if err := p.processImports(ctx, unit, unit.source, []*SourceElement{candidate}, filter, false); err != nil {
				return p.wrapImportError(unit, err)
			}
		}
	}
	return nil
}
