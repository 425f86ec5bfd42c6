package scan

import (
	"fmt"
	"regexp"

	oerrors "github.com/opmodel/confgraph/internal/errors"
	"github.com/opmodel/confgraph/internal/metadata"
	"github.com/opmodel/confgraph/internal/strategy"
)

// Filter types accepted in includeFilters and excludeFilters.
const (
	FilterMarker     = "marker"
	FilterAssignable = "assignable"
	FilterRegex      = "regex"
	FilterCustom     = "custom"
)

// TypeFilter decides whether a scanned type is a candidate. Custom filters
// named in scan declarations must implement it.
type TypeFilter interface {
	Match(md *metadata.TypeMetadata, reader metadata.Reader) bool
}

// FilterFunc adapts a function to TypeFilter.
type FilterFunc func(md *metadata.TypeMetadata, reader metadata.Reader) bool

func (f FilterFunc) Match(md *metadata.TypeMetadata, reader metadata.Reader) bool {
	return f(md, reader)
}

// MarkerFilter matches types carrying a marker, directly or through a
// marker type.
func MarkerFilter(marker string) TypeFilter {
	return FilterFunc(func(md *metadata.TypeMetadata, reader metadata.Reader) bool {
		return metadata.HasMarker(reader, md.Markers, marker)
	})
}

// AssignableFilter matches types assignable to target.
func AssignableFilter(target string) TypeFilter {
	return FilterFunc(func(md *metadata.TypeMetadata, reader metadata.Reader) bool {
		return metadata.IsAssignable(reader, md, target)
	})
}

// RegexFilter matches fully-qualified type names against a pattern.
func RegexFilter(re *regexp.Regexp) TypeFilter {
	return FilterFunc(func(md *metadata.TypeMetadata, _ metadata.Reader) bool {
		return re.MatchString(md.Name)
	})
}

// parseFilters builds the filters declared under one attribute key.
func parseFilters(decls []metadata.Attributes, reader metadata.Reader, caps strategy.Capabilities, location string) ([]TypeFilter, error) {
	var out []TypeFilter
	for _, decl := range decls {
		kind := decl.String("type")
		if kind == "" {
			kind = FilterMarker
		}
		values := decl.Strings("value")
		values = append(values, decl.Strings("pattern")...)
		if len(values) == 0 {
			return nil, oerrors.NewInvalidImportError(fmt.Sprintf("%s filter without value or pattern", kind), location)
		}

		for _, v := range values {
			switch kind {
			case FilterMarker:
				out = append(out, MarkerFilter(v))
			case FilterAssignable:
				out = append(out, AssignableFilter(v))
			case FilterRegex:
				re, err := regexp.Compile(v)
				if err != nil {
					return nil, oerrors.NewInvalidImportError(fmt.Sprintf("invalid regex filter %q: %v", v, err), location)
				}
				out = append(out, RegexFilter(re))
			case FilterCustom:
				f, err := customFilter(v, reader, caps, location)
				if err != nil {
					return nil, err
				}
				out = append(out, f)
			default:
				return nil, oerrors.NewInvalidImportError(fmt.Sprintf("unknown filter type %q", kind), location)
			}
		}
	}
	return out, nil
}

func customFilter(name string, reader metadata.Reader, caps strategy.Capabilities, location string) (TypeFilter, error) {
	class, ok := caps.Classes.Load(name)
	if !ok {
		return nil, oerrors.NewUnresolvableError(name, location, nil)
	}
	if !metadata.IsAssignable(reader, class.Metadata, metadata.TypeFilter) {
		return nil, oerrors.NewInvalidImportError(
			fmt.Sprintf("custom filter %s does not implement %s", name, metadata.TypeFilter), location)
	}
	return strategy.Instantiate[TypeFilter](class, caps, "type filter")
}
