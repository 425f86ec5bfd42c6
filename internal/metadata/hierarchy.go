package metadata

// IsAssignable reports whether md is target, or extends or implements it
// through types the reader can describe. Well-known types contribute their
// built-in supertypes.
func IsAssignable(r Reader, md *TypeMetadata, target string) bool {
	if md == nil {
		return false
	}
	return assignable(r, md.Name, md, target, map[string]bool{})
}

// IsAssignableName is IsAssignable for a type known only by name.
func IsAssignableName(r Reader, name, target string) bool {
	return assignable(r, name, nil, target, map[string]bool{})
}

func assignable(r Reader, name string, md *TypeMetadata, target string, seen map[string]bool) bool {
	if name == target {
		return true
	}
	if seen[name] {
		return false
	}
	seen[name] = true

	for _, super := range BuiltinSupertypes(name) {
		if assignable(r, super, nil, target, seen) {
			return true
		}
	}
	if md == nil && r != nil {
		md, _ = r.Read(name)
	}
	if md == nil {
		return false
	}
	for _, iface := range md.Interfaces {
		if assignable(r, iface, nil, target, seen) {
			return true
		}
	}
	if md.Superclass != "" {
		return assignable(r, md.Superclass, nil, target, seen)
	}
	return false
}

// CollectMarkers returns the attributes of every markerType occurrence found
// on the marker types in markers that the reader describes, followed by the
// direct occurrences. Well-known markers are not expanded.
func CollectMarkers(r Reader, markers Markers, markerType string) []Attributes {
	var out []Attributes
	collectMarkers(r, markers, markerType, map[string]bool{}, &out)
	return out
}

func collectMarkers(r Reader, markers Markers, markerType string, seen map[string]bool, out *[]Attributes) {
	if r != nil {
		for _, mk := range markers {
			if IsPlatformType(mk.Type) || seen[mk.Type] {
				continue
			}
			seen[mk.Type] = true
			if md, err := r.Read(mk.Type); err == nil {
				collectMarkers(r, md.Markers, markerType, seen, out)
			}
		}
	}
	*out = append(*out, markers.All(markerType)...)
}

// HasMarker reports whether markerType is present directly or through a
// marker type the reader describes.
func HasMarker(r Reader, markers Markers, markerType string) bool {
	return len(CollectMarkers(r, markers, markerType)) > 0
}
