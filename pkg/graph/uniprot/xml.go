package uniprot

import (
	"github.com/beevik/etree"

	"github.com/graphomics/uniprot-kg/pkg/graph"
)

// Namespace is the UniProt XML namespace. Every element lookup is
// qualified against it; documents in another namespace yield no matches.
const Namespace = "http://uniprot.org/uniprot"

func matches(el *etree.Element, local string) bool {
	return el.Tag == local && el.NamespaceURI() == Namespace
}

// findAll returns every descendant of scope with the given local name in
// the UniProt namespace, in document order. The scope element itself is
// not considered.
func findAll(scope *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if matches(child, local) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(scope)
	return out
}

// findFirst returns the first descendant match, or nil.
func findFirst(scope *etree.Element, local string) *etree.Element {
	var found *etree.Element
	var walk func(el *etree.Element) bool
	walk = func(el *etree.Element) bool {
		for _, child := range el.ChildElements() {
			if matches(child, local) {
				found = child
				return true
			}
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(scope)
	return found
}

// findAllPath resolves a relative path like ".//a/b/c": the first segment
// is searched among all descendants, the remaining segments among direct
// children only.
func findAllPath(scope *etree.Element, path ...string) []*etree.Element {
	if len(path) == 0 {
		return nil
	}
	current := findAll(scope, path[0])
	for _, seg := range path[1:] {
		var next []*etree.Element
		for _, el := range current {
			for _, child := range el.ChildElements() {
				if matches(child, seg) {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return current
}

// findFirstPath returns the first match of findAllPath, or nil.
func findFirstPath(scope *etree.Element, path ...string) *etree.Element {
	all := findAllPath(scope, path...)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// attrProps converts an element's attributes, in declaration order, into
// graph properties. Namespace declarations are not attributes of the data.
func attrProps(el *etree.Element) []graph.Property {
	props := make([]graph.Property, 0, len(el.Attr))
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		props = append(props, graph.Property{Key: a.Key, Value: a.Value})
	}
	return props
}
