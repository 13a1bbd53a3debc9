package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// attrs maps attribute local names to values for one element. Presence in
// the map is what distinguishes a missing attribute from an empty one.
type attrs map[string]string

// has reports whether every named attribute is present.
func (a attrs) has(names ...string) bool {
	for _, n := range names {
		if _, ok := a[n]; !ok {
			return false
		}
	}
	return true
}

// intVal parses the named attribute as an integer, returning def when the
// attribute is absent.
func (a attrs) intVal(name string, def int) (int, error) {
	v, ok := a[name]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", name, err)
	}
	return n, nil
}

// forEachElement streams the XML document at path and invokes fn once per
// element whose local name matches local. Decoding stops at the first
// malformed token; callers must discard anything collected from a file
// whose walk returns an error, a partially read document contributes
// nothing.
func forEachElement(path, local string, fn func(attrs)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("ingest: parse %s: %w", path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != local {
			continue
		}
		a := make(attrs, len(start.Attr))
		for _, at := range start.Attr {
			a[at.Name.Local] = at.Value
		}
		fn(a)
	}
}
