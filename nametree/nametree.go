// seehuhn.de/go/facturx - embed and extract XML in hybrid PDF/A-3 files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package nametree

import (
	"errors"
	"fmt"
	"slices"

	"seehuhn.de/go/pdf"
)

var (
	// ErrKeyNotFound is returned by [Find] if none of the requested keys
	// is present in the tree.
	ErrKeyNotFound = errors.New("key not found")

	// ErrMalformed indicates a name tree which does not have the expected
	// structure.
	ErrMalformed = errors.New("malformed name tree")
)

// MaxDepth is the number of /Kids levels which may appear above the leaf
// nodes.  A value of 2 means that leaves may be found in the root, in the
// children of the root, and in the grandchildren of the root.
const MaxDepth = 2

// Entry is a key/value pair stored in a leaf node.
type Entry struct {
	Key   string
	Value pdf.Object
}

// Leaves returns all key/value pairs of the name tree rooted at root,
// in the order in which they are stored in the file.
//
// If root is nil, the tree is empty and Leaves returns nil.
func Leaves(r pdf.Getter, root pdf.Object) ([]Entry, error) {
	if root == nil {
		return nil, nil
	}
	node, err := getNode(r, root)
	if err != nil {
		return nil, err
	}

	var flat pdf.Array
	err = collect(r, node, 0, &flat)
	if err != nil {
		return nil, err
	}
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of elements (%d) in /Names",
			ErrMalformed, len(flat))
	}

	res := make([]Entry, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		key, err := pdf.GetTextString(r, flat[i])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid key: %w", ErrMalformed, err)
		}
		res = append(res, Entry{Key: string(key), Value: flat[i+1]})
	}
	return res, nil
}

// collect appends the leaf arrays below node to flat.
// depth is the number of /Kids arrays traversed to reach node.
func collect(r pdf.Getter, node pdf.Dict, depth int, flat *pdf.Array) error {
	if names, ok := node["Names"]; ok {
		arr, err := pdf.GetArray(r, names)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		*flat = append(*flat, arr...)
		return nil
	}

	kids, ok := node["Kids"]
	if !ok {
		return nil
	}
	if depth >= MaxDepth {
		return fmt.Errorf("%w: more than %d levels of /Kids", ErrMalformed, MaxDepth)
	}
	arr, err := pdf.GetArray(r, kids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for _, kid := range arr {
		child, err := getNode(r, kid)
		if err != nil {
			return err
		}
		err = collect(r, child, depth+1, flat)
		if err != nil {
			return err
		}
	}
	return nil
}

func getNode(r pdf.Getter, obj pdf.Object) (pdf.Dict, error) {
	resolved, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	node, ok := resolved.(pdf.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: node is %T, not a dictionary", ErrMalformed, resolved)
	}
	return node, nil
}

// Find scans the tree in file order and returns the first entry whose key is
// one of keys.
//
// If the tree is well-formed but contains none of the keys, [ErrKeyNotFound]
// is returned.  Structural problems are reported as errors wrapping
// [ErrMalformed].
func Find(r pdf.Getter, root pdf.Object, keys ...string) (*Entry, error) {
	entries, err := Leaves(r, root)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if slices.Contains(keys, entries[i].Key) {
			return &entries[i], nil
		}
	}
	return nil, ErrKeyNotFound
}
