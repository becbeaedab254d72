// Copyright 2016 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package source defines the partitioned-source contract that object
// stores plug into: Directory/File/Partition/Page, and the
// prefix-stripped, lexicographically-ordered listing walk described
// in spec.md §4.2, ported from amadeus-aws/src/file.rs.
package source

import "strings"

// PathBuf is an ordered sequence of directory components plus an
// optional terminal file name. Depth excludes the file name.
type PathBuf struct {
	components []string
	fileName   string
	hasFile    bool
}

// Depth reports the number of directory components, excluding any
// file name.
func (p *PathBuf) Depth() int { return len(p.components) }

// At returns the i'th directory component.
func (p *PathBuf) At(i int) string { return p.components[i] }

// Last returns the deepest directory component. Panics if Depth()==0.
func (p *PathBuf) Last() string { return p.components[len(p.components)-1] }

// Push appends a new directory component.
func (p *PathBuf) Push(component string) {
	p.components = append(p.components, component)
}

// Pop removes the deepest directory component and returns it.
func (p *PathBuf) Pop() string {
	n := len(p.components) - 1
	c := p.components[n]
	p.components = p.components[:n]
	return c
}

// SetFileName sets or clears the terminal file name.
func (p *PathBuf) SetFileName(name string, present bool) {
	p.fileName = name
	p.hasFile = present
}

// FileName reports the terminal file name, if any.
func (p *PathBuf) FileName() (string, bool) { return p.fileName, p.hasFile }

// HasPrefix reports whether p's first n directory components equal
// prefix exactly, used to test ancestor relationships during the
// listing walk.
func (p *PathBuf) HasPrefix(prefix []string) bool {
	if len(prefix) > len(p.components) {
		return false
	}
	for i, c := range prefix {
		if p.components[i] != c {
			return false
		}
	}
	return true
}

// String renders the path as '/'-joined components, with the file
// name appended if set.
func (p *PathBuf) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(p.components, "/"))
	if p.hasFile {
		if len(p.components) > 0 {
			b.WriteByte('/')
		}
		b.WriteString(p.fileName)
	}
	return b.String()
}
