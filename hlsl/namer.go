// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"
)

// Namer generates unique identifiers for synthetic declarations.
// Names are compared case-insensitively, matching legacy FXC behavior.
type Namer struct {
	used    map[string]struct{}
	counter uint32
}

// NewNamer creates a Namer with the given names already taken.
func NewNamer(taken ...string) *Namer {
	n := &Namer{used: make(map[string]struct{}, len(taken))}
	for _, name := range taken {
		n.Reserve(name)
	}
	return n
}

// Call returns a unique name derived from base.
// Reserved words are escaped and a numeric suffix is added on collision.
func (n *Namer) Call(base string) string {
	escaped := Escape(base)
	lower := strings.ToLower(escaped)
	if !n.isUsedLower(lower) {
		n.used[lower] = struct{}{}
		return escaped
	}

	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counter)
		lowerCandidate := strings.ToLower(candidate)
		if !n.isUsedLower(lowerCandidate) {
			n.used[lowerCandidate] = struct{}{}
			return candidate
		}
	}
}

// IsUsed checks if a name has already been taken (case-insensitive).
func (n *Namer) IsUsed(name string) bool {
	return n.isUsedLower(strings.ToLower(name))
}

func (n *Namer) isUsedLower(lowerName string) bool {
	_, used := n.used[lowerName]
	return used
}

// Reserve marks a name as taken without returning it.
func (n *Namer) Reserve(name string) {
	if name == "" {
		return
	}
	n.used[strings.ToLower(name)] = struct{}{}
}

// Count returns the number of names taken.
func (n *Namer) Count() int {
	return len(n.used)
}
