package archive

import (
	"fmt"
	"path"
	"strings"
)

// Namer hands out unique archive entry names. A repeated name gains a
// numeric suffix before its extension: a.webm, a_1.webm, a_2.webm.
// Namer is not safe for concurrent use.
type Namer struct {
	used map[string]bool
	next map[string]int
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{used: make(map[string]bool), next: make(map[string]int)}
}

// Assign returns name, or a suffixed variant if name was already assigned.
func (n *Namer) Assign(name string) string {
	if !n.used[name] {
		n.used[name] = true
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for {
		n.next[name]++
		candidate := fmt.Sprintf("%s_%d%s", stem, n.next[name], ext)
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}
