package chunk

import "fmt"

// groupWithParents moves chunks whose reference resolves to another
// chunk's identifier so they immediately follow that chunk. The
// reordering is a stable partition: parents keep document order, and
// among children of the same parent, relative document order is
// preserved. Implemented as an explicit remapping pass over the
// assembled sequence, not interleaved mutation during the tree walk.
func groupWithParents(chunks []Chunk) []Chunk {
	idPos := ownIDPositions(chunks)

	// A chunk is grouped only under a parent that is not itself
	// grouped; that keeps reference cycles and chains in place rather
	// than dropping or infinitely nesting them.
	resolves := func(i int) (int, bool) {
		c := chunks[i]
		if c.refID == "" {
			return 0, false
		}
		p, ok := idPos[c.refID]
		if !ok || p == i {
			return 0, false
		}
		return p, true
	}

	childrenOf := make(map[int][]int)
	isChild := make(map[int]bool)
	for i := range chunks {
		p, ok := resolves(i)
		if !ok {
			continue
		}
		if _, parentGrouped := resolves(p); parentGrouped {
			continue
		}
		childrenOf[p] = append(childrenOf[p], i)
		isChild[i] = true
	}
	if len(isChild) == 0 {
		return chunks
	}

	out := make([]Chunk, 0, len(chunks))
	for i := range chunks {
		if isChild[i] {
			continue
		}
		out = append(out, chunks[i])
		for _, c := range childrenOf[i] {
			out = append(out, chunks[c])
		}
	}
	return out
}

// resolveRefs links chunks after final ordering: each resolvable
// reference becomes a forward ref on the source and a back-ref on the
// target. Unresolvable targets are recorded as external, never errors.
func resolveRefs(chunks []Chunk) []string {
	idPos := ownIDPositions(chunks)

	var diags []string
	for i := range chunks {
		c := &chunks[i]
		if c.refID == "" {
			continue
		}
		p, ok := idPos[c.refID]
		if !ok || p == i {
			c.ExternalRefs = append(c.ExternalRefs, c.refID)
			diags = append(diags, fmt.Sprintf("chunk %d references %q: not in this document, recorded as external", i, c.refID))
			continue
		}
		if c.Refs == nil {
			c.Refs = make(map[string]int)
		}
		c.Refs[c.refID] = chunks[p].Index
		chunks[p].BackRefs = append(chunks[p].BackRefs, c.Index)
	}
	return diags
}

// ownIDPositions maps each extracted identifier to the position of the
// first chunk carrying it.
func ownIDPositions(chunks []Chunk) map[string]int {
	m := make(map[string]int)
	for i, c := range chunks {
		if c.ID == "" {
			continue
		}
		if _, seen := m[c.ID]; !seen {
			m[c.ID] = i
		}
	}
	return m
}
