// Package chunk converts a parsed document into an ordered sequence of
// chunks for retrieval ingestion. Boundaries follow handler-supplied
// structural hints when present, or a depth-based structural fallback
// otherwise. A post-pass regroups child chunks behind the record they
// reference and resolves cross-reference links.
package chunk

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// Options controls chunk sizing. Each field is independently
// overridable; zero values take the documented default.
type Options struct {
	// TargetDepth is the element depth used for fallback boundaries
	// (default 2: direct children of the root's children).
	TargetDepth int

	// MinChunkChars is the minimum subtree text length for a fallback
	// chunk; smaller sections merge into the nearest preceding chunk
	// (default 120).
	MinChunkChars int

	// MaxChunkChars is the size above which a chunk is split at the
	// next-deeper element level (default 4000). Splits never cross an
	// element boundary.
	MaxChunkChars int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{TargetDepth: 2, MinChunkChars: 120, MaxChunkChars: 4000}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.TargetDepth <= 0 {
		o.TargetDepth = def.TargetDepth
	}
	if o.MinChunkChars <= 0 {
		o.MinChunkChars = def.MinChunkChars
	}
	if o.MaxChunkChars <= 0 {
		o.MaxChunkChars = def.MaxChunkChars
	}
	return o
}

// Chunk is one contiguous, addressable unit of document content. Index
// is the zero-based position in the final output order.
type Chunk struct {
	Index int    `json:"index"`
	Path  string `json:"path"` // source element path
	Kind  string `json:"kind"` // "record", "section", "annotation", ...
	ID    string `json:"id,omitempty"`
	Text  string `json:"text"`

	// Refs maps a referenced identifier to the index of the chunk
	// carrying it.
	Refs map[string]int `json:"refs,omitempty"`

	// BackRefs lists indices of chunks that reference this one.
	BackRefs []int `json:"back_refs,omitempty"`

	// ExternalRefs lists referenced identifiers not found among the
	// document's chunks.
	ExternalRefs []string `json:"external_refs,omitempty"`

	// refID is the raw reference hint target, consumed by the
	// cross-reference pass.
	refID string
}

// Build produces the ordered chunk sequence for doc. hints may be nil.
// It never fails for a structurally valid document: a document with no
// extractable content yields an empty sequence. The returned
// diagnostics record non-fatal degradations (unusable hints, external
// references).
func Build(doc *xmldoc.Document, hints *handler.StructuralHints, opts Options) ([]Chunk, []string) {
	if doc == nil || doc.Root == nil {
		return nil, nil
	}
	opts = opts.normalized()

	var diags []string
	hintPaths := activeHintPaths(doc, hints)
	if hints != nil && len(hints.ChunkPaths) > 0 && len(hintPaths) == 0 {
		diags = append(diags, "structural hints matched no elements, using depth-based chunking")
	}

	var chunks []Chunk
	if len(hintPaths) > 0 {
		chunks = hintedChunks(doc, hints, hintPaths, opts)
		chunks = groupWithParents(chunks)
	} else {
		chunks = fallbackChunks(doc, opts)
	}

	for i := range chunks {
		chunks[i].Index = i
	}
	diags = append(diags, resolveRefs(chunks)...)
	return chunks, diags
}

// activeHintPaths filters hint boundary paths down to those actually
// present in the document.
func activeHintPaths(doc *xmldoc.Document, hints *handler.StructuralHints) map[string]bool {
	if hints == nil {
		return nil
	}
	set := make(map[string]bool)
	for _, p := range hints.ChunkPaths {
		if doc.HasPath(p) {
			set[p] = true
		}
	}
	return set
}

// hintedChunks emits one chunk per boundary element, in document order.
// Text of elements outside every boundary subtree is preserved in
// interleaved filler chunks so no leaf content is lost.
func hintedChunks(doc *xmldoc.Document, hints *handler.StructuralHints, boundaries map[string]bool, opts Options) []Chunk {
	var chunks []Chunk
	var filler []string
	fillerPath := ""

	flushFiller := func() {
		if len(filler) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Path: fillerPath,
			Kind: "section",
			Text: strings.Join(filler, "\n"),
		})
		filler = nil
		fillerPath = ""
	}

	var visit func(el *xmldoc.Element)
	visit = func(el *xmldoc.Element) {
		if boundaries[el.Path] {
			flushFiller()
			kind := hints.Kinds[el.Path]
			if kind == "" {
				kind = "record"
			}
			var id, ref string
			if key := hints.IDKeys[el.Path]; key != "" {
				id = el.Value(key)
			}
			if key := hints.RefKeys[el.Path]; key != "" {
				ref = el.Value(key)
			}
			chunks = append(chunks, emitBoundary(el, kind, id, ref, opts.MaxChunkChars)...)
			return
		}
		if el.Text != "" {
			if fillerPath == "" {
				fillerPath = el.Path
			}
			filler = append(filler, el.Text)
		}
		for _, c := range el.Children {
			visit(c)
		}
	}
	visit(doc.Root)
	flushFiller()
	return chunks
}

// emitBoundary turns one boundary element into one chunk, or several
// when its subtree text exceeds the maximum. The identifier and
// reference stay on the first part.
func emitBoundary(el *xmldoc.Element, kind, id, ref string, maxChars int) []Chunk {
	text := el.SubtreeText()
	if len(text) <= maxChars || len(el.Children) == 0 {
		return []Chunk{{Path: el.Path, Kind: kind, ID: id, Text: text, refID: ref}}
	}
	parts := splitElement(el, kind, maxChars)
	if len(parts) > 0 {
		parts[0].Path = el.Path
		parts[0].ID = id
		parts[0].refID = ref
	}
	return parts
}

// splitElement splits an oversized element at the next-deeper level,
// packing consecutive whole child subtrees up to maxChars. A child that
// is itself oversized recurses; a leaf with no children stays whole
// even when oversized, since splitting never crosses an element
// boundary.
func splitElement(el *xmldoc.Element, kind string, maxChars int) []Chunk {
	var out []Chunk
	var packTexts []string
	packLen := 0
	packPath := ""

	flush := func() {
		if len(packTexts) == 0 {
			return
		}
		out = append(out, Chunk{
			Path: packPath,
			Kind: kind,
			Text: strings.Join(packTexts, "\n"),
		})
		packTexts = nil
		packLen = 0
		packPath = ""
	}
	add := func(path, text string) {
		if text == "" {
			return
		}
		if packLen > 0 && packLen+1+len(text) > maxChars {
			flush()
		}
		if packPath == "" {
			packPath = path
		}
		packTexts = append(packTexts, text)
		packLen += len(text) + 1
	}

	add(el.Path, el.Text)
	for _, c := range el.Children {
		ctext := c.SubtreeText()
		if len(ctext) > maxChars && len(c.Children) > 0 {
			flush()
			out = append(out, splitElement(c, kind, maxChars)...)
			continue
		}
		add(c.Path, ctext)
	}
	flush()
	return out
}

// fallbackChunks derives boundaries structurally: elements at the
// target depth, plus shallower leaves so text above the target depth is
// not dropped. Sections below the minimum size merge into the nearest
// preceding section.
func fallbackChunks(doc *xmldoc.Document, opts Options) []Chunk {
	type section struct {
		el     *xmldoc.Element
		text   string
		merged bool
	}
	var secs []section

	var visit func(el *xmldoc.Element)
	visit = func(el *xmldoc.Element) {
		if el.Depth == opts.TargetDepth || len(el.Children) == 0 {
			if t := el.SubtreeText(); t != "" {
				secs = append(secs, section{el: el, text: t})
			}
			return
		}
		// Direct text of a container above the target depth becomes its
		// own section so it survives merging.
		if el.Text != "" {
			secs = append(secs, section{el: el, text: el.Text, merged: true})
		}
		for _, c := range el.Children {
			visit(c)
		}
	}
	visit(doc.Root)

	// Merge undersized sections into the nearest preceding one; a
	// leading undersized section merges forward instead. Merging stops
	// at the maximum chunk size: a long run of small siblings starts a
	// fresh chunk rather than growing one without bound.
	var kept []section
	for _, s := range secs {
		if last := len(kept) - 1; last >= 0 &&
			len(s.text) < opts.MinChunkChars &&
			len(kept[last].text)+1+len(s.text) <= opts.MaxChunkChars {
			kept[last].text += "\n" + s.text
			kept[last].merged = true
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) > 1 && len(kept[0].text) < opts.MinChunkChars &&
		len(kept[0].text)+1+len(kept[1].text) <= opts.MaxChunkChars {
		kept[1].text = kept[0].text + "\n" + kept[1].text
		kept[1].merged = true
		kept = kept[1:]
	}

	var chunks []Chunk
	for _, s := range kept {
		if !s.merged && len(s.text) > opts.MaxChunkChars && len(s.el.Children) > 0 {
			chunks = append(chunks, splitElement(s.el, "section", opts.MaxChunkChars)...)
			continue
		}
		chunks = append(chunks, Chunk{Path: s.el.Path, Kind: "section", Text: s.text})
	}
	return chunks
}
