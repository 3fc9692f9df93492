package formats

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// RSS handles RSS 2.0 feeds.
func RSS() handler.Descriptor {
	return handler.Descriptor{
		ID:       "rss-feed",
		Priority: priorityRootTag,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "rss" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.5, "root <rss>"},
				signal{root.Attr("version") != "", 0.2, "version attribute"},
				signal{root.Child("channel") != nil, 0.3, "<channel> present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			fields := map[string]any{
				"rss_version": doc.Root.Attr("version"),
			}
			if ch := doc.Root.Child("channel"); ch != nil {
				fields["title"] = ch.ChildText("title")
				fields["link"] = ch.ChildText("link")
				fields["description"] = ch.ChildText("description")
			}
			fields["item_count"] = len(doc.ByPath("rss/channel/item"))

			return &handler.SummaryRecord{
				Fields: fields,
				Hints: &handler.StructuralHints{
					ChunkPaths: []string{"rss/channel/item"},
					Kinds:      map[string]string{"rss/channel/item": "record"},
					IDKeys:     map[string]string{"rss/channel/item": "guid"},
				},
			}, nil
		},
	}
}

const atomNamespace = "http://www.w3.org/2005/Atom"

// Atom handles Atom syndication feeds.
func Atom() handler.Descriptor {
	return handler.Descriptor{
		ID:       "atom-feed",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "feed" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.4, "root <feed>"},
				signal{root.Space == atomNamespace, 0.4, "atom namespace"},
				signal{root.Child("entry") != nil || root.Child("id") != nil, 0.2, "feed id/entries present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root
			return &handler.SummaryRecord{
				Fields: map[string]any{
					"title":       root.ChildText("title"),
					"feed_id":     root.ChildText("id"),
					"updated":     root.ChildText("updated"),
					"entry_count": len(doc.ByPath("feed/entry")),
				},
				Hints: &handler.StructuralHints{
					ChunkPaths: []string{"feed/entry"},
					Kinds:      map[string]string{"feed/entry": "record"},
					IDKeys:     map[string]string{"feed/entry": "id"},
				},
			}, nil
		},
	}
}

// Sitemap handles sitemaps.org URL sets and sitemap indexes.
func Sitemap() handler.Descriptor {
	return handler.Descriptor{
		ID:       "sitemap",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "urlset" && root.Name != "sitemapindex" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.5, "root <" + root.Name + ">"},
				signal{strings.Contains(root.Space, "sitemaps.org"), 0.3, "sitemaps.org namespace"},
				signal{len(root.Children) > 0, 0.2, "entries present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			entryPath := root.Name + "/url"
			if root.Name == "sitemapindex" {
				entryPath = root.Name + "/sitemap"
			}
			entries := doc.ByPath(entryPath)

			var sample []string
			for _, e := range entries {
				if len(sample) == 5 {
					break
				}
				sample = append(sample, e.ChildText("loc"))
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"kind":        root.Name,
					"entry_count": len(entries),
					"sample_locs": sample,
				},
				Hints: &handler.StructuralHints{
					ChunkPaths: []string{entryPath},
					Kinds:      map[string]string{entryPath: "record"},
					IDKeys:     map[string]string{entryPath: "loc"},
				},
			}, nil
		},
	}
}
