package formats

import (
	"strings"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

// WSDL handles web-service descriptors (WSDL 1.1).
func WSDL() handler.Descriptor {
	return handler.Descriptor{
		ID:       "wsdl",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "definitions" {
				return handler.Detection{}
			}
			return detection(
				signal{true, 0.4, "root <definitions>"},
				signal{strings.Contains(root.Space, "wsdl"), 0.3, "wsdl namespace"},
				signal{root.Child("portType") != nil || root.Child("service") != nil, 0.2, "portType/service present"},
				signal{root.Attr("targetNamespace") != "", 0.1, "targetNamespace attribute"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			var services, operations []string
			for _, s := range doc.ByPath("definitions/service") {
				services = append(services, s.Attr("name"))
			}
			for _, op := range doc.ByPath("definitions/portType/operation") {
				operations = append(operations, op.Attr("name"))
			}

			hints := &handler.StructuralHints{
				Kinds:  make(map[string]string),
				IDKeys: make(map[string]string),
			}
			for _, section := range []string{"types", "message", "portType", "binding", "service"} {
				path := "definitions/" + section
				if doc.HasPath(path) {
					hints.ChunkPaths = append(hints.ChunkPaths, path)
					hints.Kinds[path] = "section"
					hints.IDKeys[path] = "name"
				}
			}

			return &handler.SummaryRecord{
				Fields: map[string]any{
					"name":             root.Attr("name"),
					"target_namespace": root.Attr("targetNamespace"),
					"services":         services,
					"operations":       operations,
					"message_count":    len(doc.ByPath("definitions/message")),
				},
				Hints: hints,
			}, nil
		},
	}
}

// SOAPEnvelope handles SOAP 1.1/1.2 message envelopes.
func SOAPEnvelope() handler.Descriptor {
	return handler.Descriptor{
		ID:       "soap-envelope",
		Priority: priorityNamespace,
		Detect: func(doc *xmldoc.Document) handler.Detection {
			root := doc.Root
			if root.Name != "Envelope" {
				return handler.Detection{}
			}
			soapNS := strings.Contains(root.Space, "soap") || strings.Contains(root.Space, "envelope")
			return detection(
				signal{true, 0.4, "root <Envelope>"},
				signal{soapNS, 0.3, "soap envelope namespace"},
				signal{root.Child("Body") != nil, 0.3, "<Body> present"},
			)
		},
		Extract: func(doc *xmldoc.Document) (*handler.SummaryRecord, error) {
			root := doc.Root

			version := "1.1"
			if strings.Contains(root.Space, "2003/05") {
				version = "1.2"
			}

			fields := map[string]any{
				"soap_version": version,
				"has_header":   root.Child("Header") != nil,
			}
			if body := root.Child("Body"); body != nil {
				var ops []string
				fault := false
				for _, c := range body.Children {
					if c.Name == "Fault" {
						fault = true
						continue
					}
					ops = append(ops, c.Name)
				}
				fields["body_operations"] = ops
				fields["is_fault"] = fault
			}

			hints := &handler.StructuralHints{Kinds: make(map[string]string)}
			for _, part := range []string{"Header", "Body"} {
				path := "Envelope/" + part
				if doc.HasPath(path) {
					hints.ChunkPaths = append(hints.ChunkPaths, path)
					hints.Kinds[path] = "section"
				}
			}

			return &handler.SummaryRecord{Fields: fields, Hints: hints}, nil
		},
	}
}
