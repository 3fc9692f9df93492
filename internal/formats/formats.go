// Package formats ships the built-in document-family handlers. Each
// handler is an independent, routine mapping from one XML shape to a
// flat summary record; the classification and chunking engine consumes
// them through the handler capability contract.
package formats

import (
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
)

// All returns the default handler set in its fixed registration order.
// The order is part of the classification contract: it is the final
// tie-break signal after score and priority.
func All() []handler.Descriptor {
	return []handler.Descriptor{
		ServiceNow(),
		MavenPOM(),
		Ivy(),
		Log4j(),
		SVG(),
		WSDL(),
		SOAPEnvelope(),
		DITA(),
		DocBook(),
		RSS(),
		Atom(),
		Sitemap(),
		SpringBeans(),
		XSD(),
		KML(),
		GPX(),
		XLIFF(),
	}
}

// Override adjusts one handler's registration without a code change.
// Loaded from the optional formats YAML file.
type Override struct {
	ID       string `yaml:"id"`
	Priority *int   `yaml:"priority"`
	Disabled bool   `yaml:"disabled"`
}

// Registry builds the default registry, applying overrides by handler
// ID. Registration order is preserved regardless of overrides.
func Registry(overrides []Override) (*handler.Registry, error) {
	byID := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		byID[o.ID] = o
	}

	reg := handler.NewRegistry()
	for _, d := range All() {
		o, ok := byID[d.ID]
		if ok && o.Disabled {
			continue
		}
		if ok && o.Priority != nil {
			d.Priority = *o.Priority
		}
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// signal is one weighted detection clue.
type signal struct {
	ok     bool
	weight float64
	note   string
}

// detection sums the weights of present signals, capped at 1.
func detection(signals ...signal) handler.Detection {
	var det handler.Detection
	for _, s := range signals {
		if !s.ok {
			continue
		}
		det.Score += s.weight
		det.Evidence = append(det.Evidence, s.note)
	}
	if det.Score > 1 {
		det.Score = 1
	}
	return det
}

const (
	// Handlers anchored on a declared namespace outrank handlers that
	// only recognize a root tag shape when scores tie.
	priorityNamespace = 10
	priorityRootTag   = 5
	priorityFallback  = -100
)
