package session

import (
	"github.com/zjrosen/tincture/internal/formatting"
	"github.com/zjrosen/tincture/internal/model"
)

// Event is the payload published on the session broker.
type Event struct {
	// Reason names what triggered the event, e.g. "load" or "settings file changed".
	Reason string
	// Generation is the environment snapshot the model was resolved against.
	Generation uint64
	// Model is a copy of the resolved model; set on resolved and saved events
	// unless the quiet-events flag is on.
	Model *model.Model
	// Reports is set on applied events.
	Reports []formatting.Report
	// SnapshotID names the history entry recorded before a save, if any.
	SnapshotID string
	// Enablement is set on classifications changed events.
	Enablement []Enablement
}

// Enablement lists, for one language, the classifications enabled in each
// surface.
type Enablement struct {
	Language  string
	Editor    []string
	Xml       []string
	QuickInfo []string
}

func enablement(m *model.Model) []Enablement {
	out := make([]Enablement, 0, len(m.Languages))
	for _, lang := range m.Languages {
		e := Enablement{Language: lang.Name}
		for _, c := range lang.Classifications {
			if c.IsEnabled {
				e.Editor = append(e.Editor, c.Name)
			}
			if c.IsEnabledInXml {
				e.Xml = append(e.Xml, c.Name)
			}
			if c.IsEnabledInQuickInfo {
				e.QuickInfo = append(e.QuickInfo, c.Name)
			}
		}
		out = append(out, e)
	}
	return out
}
