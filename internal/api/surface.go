package api

import (
	"log"

	"weatherly/internal/domain"
	"weatherly/internal/ports"
)

// LogSurface renders session changes as log lines. The HTTP surface reads
// snapshots on demand; this keeps a trail of what the session went through.
// Render is called from a single goroutine.
type LogSurface struct {
	last domain.SelectionState
	seen bool
}

var _ ports.Surface = (*LogSurface)(nil)

func (l *LogSurface) Render(s domain.SelectionState) {
	if l.seen && s.Phase == l.last.Phase && s.Query == l.last.Query &&
		s.Generation == l.last.Generation && s.Error == l.last.Error && s.Loading == l.last.Loading {
		return
	}
	l.last, l.seen = s, true

	selected := ""
	if s.Selected != nil {
		selected = domain.FormatPlace(*s.Selected)
	}
	log.Printf("op=session.render phase=%s query=%q selected=%q gen=%d loading=%t err=%q",
		s.Phase, s.Query, selected, s.Generation, s.Loading, s.Error)
}
