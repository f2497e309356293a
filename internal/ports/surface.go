package ports

import "weatherly/internal/domain"

// Surface receives a snapshot of the session state after every change.
// Implementations must not block.
type Surface interface {
	Render(state domain.SelectionState)
}
