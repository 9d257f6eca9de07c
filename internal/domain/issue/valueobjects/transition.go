package valueobjects

import "fmt"

const (
	PolicyPermissive = "permissive"
	PolicyAdjacency  = "adjacency"
)

// TransitionPolicy decides which status changes are legal.
// Re-applying the current status is always allowed.
type TransitionPolicy interface {
	Name() string
	Allows(from, to IssueStatus) bool
}

// PermissiveTransitions lets staff move an issue between any two statuses,
// so mistakes can be corrected. This is the default.
type PermissiveTransitions struct{}

func (PermissiveTransitions) Name() string { return PolicyPermissive }

func (PermissiveTransitions) Allows(from, to IssueStatus) bool {
	return from.IsValid() && to.IsValid()
}

// AdjacencyTransitions only allows the forward lifecycle
// reported → acknowledged → in_progress → resolved → closed,
// plus rejection from any non-terminal status.
type AdjacencyTransitions struct{}

var adjacentStatuses = map[IssueStatus][]IssueStatus{
	StatusReported:     {StatusAcknowledged, StatusRejected},
	StatusAcknowledged: {StatusInProgress, StatusRejected},
	StatusInProgress:   {StatusResolved, StatusRejected},
	StatusResolved:     {StatusClosed},
}

func (AdjacencyTransitions) Name() string { return PolicyAdjacency }

func (AdjacencyTransitions) Allows(from, to IssueStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range adjacentStatuses[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewTransitionPolicy resolves a policy by its configured name.
func NewTransitionPolicy(name string) (TransitionPolicy, error) {
	switch name {
	case "", PolicyPermissive:
		return PermissiveTransitions{}, nil
	case PolicyAdjacency:
		return AdjacencyTransitions{}, nil
	default:
		return nil, fmt.Errorf("unknown transition policy: %s", name)
	}
}
