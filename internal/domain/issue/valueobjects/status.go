package valueobjects

import "fmt"

type IssueStatus string

const (
	StatusReported     IssueStatus = "reported"
	StatusAcknowledged IssueStatus = "acknowledged"
	StatusInProgress   IssueStatus = "in_progress"
	StatusResolved     IssueStatus = "resolved"
	StatusClosed       IssueStatus = "closed"
	StatusRejected     IssueStatus = "rejected"
)

var validIssueStatuses = map[IssueStatus]bool{
	StatusReported:     true,
	StatusAcknowledged: true,
	StatusInProgress:   true,
	StatusResolved:     true,
	StatusClosed:       true,
	StatusRejected:     true,
}

var statusLabels = map[IssueStatus]string{
	StatusReported:     "reported",
	StatusAcknowledged: "acknowledged",
	StatusInProgress:   "in progress",
	StatusResolved:     "resolved",
	StatusClosed:       "closed",
	StatusRejected:     "rejected",
}

func (s IssueStatus) String() string {
	return string(s)
}

func (s IssueStatus) IsValid() bool {
	return validIssueStatuses[s]
}

// IsTerminal reports whether no further business transition is implied.
// Terminal statuses can still be left; the flag is informational.
func (s IssueStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed || s == StatusRejected
}

func (s IssueStatus) IsResolved() bool {
	return s == StatusResolved
}

// Label is the lower-case human wording of the status.
func (s IssueStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func NewIssueStatus(s string) (IssueStatus, error) {
	st := IssueStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid issue status: %s", s)
	}
	return st, nil
}

// AllStatuses returns the statuses in lifecycle order.
func AllStatuses() []IssueStatus {
	return []IssueStatus{
		StatusReported,
		StatusAcknowledged,
		StatusInProgress,
		StatusResolved,
		StatusClosed,
		StatusRejected,
	}
}
