package entity

type ParcelStatus string

const (
	StatusPending   ParcelStatus = "pending"
	StatusOnTheWay  ParcelStatus = "on the way"
	StatusDelivered ParcelStatus = "delivered"
	StatusCancelled ParcelStatus = "cancelled"
)

// transitions lists the statuses reachable from each non-terminal status.
// "on the way" -> "on the way" is a re-assignment.
var transitions = map[ParcelStatus][]ParcelStatus{
	StatusPending:  {StatusOnTheWay, StatusDelivered, StatusCancelled},
	StatusOnTheWay: {StatusOnTheWay, StatusDelivered, StatusCancelled},
}

func (s ParcelStatus) Valid() bool {
	switch s {
	case StatusPending, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s ParcelStatus) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

func (s ParcelStatus) CanTransitionTo(next ParcelStatus) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s.
func (s ParcelStatus) NextStatuses() []ParcelStatus {
	out := make([]ParcelStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}
