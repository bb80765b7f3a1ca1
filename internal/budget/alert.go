package budget

import "github.com/MrJamesThe3rd/teamspend/internal/team"

// AlertState is the persisted state of one threshold for one team.
type AlertState int

const (
	NotSent AlertState = iota
	Sent
)

func StateOf(sent bool) AlertState {
	if sent {
		return Sent
	}

	return NotSent
}

// Transition is the outcome of stepping a Machine.
type Transition int

const (
	// Hold leaves the state as it is.
	Hold Transition = iota
	// Fire sends the alert; the state becomes Sent once delivery succeeds.
	Fire
	// Rearm returns a Sent threshold to NotSent without sending anything.
	Rearm
)

func (tr Transition) String() string {
	switch tr {
	case Fire:
		return "fire"
	case Rearm:
		return "rearm"
	}

	return "hold"
}

type Threshold struct {
	Flag    team.AlertFlag
	Percent float64
}

// Thresholds are evaluated in ascending order.
var Thresholds = []Threshold{
	{Flag: team.AlertFlag80, Percent: 80},
	{Flag: team.AlertFlag100, Percent: 100},
}

// Machine is the two-state alert machine for a single threshold.
type Machine struct {
	Threshold Threshold
	State     AlertState
}

// Step decides what happens to the machine at the given percentage of budget used.
func (m Machine) Step(percentage float64, hasRecipients bool) Transition {
	switch m.State {
	case NotSent:
		if percentage >= m.Threshold.Percent && hasRecipients {
			return Fire
		}
	case Sent:
		if percentage < m.Threshold.Percent {
			return Rearm
		}
	}

	return Hold
}
