package cluster

import "encoding/json"

// IncumbentMsg is the wire form of a solution: the problem-specific node
// payload plus its objective, which is all peers need for pruning.
type IncumbentMsg struct {
	Node      json.RawMessage `json:"node"`
	Objective int             `json:"objective"`
}

// Communicator abstracts the cross-process search channel: the shared best
// bound, the incumbent solution and the stop signal. The in-process cluster
// does not use it; worker and coordinator processes talk through it.
type Communicator interface {
	GetBound() (int, bool)
	PublishBound(b int)
	GetIncumbent() *IncumbentMsg
	PublishIncumbent(inc IncumbentMsg)
	PublishStop()
	Stopped() bool
}
