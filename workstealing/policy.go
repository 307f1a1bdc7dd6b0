package workstealing

// Task is one unit of search work. The locality argument tells the body
// which locality's worker is executing it; a popped task runs at most once.
type Task func(locality int)

// Policy is the pluggable work-distribution discipline of one locality.
// Producers push through the concrete type (the extra arguments differ per
// policy); workers and remote stealers go through this interface.
type Policy interface {
	// GetWork returns a task under the local discipline, or nil.
	GetWork() Task
	// Steal is invoked by a remote locality's scheduler and returns the
	// item the policy is most willing to give away, or nil.
	Steal() Task
	// WorkRemaining reports whether the policy still holds work.
	WorkRemaining() bool
}
