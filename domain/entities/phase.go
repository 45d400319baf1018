package entities

// InvocationState tracks one contract invocation through the host.
//
//	NoArgsEstablished -> ArgsBound -> Executing -> Completed | Reverted
type InvocationState int

const (
	StateNoArgsEstablished InvocationState = iota
	StateArgsBound
	StateExecuting
	StateCompleted
	StateReverted
)

func (s InvocationState) String() string {
	switch s {
	case StateNoArgsEstablished:
		return "no-args-established"
	case StateArgsBound:
		return "args-bound"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// Phase is the execution phase reported to contracts by the get_phase host function.
type Phase uint8

const (
	PhaseSystem   Phase = 0
	PhasePayment  Phase = 1
	PhaseSession  Phase = 2
	PhaseFinalize Phase = 3
)
