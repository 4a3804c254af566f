// internal/domain/checkout/phase.go
package checkout

// Phase is the step a checkout session is in
type Phase string

const (
	PhaseCart       Phase = "cart"
	PhaseAddress    Phase = "address"
	PhasePayment    Phase = "payment"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseCancelled  Phase = "cancelled"
	PhaseFailed     Phase = "failed"
)

var transitions = map[Phase][]Phase{
	PhaseCart:       {PhaseAddress},
	PhaseAddress:    {PhaseCart, PhasePayment},
	PhasePayment:    {PhaseAddress, PhaseSubmitting, PhaseCancelled},
	PhaseSubmitting: {PhasePayment, PhaseSuccess, PhaseFailed},
}

// CanTransitionTo reports whether the state machine allows from -> to
func CanTransitionTo(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (p Phase) IsTerminal() bool {
	return p == PhaseSuccess || p == PhaseCancelled || p == PhaseFailed
}

func (p Phase) String() string {
	return string(p)
}

// Method is how the customer chose to pay
type Method string

const (
	MethodOnline Method = "online"
	MethodCOD    Method = "cod"
)

// IsValid reports whether m is a known method
func (m Method) IsValid() bool {
	return m == MethodOnline || m == MethodCOD
}
