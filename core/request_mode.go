package core

// RequestMode selects what the next read transaction returns.
//
// Transitions:
//
//	None      --GET_DUTY_CYCLE-->  Duty
//	None      --GET_FREQUENCY--->  Frequency
//	any       --get command----->  the requested mode (latest wins)
//	Duty|Freq --read------------>  None   (single shot)
//	None      --read------------>  None
type RequestMode uint8

const (
	RequestNone RequestMode = iota
	RequestDuty
	RequestFrequency
)

func (m RequestMode) String() string {
	switch m {
	case RequestNone:
		return "none"
	case RequestDuty:
		return "duty"
	case RequestFrequency:
		return "frequency"
	default:
		return "invalid"
	}
}

// Arm selects the response for the next read
func (m *RequestMode) Arm(next RequestMode) {
	*m = next
}

// Consume returns the armed mode and resets to RequestNone
func (m *RequestMode) Consume() RequestMode {
	cur := *m
	*m = RequestNone
	return cur
}
