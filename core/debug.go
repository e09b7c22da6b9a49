package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event kinds recorded in the event ring
const (
	EvtWrite = 1 // write transaction dispatched
	EvtRead  = 2 // read transaction answered
	EvtApply = 3 // channel pushed to hardware
	EvtGroup = 4 // group enable/disable performed
)

// Event results
const (
	ResultOK             = 0
	ResultDropped        = 1 // argument byte missing
	ResultRejected       = 2 // argument out of range
	ResultNotInitialized = 3 // accepted or ignored because the bank is not up
	ResultUnknown        = 4 // unrecognized opcode
	ResultFailed         = 5 // hardware driver error
)

// Event captures one protocol or apply event for post-mortem analysis
type Event struct {
	Kind   uint8
	Opcode uint8  // opcode, or channel index for EvtApply
	Arg    uint8  // first argument byte or applied duty
	Result uint8  // Result* code
	Clock  uint32 // system ticks when recorded
}

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventCount    uint32

	// Async debug output channel, drained by debugOutputWorker
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Main loop only: it blocks for as long as the writer does.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output.
// Safe from the I2C receive context: drops the message if the queue is full.
func DebugAsync(msg string) {
	if !debugEnabled || debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordEvent appends an event to the ring buffer
func RecordEvent(kind, opcode, arg, result uint8) {
	clock := GetTime()
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{
		Kind:   kind,
		Opcode: opcode,
		Arg:    arg,
		Result: result,
		Clock:  clock,
	}
	eventRingHead = (idx + 1) % EventRingSize
	eventCount++
	restoreInterrupts(state)
}

// Events returns the recorded events, oldest first
func Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// EventCount returns the total number of events recorded since the last clear
func EventCount() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return eventCount
}

// LastEvent returns the most recent event
func LastEvent() (Event, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if eventCount == 0 {
		return Event{}, false
	}
	return eventRing[(eventRingHead+EventRingSize-1)%EventRingSize], true
}

// DumpEventRing outputs the event ring buffer
// Call from the main loop, never from the receive context
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	debugPrintln("[EVENTS] Total events: " + utoa(EventCount()))

	for _, evt := range Events() {
		var name string
		switch evt.Kind {
		case EvtWrite:
			name = "WRITE"
		case EvtRead:
			name = "READ"
		case EvtApply:
			name = "APPLY"
		case EvtGroup:
			name = "GROUP"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[EVENTS] " + name +
			" op=" + hex8(evt.Opcode) +
			" arg=" + itoa(int(evt.Arg)) +
			" result=" + resultName(evt.Result) +
			" clock=" + utoa(evt.Clock))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

func resultName(result uint8) string {
	switch result {
	case ResultOK:
		return "ok"
	case ResultDropped:
		return "dropped"
	case ResultRejected:
		return "rejected"
	case ResultNotInitialized:
		return "not-initialized"
	case ResultUnknown:
		return "unknown"
	case ResultFailed:
		return "failed"
	default:
		return "?"
	}
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	eventCount = 0
}
