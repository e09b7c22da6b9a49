package core

import "sync/atomic"

// TimerFreq is the RP2040 system timer rate (1 tick = 1 µs)
const TimerFreq = 1000000

var (
	systemTicks uint32
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime publishes the hardware timer value (or a test clock)
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return uint32(uint64(ms) * TimerFreq / 1000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// Every schedules handler to run every periodTicks, starting one period
// from now. handler runs on the main loop.
func Every(t *Timer, periodTicks uint32, handler func()) {
	t.WakeTime = GetTime() + periodTicks
	t.Handler = func(t *Timer) uint8 {
		handler()
		t.WakeTime += periodTicks
		if before(t.WakeTime, currentTime) {
			// Fell behind; skip missed periods instead of bursting
			t.WakeTime = currentTime + periodTicks
		}
		return SF_RESCHEDULE
	}
	ScheduleTimer(t)
}

// ProcessTimers processes scheduled timers
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
