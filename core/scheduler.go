package core

// Timer represents a scheduled main-loop task
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

// Handler results
const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1 // Handler updated WakeTime and wants to run again
)

var (
	timerList   *Timer
	currentTime uint32
)

// before reports whether tick a comes before b, tolerating counter wrap
func before(a, b uint32) bool {
	return int32(a-b) < 0
}

// ScheduleTimer adds a timer to the schedule
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	insertTimer(t)
}

// insertTimer inserts a timer in sorted order by WakeTime
// Must be called inside a critical section
func insertTimer(t *Timer) {
	if timerList == nil || before(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && !before(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// popDueTimer removes and returns the first timer due at now
func popDueTimer(now uint32) *Timer {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if timerList == nil || before(now, timerList.WakeTime) {
		return nil
	}
	timer := timerList
	timerList = timer.Next
	timer.Next = nil
	return timer
}

// TimerDispatch runs every timer due at the current time. Handlers run
// outside the critical section so they may touch shared state.
func TimerDispatch() {
	now := currentTime
	for {
		timer := popDueTimer(now)
		if timer == nil {
			return
		}
		if timer.Handler(timer) == SF_RESCHEDULE {
			ScheduleTimer(timer)
		}
	}
}

// PendingTimers returns the number of scheduled timers
func PendingTimers() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	n := 0
	for cur := timerList; cur != nil; cur = cur.Next {
		n++
	}
	return n
}
