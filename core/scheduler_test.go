package core

import "testing"

func resetTimers() {
	state := disableInterrupts()
	timerList = nil
	currentTime = 0
	restoreInterrupts(state)
	SetTime(0)
}

func TestBeforeWraps(t *testing.T) {
	testCases := []struct {
		a, b uint32
		want bool
	}{
		{1, 2, true},
		{2, 1, false},
		{5, 5, false},
		{0xFFFFFFF0, 0x10, true},
		{0x10, 0xFFFFFFF0, false},
	}

	for _, tc := range testCases {
		if got := before(tc.a, tc.b); got != tc.want {
			t.Errorf("before(%#x, %#x) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestTimerDispatchOrder(t *testing.T) {
	resetTimers()
	defer resetTimers()

	var order []int
	mk := func(id int, wake uint32) *Timer {
		return &Timer{
			WakeTime: wake,
			Handler: func(*Timer) uint8 {
				order = append(order, id)
				return SF_DONE
			},
		}
	}

	ScheduleTimer(mk(3, 300))
	ScheduleTimer(mk(1, 100))
	ScheduleTimer(mk(2, 200))
	ScheduleTimer(mk(4, 5000))

	if PendingTimers() != 4 {
		t.Fatalf("Expected 4 timers, got %d", PendingTimers())
	}

	SetTime(250)
	ProcessTimers()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Unexpected dispatch order %v", order)
	}

	SetTime(1000)
	ProcessTimers()
	if len(order) != 3 || order[2] != 3 {
		t.Errorf("Unexpected dispatch order %v", order)
	}
	if PendingTimers() != 1 {
		t.Errorf("Expected 1 timer left, got %d", PendingTimers())
	}
}

func TestTimerAcrossWrap(t *testing.T) {
	resetTimers()
	defer resetTimers()

	SetTime(0xFFFFFF00)
	fired := 0
	var tm Timer
	Every(&tm, 0x200, func() { fired++ })

	SetTime(0xFFFFFFFF)
	ProcessTimers()
	if fired != 0 {
		t.Fatal("Timer fired before its wake time")
	}

	SetTime(0x100)
	ProcessTimers()
	if fired != 1 {
		t.Fatalf("Expected timer to fire across wrap, fired %d", fired)
	}
	if tm.WakeTime != 0x300 {
		t.Errorf("Next wake %#x, want 0x300", tm.WakeTime)
	}
}

func TestEverySkipsMissedPeriods(t *testing.T) {
	resetTimers()
	defer resetTimers()

	fired := 0
	var tm Timer
	Every(&tm, TimerFromMS(20), func() { fired++ })

	// Main loop stalled for 10 periods
	SetTime(TimerFromMS(200))
	ProcessTimers()
	if fired != 1 {
		t.Errorf("Expected a single run after a stall, got %d", fired)
	}
	if tm.WakeTime != TimerFromMS(220) {
		t.Errorf("Next wake %d, want %d", tm.WakeTime, TimerFromMS(220))
	}
}

func TestTimerConversions(t *testing.T) {
	if TimerFromMS(5) != 5000 || TimerFromUS(10) != 10 || TimerToUS(1500) != 1500 {
		t.Error("Unexpected tick conversion")
	}
}
