package core

// Applier is the main-loop consumer of ControlState. It is the only code
// that drives the PWM bank after startup.
type Applier struct {
	state *ControlState
	bank  *PWMBank
}

// NewApplier creates an applier for state and bank
func NewApplier(state *ControlState, bank *PWMBank) *Applier {
	return &Applier{state: state, bank: bank}
}

// Start brings the bank up with the current state values and opens the
// state for scheduled updates. Safe to call again after a failure.
func (a *Applier) Start() error {
	if a.bank.Initialized() {
		return nil
	}

	duties, hz := a.state.Snapshot()
	if err := a.bank.Initialize(hz, duties); err != nil {
		DebugPrintln("[PWM] Error: init failed: " + err.Error())
		return err
	}
	a.state.MarkInitialized(duties, hz)
	DebugPrintln("[PWM] Initialized " + itoa(NumChannels) + " channels at " + utoa(hz) + " Hz")
	return nil
}

// Poll applies every pending channel update and group output change.
// It never blocks and returns the number of channels pushed. Before the
// bank is up nothing is taken; Start reconciles those writes.
func (a *Applier) Poll() int {
	if !a.bank.Initialized() {
		return 0
	}

	p := a.state.Take()
	if p.Dirty == 0 && p.Output == OutputUnchanged {
		return 0
	}

	applied := 0
	for ch := 0; ch < NumChannels; ch++ {
		if p.Dirty&(1<<ch) == 0 {
			continue
		}
		duty := p.Duties[ch]
		if err := a.bank.Apply(ch, duty, p.Frequency); err != nil {
			DebugPrintln("[PWM] Error: update ch " + itoa(ch) + " failed: " + err.Error())
			RecordEvent(EvtApply, uint8(ch), duty, ResultFailed)
			continue
		}
		RecordEvent(EvtApply, uint8(ch), duty, ResultOK)
		DebugPrintln("[PWM] Updated ch " + itoa(ch) + ", duty " + itoa(int(duty)) + ", freq " + utoa(p.Frequency))
		applied++
	}

	switch p.Output {
	case OutputEnable:
		a.applyGroup(true)
	case OutputDisable:
		a.applyGroup(false)
	}

	return applied
}

func (a *Applier) applyGroup(enabled bool) {
	var err error
	if enabled {
		err = a.bank.EnableAll()
	} else {
		err = a.bank.DisableAll()
	}

	var arg uint8
	if enabled {
		arg = 1
	}
	if err != nil {
		DebugPrintln("[PWM] Error: group output change failed: " + err.Error())
		RecordEvent(EvtGroup, 0, arg, ResultFailed)
		return
	}
	RecordEvent(EvtGroup, 0, arg, ResultOK)
}

// Status returns one line per channel describing what the hardware holds
func (a *Applier) Status() []string {
	lines := make([]string, 0, NumChannels+1)
	state := "off"
	if a.bank.Enabled() {
		state = "on"
	}
	if !a.bank.Initialized() {
		state = "uninitialized"
	}
	lines = append(lines, "[PWM] bank "+state)
	for ch := 0; ch < NumChannels; ch++ {
		lines = append(lines, "[PWM] ch "+itoa(ch)+
			" pin="+utoa(uint32(a.bank.Pin(ch)))+
			" duty="+itoa(int(a.bank.Duty(ch)))+
			" freq="+utoa(a.bank.Frequency(ch)))
	}
	return lines
}
