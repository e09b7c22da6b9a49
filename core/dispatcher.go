package core

import (
	"pwmnode/protocol"
)

// Dispatcher handles I2C write transactions. It runs in the receive
// context: it only reads bytes that are already buffered and only
// mutates ControlState. It never calls into the PWM driver.
type Dispatcher struct {
	state *ControlState
	table *CommandTable
	args  [MaxCommandArgs]byte
}

// NewDispatcher creates a dispatcher with the pwmnode command set registered
func NewDispatcher(state *ControlState) *Dispatcher {
	d := &Dispatcher{
		state: state,
		table: NewCommandTable(),
	}
	d.registerCommands()
	return d
}

// Table returns the command table
func (d *Dispatcher) Table() *CommandTable {
	return d.table
}

func (d *Dispatcher) registerCommands() {
	t := d.table
	t.Register(protocol.CmdBeginPWM, "begin_pwm", 0, d.handleBeginPWM)
	t.Register(protocol.CmdSetFrequency, "set_frequency", 1, d.handleSetFrequency)
	t.Register(protocol.CmdGetDutyCycle, "get_duty_cycle", 0, d.handleGetDutyCycle)
	t.Register(protocol.CmdGetFrequency, "get_frequency", 0, d.handleGetFrequency)
	t.Register(protocol.CmdDisablePWM, "disable_pwm", 0, d.handleDisablePWM)
	t.Register(protocol.CmdEnablePWM, "enable_pwm", 0, d.handleEnablePWM)

	for ch := 0; ch < NumChannels; ch++ {
		channel := ch
		t.Register(protocol.SetDutyOpcode(ch), "set_duty_ch"+itoa(ch+1), 1, func(args []byte) error {
			return d.handleSetDuty(channel, args[0])
		})
	}
}

// Receive handles one write transaction: an opcode followed by the
// argument bytes that opcode declares. A command whose arguments are not
// all buffered is dropped without effect. Bytes beyond the declared
// arguments are left in rx.
func (d *Dispatcher) Receive(rx protocol.ByteSource) {
	if rx.Available() == 0 {
		return
	}
	opcode, err := rx.ReadByte()
	if err != nil {
		return
	}

	cmd, ok := d.table.Lookup(opcode)
	if !ok {
		DebugAsync("[I2C] Error: unknown command " + hex8(opcode))
		RecordEvent(EvtWrite, opcode, 0, ResultUnknown)
		return
	}

	args := d.args[:cmd.Args]
	for i := range args {
		if rx.Available() == 0 {
			RecordEvent(EvtWrite, opcode, 0, ResultDropped)
			return
		}
		b, err := rx.ReadByte()
		if err != nil {
			RecordEvent(EvtWrite, opcode, 0, ResultDropped)
			return
		}
		args[i] = b
	}

	var arg uint8
	if len(args) > 0 {
		arg = args[0]
	}

	if err := cmd.Handler(args); err != nil {
		RecordEvent(EvtWrite, opcode, arg, resultFor(err))
		return
	}
	RecordEvent(EvtWrite, opcode, arg, ResultOK)
}

// resultFor maps a handler error to an event result code
func resultFor(err error) uint8 {
	switch err {
	case nil:
		return ResultOK
	case ErrNotInitialized:
		return ResultNotInitialized
	case ErrInvalidChannel, ErrInvalidDuty, ErrInvalidFrequency:
		return ResultRejected
	default:
		return ResultFailed
	}
}

func (d *Dispatcher) handleSetDuty(channel int, duty uint8) error {
	err := d.state.SetDuty(channel, duty)
	switch err {
	case nil:
	case ErrNotInitialized:
		DebugAsync("[PWM] SET DUTY WITHOUT INIT ch " + itoa(channel))
	default:
		DebugAsync("[PWM] SET_DUTY_CYCLE: Error: " + err.Error() + " ch " + itoa(channel) + " duty " + itoa(int(duty)))
	}
	return err
}

func (d *Dispatcher) handleSetFrequency(args []byte) error {
	hz := protocol.DecodeFrequency(args[0])
	if err := d.state.SetFrequency(hz); err != nil {
		DebugAsync("[PWM] SET_FREQUENCY: Error: " + err.Error())
		return err
	}
	DebugAsync("[PWM] SET_FREQUENCY: Frequency set to " + utoa(hz) + " Hz")
	return nil
}

func (d *Dispatcher) handleGetDutyCycle(args []byte) error {
	d.state.ArmRequest(RequestDuty)
	return nil
}

func (d *Dispatcher) handleGetFrequency(args []byte) error {
	d.state.ArmRequest(RequestFrequency)
	return nil
}

// handleBeginPWM is reserved: the bank is brought up unconditionally at boot
func (d *Dispatcher) handleBeginPWM(args []byte) error {
	return nil
}

func (d *Dispatcher) handleEnablePWM(args []byte) error {
	return d.state.RequestOutput(OutputEnable)
}

func (d *Dispatcher) handleDisablePWM(args []byte) error {
	return d.state.RequestOutput(OutputDisable)
}
