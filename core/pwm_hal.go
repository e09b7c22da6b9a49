package core

// PWMPin identifies a hardware pin capable of PWM output
type PWMPin uint32

// PWMDriver is the abstract PWM interface that core code uses.
// Platform-specific implementations handle actual hardware control.
// Drivers are only ever called from the main loop.
type PWMDriver interface {
	// Configure sets a pin up for PWM output and starts it
	// frequencyHz: output frequency; dutyPercent: 0 (off) to 100 (fully on)
	Configure(pin PWMPin, frequencyHz uint32, dutyPercent uint8) error

	// Set pushes a new frequency and duty to a configured pin
	Set(pin PWMPin, frequencyHz uint32, dutyPercent uint8) error

	// Enable starts or stops output on a configured pin without
	// forgetting its configuration
	Enable(pin PWMPin, enabled bool) error
}

// Global singleton used by core code.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}
