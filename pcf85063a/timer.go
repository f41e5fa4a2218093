package pcf85063a

// TimerFrequency is the countdown timer's source clock. The countdown duration is value/frequency; for a given
// duration, prefer the highest value that fits (value=60 at 1Hz beats value=1 at 1/60Hz for accuracy).
type TimerFrequency uint8

const (
	TimerFreq4096Hz TimerFrequency = 0b00
	TimerFreq64Hz   TimerFrequency = 0b01
	TimerFreq1Hz    TimerFrequency = 0b10
	TimerFreq1_60Hz TimerFrequency = 0b11
)

// ClockOutFrequency selects the square wave on the CLKOUT pin.
type ClockOutFrequency uint8

const (
	ClockOut32768Hz ClockOutFrequency = 0b000
	ClockOut16384Hz ClockOutFrequency = 0b001
	ClockOut8192Hz  ClockOutFrequency = 0b010
	ClockOut4096Hz  ClockOutFrequency = 0b011
	ClockOut2048Hz  ClockOutFrequency = 0b100
	ClockOut1024Hz  ClockOutFrequency = 0b101
	ClockOut1Hz     ClockOutFrequency = 0b110
	ClockOutOff     ClockOutFrequency = 0b111
)

// StartTimer loads the countdown timer and starts it. value counts periods of freq, so the timer elapses after
// value/freq seconds and sets the timer flag. With interrupt enabled the INT pin asserts as well, latched unless
// pulsed is set.
func (d *Device) StartTimer(value uint8, freq TimerFrequency, interrupt, pulsed bool) error {
	err := d.bus.WriteRegister(d.Address, TimerValue, []byte{value})
	if err != nil {
		return err
	}
	mode := uint8(freq)<<timerFreqShift | timerEnable
	if interrupt {
		mode |= timerInterrupt
	}
	if pulsed {
		mode |= timerPulsed
	}
	return d.bus.WriteRegister(d.Address, TimerMode, []byte{mode})
}

// StopTimer halts the countdown, keeping the configured frequency and interrupt settings.
func (d *Device) StopTimer() error {
	return d.modifyRegister(TimerMode, timerEnable, 0)
}

// TimerElapsed reports whether the countdown reached zero since the flag was last cleared.
func (d *Device) TimerElapsed() (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control2, buf[:])
	if err != nil {
		return false, err
	}
	return buf[0]&ctrl2TF != 0, nil
}

// ClearTimer clears the timer flag.
func (d *Device) ClearTimer() error {
	return d.modifyRegister(Control2, ctrl2TF, 0)
}

// SetClockOut selects the CLKOUT pin frequency, ClockOutOff to stop it. The chip resets to 32.768kHz, so boards that
// don't use CLKOUT usually turn it off to save power.
func (d *Device) SetClockOut(freq ClockOutFrequency) error {
	return d.modifyRegister(Control2, ctrl2COFMask, uint8(freq))
}

func (d *Device) ClockOut() (ClockOutFrequency, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control2, buf[:])
	if err != nil {
		return 0, err
	}
	return ClockOutFrequency(buf[0] & ctrl2COFMask), nil
}
