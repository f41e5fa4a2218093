package pcf85063a

const (
	Address      = 0x51 // I2C address for PCF85063A (fixed, no strap pins)
	Control1     = 0x00 // Control and status register 1
	Control2     = 0x01 // Control and status register 2
	Offset       = 0x02 // Offset calibration register
	RAM          = 0x03 // Free RAM byte, zero on power-on reset
	Seconds      = 0x04 // Time registers starting with seconds
	AlarmSecond  = 0x0B // Second alarm register
	AlarmMinute  = 0x0C // Minute alarm register
	AlarmHour    = 0x0D // Hour alarm register
	AlarmDay     = 0x0E // Day alarm register
	AlarmWeekday = 0x0F // Weekday alarm register
	TimerValue   = 0x10 // Timer value (number of clock periods)
	TimerMode    = 0x11 // Timer source clock frequency and control
)

// Control1 bits.
const (
	ctrl1CapSel   = 1 << 0 // oscillator capacitance select, 1 = 12.5pF
	ctrl1Mode12   = 1 << 1 // 1 = 12-hour mode; this driver keeps 24-hour mode
	ctrl1Stop     = 1 << 5 // 1 = RTC clock stopped
	ctrl1ResetKey = 0x58   // software reset command, written whole
)

// Control2 bits.
const (
	ctrl2AIE     = 1 << 7 // alarm interrupt enable
	ctrl2AF      = 1 << 6 // alarm flag, set by hardware on match
	ctrl2TF      = 1 << 3 // timer flag, set by hardware on countdown end
	ctrl2COFMask = 0b111  // CLKOUT frequency selection
)

// Offset register bits.
const (
	offsetMode      = 1 << 7 // 1 = correct every four minutes, 0 = every two hours
	offsetValueMask = 0x7F   // signed 7-bit correction, -64..+63
)

// TimerMode bits.
const (
	timerPulsed    = 1 << 0 // 1 = INT pulses instead of latching
	timerInterrupt = 1 << 1 // timer interrupt enable
	timerEnable    = 1 << 2 // 1 = countdown running
	timerFreqShift = 3      // TCF field position
	timerFreqMask  = 0b11 << timerFreqShift
)

const (
	osFlag      = 1 << 7 // oscillator stopped, in the seconds register
	centuryFlag = 1 << 7 // century, in the months register
	alarmIgnore = 1 << 7 // per-register "do not match this field" bit
)
