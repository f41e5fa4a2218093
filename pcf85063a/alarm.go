package pcf85063a

import (
	"fmt"
	"time"
)

// AlarmFrequency selects which time fields the chip compares when deciding to raise the alarm flag. Each alarm
// register has its own ignore bit, so the frequencies form a ladder: minutely arms only the seconds comparator (fire
// once per minute, at the given second), and each coarser frequency arms one more field.
type AlarmFrequency uint8

const (
	// AlarmCustom is returned by ReadAlarm when the register ignore bits don't form any of the patterns below, for
	// example after other software armed an unusual combination. It is a valid hardware state, but SetAlarm rejects
	// it since it names no pattern to write.
	AlarmCustom AlarmFrequency = iota
	AlarmMinutely
	AlarmHourly
	AlarmDaily
	AlarmWeekly
	AlarmMonthly
	// AlarmYearly encodes identically to AlarmMonthly: the chip has no year comparator. It reads back as
	// AlarmMonthly, and any year-level gating is the caller's job.
	AlarmYearly
)

// Alarm is an alarm time plus the frequency controlling which of its fields matter. Fields not armed by the
// frequency are ignored by the chip and may be left zero.
type Alarm struct {
	Second    int
	Minute    int
	Hour      int
	Day       int // day of month, 1-31
	Weekday   time.Weekday
	Frequency AlarmFrequency
}

// armed reports which comparators the frequency enables, in register order.
func (f AlarmFrequency) armed() (second, minute, hour, day, weekday bool) {
	switch f {
	case AlarmMinutely:
		return true, false, false, false, false
	case AlarmHourly:
		return true, true, false, false, false
	case AlarmDaily:
		return true, true, true, false, false
	case AlarmWeekly:
		return true, true, true, false, true
	case AlarmMonthly, AlarmYearly:
		return true, true, true, true, false
	}
	return false, false, false, false, false
}

func (a Alarm) check() error {
	second, minute, hour, day, weekday := a.Frequency.armed()
	switch {
	case a.Frequency == AlarmCustom || a.Frequency > AlarmYearly:
		return fmt.Errorf("frequency %d: %w", a.Frequency, ErrInvalidAlarm)
	case second && (a.Second < 0 || a.Second > 59):
		return fmt.Errorf("second %d: %w", a.Second, ErrInvalidAlarm)
	case minute && (a.Minute < 0 || a.Minute > 59):
		return fmt.Errorf("minute %d: %w", a.Minute, ErrInvalidAlarm)
	case hour && (a.Hour < 0 || a.Hour > 23):
		return fmt.Errorf("hour %d: %w", a.Hour, ErrInvalidAlarm)
	case day && (a.Day < 1 || a.Day > 31):
		return fmt.Errorf("day %d: %w", a.Day, ErrInvalidAlarm)
	case weekday && (a.Weekday < time.Sunday || a.Weekday > time.Saturday):
		return fmt.Errorf("weekday %d: %w", a.Weekday, ErrInvalidAlarm)
	}
	return nil
}

// SetAlarm writes the five alarm registers. Disarmed fields are written with their ignore bit set, so the chip skips
// them when matching. Setting an alarm does not clear a pending alarm flag; call ClearAlarm for that.
func (d *Device) SetAlarm(a Alarm) error {
	if err := a.check(); err != nil {
		return err
	}

	second, minute, hour, day, weekday := a.Frequency.armed()
	buf := []byte{
		alarmField(a.Second, second),
		alarmField(a.Minute, minute),
		alarmField(a.Hour, hour),
		alarmField(a.Day, day),
		alarmField(int(a.Weekday), weekday),
	}
	return d.bus.WriteRegister(d.Address, AlarmSecond, buf)
}

// ReadAlarm reads the alarm registers back. The frequency is recovered from the ignore-bit pattern; a pattern
// outside the ladder comes back as AlarmCustom with the field values still decoded.
func (d *Device) ReadAlarm() (Alarm, error) {
	buf := [5]byte{}
	err := d.bus.ReadRegister(d.Address, AlarmSecond, buf[:])
	if err != nil {
		return Alarm{}, err
	}

	a := Alarm{
		Second:    bcdToDec(buf[0] & 0x7F),
		Minute:    bcdToDec(buf[1] & 0x7F),
		Hour:      bcdToDec(buf[2] & 0x3F),
		Day:       bcdToDec(buf[3] & 0x3F),
		Weekday:   time.Weekday(bcdToDec(buf[4] & 0x07)),
		Frequency: AlarmCustom,
	}

	second := buf[0]&alarmIgnore == 0
	minute := buf[1]&alarmIgnore == 0
	hour := buf[2]&alarmIgnore == 0
	day := buf[3]&alarmIgnore == 0
	weekday := buf[4]&alarmIgnore == 0
	for f := AlarmMinutely; f <= AlarmMonthly; f++ {
		s, m, h, dd, wd := f.armed()
		if second == s && minute == m && hour == h && day == dd && weekday == wd {
			a.Frequency = f
			break
		}
	}
	return a, nil
}

// AlarmTriggered reports whether the chip matched the alarm time since the flag was last cleared. Reading does not
// clear the flag.
func (d *Device) AlarmTriggered() (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control2, buf[:])
	if err != nil {
		return false, err
	}
	return buf[0]&ctrl2AF != 0, nil
}

// ClearAlarm clears the alarm flag so the next match can raise it again. Only the hardware can set the flag, so
// there is no inverse operation.
func (d *Device) ClearAlarm() error {
	return d.modifyRegister(Control2, ctrl2AF, 0)
}

// SetAlarmInterrupt controls whether a pending alarm flag also asserts the INT pin.
func (d *Device) SetAlarmInterrupt(enable bool) error {
	val := uint8(0)
	if enable {
		val = ctrl2AIE
	}
	return d.modifyRegister(Control2, ctrl2AIE, val)
}

func (d *Device) AlarmInterrupt() (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control2, buf[:])
	if err != nil {
		return false, err
	}
	return buf[0]&ctrl2AIE != 0, nil
}

func alarmField(value int, armed bool) byte {
	if !armed {
		return alarmIgnore
	}
	return decToBcd(value)
}
