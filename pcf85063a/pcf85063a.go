// Package pcf85063a implements a driver for the PCF85063A Real-Time Clock (RTC), providing read-write of the current
// time, a single alarm with per-field match control, the countdown timer, CLKOUT selection, offset calibration, and
// the chip's free RAM byte.
//
// The time and alarm registers hold BCD values. Out-of-range fields are rejected before any bus traffic, so a failed
// set never partially touches the chip. The driver keeps no state besides the bus handle; the chip's registers are the
// single source of truth, and callers sharing one bus between goroutines must serialize access themselves.
//
// Datasheet: https://www.nxp.com/docs/en/data-sheet/PCF85063A.pdf
package pcf85063a

import (
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

var (
	ErrInvalidTime   = errors.New("pcf85063a: time field out of range")
	ErrInvalidAlarm  = errors.New("pcf85063a: alarm field out of range")
	ErrInvalidOffset = errors.New("pcf85063a: calibration offset out of range")
)

type Device struct {
	bus     drivers.I2C
	Address uint8
}

// Time is a calendar time as the chip stores it. Weekday is free-running: the chip increments it daily but never
// checks it against the date, and neither does this driver. Whatever the caller stores is what comes back.
type Time struct {
	Year    int // full year, 2000 through 2199
	Month   time.Month
	Day     int
	Weekday time.Weekday
	Hour    int // 24-hour clock
	Minute  int
	Second  int
}

// New creates a new driver on the specified preconfigured I2C bus. The datasheet claims a maximum speed of 400 kHz.
//
// This function only creates the Device object, it does not touch the device.
func New(i2c drivers.I2C) Device {
	return Device{
		bus:     i2c,
		Address: Address,
	}
}

// FromStd converts a time.Time to a Time, deriving the weekday from the date.
func FromStd(t time.Time) Time {
	return Time{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Weekday: t.Weekday(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
	}
}

// Std converts t to a time.Time in UTC. The stored weekday is not carried over; time.Time derives its own from the
// date.
func (t Time) Std() time.Time {
	return time.Date(t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, 0, time.UTC)
}

func (t Time) check() error {
	switch {
	case t.Year < 2000 || t.Year > 2199:
		return fmt.Errorf("year %d: %w", t.Year, ErrInvalidTime)
	case t.Month < time.January || t.Month > time.December:
		return fmt.Errorf("month %d: %w", t.Month, ErrInvalidTime)
	case t.Day < 1 || t.Day > 31:
		return fmt.Errorf("day %d: %w", t.Day, ErrInvalidTime)
	case t.Weekday < time.Sunday || t.Weekday > time.Saturday:
		return fmt.Errorf("weekday %d: %w", t.Weekday, ErrInvalidTime)
	case t.Hour < 0 || t.Hour > 23:
		return fmt.Errorf("hour %d: %w", t.Hour, ErrInvalidTime)
	case t.Minute < 0 || t.Minute > 59:
		return fmt.Errorf("minute %d: %w", t.Minute, ErrInvalidTime)
	case t.Second < 0 || t.Second > 59:
		return fmt.Errorf("second %d: %w", t.Second, ErrInvalidTime)
	}
	return nil
}

// SetTime sets the clock. Writing the seconds register clears the oscillator-stopped flag, so a successful SetTime
// also marks the stored time as trustworthy again after a power loss.
func (d *Device) SetTime(t Time) error {
	if err := t.check(); err != nil {
		return err
	}

	// ensure the clock is running and 24-hour mode is selected, without touching the other control bits
	err := d.modifyRegister(Control1, ctrl1Stop|ctrl1Mode12, 0)
	if err != nil {
		return err
	}

	year := t.Year - 2000
	century := uint8(0)
	if year >= 100 {
		year -= 100
		century = centuryFlag
	}

	buf := []byte{
		decToBcd(t.Second), // OS bit written as zero
		decToBcd(t.Minute),
		decToBcd(t.Hour),
		decToBcd(t.Day),
		decToBcd(int(t.Weekday)),
		decToBcd(int(t.Month)) | century,
		decToBcd(year),
	}
	return d.bus.WriteRegister(d.Address, Seconds, buf)
}

// ReadTime reads the current time. valid is false when the oscillator stopped since the time was last set (for
// example after total power loss); the returned time is still decoded but cannot be trusted until SetTime is called.
func (d *Device) ReadTime() (t Time, valid bool, err error) {
	buf := [7]byte{}
	err = d.bus.ReadRegister(d.Address, Seconds, buf[:])
	if err != nil {
		return Time{}, false, err
	}

	valid = buf[0]&osFlag == 0
	t = Time{
		Second:  bcdToDec(buf[0] & 0x7F),
		Minute:  bcdToDec(buf[1] & 0x7F),
		Hour:    bcdToDec(buf[2] & 0x3F),
		Day:     bcdToDec(buf[3] & 0x3F),
		Weekday: time.Weekday(bcdToDec(buf[4] & 0x07)),
		Month:   time.Month(bcdToDec(buf[5] & 0x1F)),
		Year:    bcdToDec(buf[6]) + 2000,
	}
	if buf[5]&centuryFlag != 0 {
		t.Year += 100
	}
	return t, valid, nil
}

// LostPower reports whether the oscillator stopped since the time was last set. It reads the flag without clearing
// it; only SetTime clears it.
func (d *Device) LostPower() (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Seconds, buf[:])
	if err != nil {
		return false, err
	}
	return buf[0]&osFlag != 0, nil
}

// Reset performs the datasheet software reset. All control registers return to their power-on defaults; the time
// registers become invalid until the next SetTime.
func (d *Device) Reset() error {
	return d.bus.WriteRegister(d.Address, Control1, []byte{ctrl1ResetKey})
}

// SetHighCapacitance selects 12.5pF oscillator load capacitance instead of the default 7pF. Which one is correct
// depends on the crystal on the board.
func (d *Device) SetHighCapacitance(high bool) error {
	val := uint8(0)
	if high {
		val = ctrl1CapSel
	}
	return d.modifyRegister(Control1, ctrl1CapSel, val)
}

func (d *Device) HighCapacitance() (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control1, buf[:])
	if err != nil {
		return false, err
	}
	return buf[0]&ctrl1CapSel != 0, nil
}

// SetOffset sets the aging/temperature correction, -64 to +63 steps. With perMinute false the correction is applied
// every two hours (one step = 4.34 ppm); with perMinute true every four minutes (one step = 4.069 ppm), at a higher
// supply current. See the datasheet offset calibration workflow for choosing a value.
func (d *Device) SetOffset(offset int8, perMinute bool) error {
	if offset < -64 || offset > 63 {
		return fmt.Errorf("offset %d: %w", offset, ErrInvalidOffset)
	}
	val := uint8(offset) & offsetValueMask
	if perMinute {
		val |= offsetMode
	}
	return d.bus.WriteRegister(d.Address, Offset, []byte{val})
}

// GetOffset returns the current correction value and whether it is applied every four minutes rather than every two
// hours.
func (d *Device) GetOffset() (offset int8, perMinute bool, err error) {
	buf := [1]byte{}
	err = d.bus.ReadRegister(d.Address, Offset, buf[:])
	if err != nil {
		return 0, false, err
	}
	offset = int8(buf[0] << 1) >> 1 // sign-extend the 7-bit field
	return offset, buf[0]&offsetMode != 0, nil
}

// ReadRAM reads the chip's single byte of battery-backed scratch RAM.
func (d *Device) ReadRAM() (byte, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, RAM, buf[:])
	return buf[0], err
}

// WriteRAM writes the chip's single byte of battery-backed scratch RAM.
func (d *Device) WriteRAM(b byte) error {
	return d.bus.WriteRegister(d.Address, RAM, []byte{b})
}

// modifyRegister updates only the masked bits of reg, preserving the rest. One read plus one write on the bus.
func (d *Device) modifyRegister(reg uint8, mask, value uint8) error {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, reg, buf[:])
	if err != nil {
		return err
	}
	buf[0] = buf[0]&^mask | value&mask
	return d.bus.WriteRegister(d.Address, reg, buf[:])
}

// decToBcd converts int to BCD
func decToBcd(dec int) uint8 {
	return uint8(dec + 6*(dec/10))
}

// bcdToDec converts BCD to int
func bcdToDec(bcd uint8) int {
	return int(bcd - 6*(bcd>>4))
}
