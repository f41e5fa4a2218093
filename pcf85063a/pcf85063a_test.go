package pcf85063a

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/tinyrtc/drivers/tester"
)

func testDevice(c *qt.C) (Device, *tester.I2CDevice) {
	chip := tester.NewDevice(c, Address)
	bus := tester.NewBus(c, chip)
	return New(bus), chip
}

func TestSetTimeEncoding(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	err := d.SetTime(Time{
		Year: 2017, Month: time.January, Day: 9,
		Weekday: time.Sunday,
		Hour:    15, Minute: 6, Second: 0,
	})
	c.Assert(err, qt.IsNil)

	c.Assert(chip.Registers[Seconds], qt.Equals, uint8(0x00))
	c.Assert(chip.Registers[Seconds+1], qt.Equals, uint8(0x06))
	c.Assert(chip.Registers[Seconds+2], qt.Equals, uint8(0x15))
	c.Assert(chip.Registers[Seconds+3], qt.Equals, uint8(0x09))
	c.Assert(chip.Registers[Seconds+4], qt.Equals, uint8(0x00))
	c.Assert(chip.Registers[Seconds+5], qt.Equals, uint8(0x01))
	c.Assert(chip.Registers[Seconds+6], qt.Equals, uint8(0x17))
}

func TestTimeRoundTrip(t *testing.T) {
	c := qt.New(t)
	d, _ := testDevice(c)

	times := []Time{
		{Year: 2017, Month: time.January, Day: 9, Weekday: time.Sunday, Hour: 15, Minute: 6, Second: 0},
		{Year: 2000, Month: time.January, Day: 1, Weekday: time.Saturday, Hour: 0, Minute: 0, Second: 0},
		{Year: 2099, Month: time.December, Day: 31, Weekday: time.Thursday, Hour: 23, Minute: 59, Second: 59},
		{Year: 2150, Month: time.June, Day: 15, Weekday: time.Wednesday, Hour: 12, Minute: 34, Second: 56},
	}
	for _, want := range times {
		c.Assert(d.SetTime(want), qt.IsNil)
		got, valid, err := d.ReadTime()
		c.Assert(err, qt.IsNil)
		c.Assert(valid, qt.IsTrue)
		c.Assert(got, qt.DeepEquals, want)
	}
}

func TestSetTimeRejectsOutOfRange(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	base := Time{Year: 2020, Month: time.March, Day: 14, Weekday: time.Saturday, Hour: 9, Minute: 26, Second: 53}
	bad := []func(*Time){
		func(t *Time) { t.Year = 1999 },
		func(t *Time) { t.Year = 2200 },
		func(t *Time) { t.Month = 0 },
		func(t *Time) { t.Month = 13 },
		func(t *Time) { t.Day = 0 },
		func(t *Time) { t.Day = 32 },
		func(t *Time) { t.Weekday = 7 },
		func(t *Time) { t.Hour = 24 },
		func(t *Time) { t.Minute = 60 },
		func(t *Time) { t.Second = 60 },
	}
	for _, mutate := range bad {
		tm := base
		mutate(&tm)
		err := d.SetTime(tm)
		c.Assert(errors.Is(err, ErrInvalidTime), qt.IsTrue)
	}
	// a rejected set never reaches the bus
	c.Assert(chip.Writes, qt.Equals, 0)
	c.Assert(chip.Reads, qt.Equals, 0)
}

func TestOscillatorStoppedFlag(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	chip.Registers[Seconds] = osFlag | 0x42

	lost, err := d.LostPower()
	c.Assert(err, qt.IsNil)
	c.Assert(lost, qt.IsTrue)

	got, valid, err := d.ReadTime()
	c.Assert(err, qt.IsNil)
	c.Assert(valid, qt.IsFalse)
	c.Assert(got.Second, qt.Equals, 42)

	// setting the time asserts clock integrity again
	err = d.SetTime(Time{Year: 2021, Month: time.May, Day: 1, Weekday: time.Saturday})
	c.Assert(err, qt.IsNil)
	c.Assert(chip.Registers[Seconds]&osFlag, qt.Equals, uint8(0))

	lost, err = d.LostPower()
	c.Assert(err, qt.IsNil)
	c.Assert(lost, qt.IsFalse)

	_, valid, err = d.ReadTime()
	c.Assert(err, qt.IsNil)
	c.Assert(valid, qt.IsTrue)
}

func TestSetTimePreservesControl1(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	// stop bit and 12-hour mode set, interrupt and capacitance bits set
	chip.Registers[Control1] = 0b0010_0111

	err := d.SetTime(Time{Year: 2022, Month: time.July, Day: 4, Weekday: time.Monday})
	c.Assert(err, qt.IsNil)
	// stop and 12-hour cleared, everything else untouched
	c.Assert(chip.Registers[Control1], qt.Equals, uint8(0b0000_0101))
}

func TestCenturyBit(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	want := Time{Year: 2117, Month: time.October, Day: 29, Weekday: time.Friday, Hour: 3, Minute: 14, Second: 15}
	c.Assert(d.SetTime(want), qt.IsNil)
	c.Assert(chip.Registers[Seconds+5], qt.Equals, uint8(0x10|centuryFlag))
	c.Assert(chip.Registers[Seconds+6], qt.Equals, uint8(0x17))

	got, valid, err := d.ReadTime()
	c.Assert(err, qt.IsNil)
	c.Assert(valid, qt.IsTrue)
	c.Assert(got, qt.DeepEquals, want)
}

func TestWeekdayStoredVerbatim(t *testing.T) {
	c := qt.New(t)
	d, _ := testDevice(c)

	// 2017-01-09 was a Monday, but the chip never checks
	tm := Time{Year: 2017, Month: time.January, Day: 9, Weekday: time.Sunday, Hour: 15, Minute: 6}
	c.Assert(d.SetTime(tm), qt.IsNil)
	got, _, err := d.ReadTime()
	c.Assert(err, qt.IsNil)
	c.Assert(got.Weekday, qt.Equals, time.Sunday)
}

func TestStdConversions(t *testing.T) {
	c := qt.New(t)

	std := time.Date(2017, time.January, 9, 15, 6, 0, 0, time.UTC)
	tm := FromStd(std)
	c.Assert(tm, qt.DeepEquals, Time{
		Year: 2017, Month: time.January, Day: 9,
		Weekday: time.Monday,
		Hour:    15, Minute: 6, Second: 0,
	})
	c.Assert(tm.Std(), qt.Equals, std)
}

func TestReset(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	c.Assert(d.Reset(), qt.IsNil)
	c.Assert(chip.Registers[Control1], qt.Equals, uint8(0x58))
}

func TestHighCapacitance(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	chip.Registers[Control1] = 0b0010_0100

	c.Assert(d.SetHighCapacitance(true), qt.IsNil)
	c.Assert(chip.Registers[Control1], qt.Equals, uint8(0b0010_0101))

	high, err := d.HighCapacitance()
	c.Assert(err, qt.IsNil)
	c.Assert(high, qt.IsTrue)

	c.Assert(d.SetHighCapacitance(false), qt.IsNil)
	c.Assert(chip.Registers[Control1], qt.Equals, uint8(0b0010_0100))
}

func TestOffset(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	c.Assert(d.SetOffset(-10, true), qt.IsNil)
	c.Assert(chip.Registers[Offset], qt.Equals, uint8(0xF6))

	offset, perMinute, err := d.GetOffset()
	c.Assert(err, qt.IsNil)
	c.Assert(offset, qt.Equals, int8(-10))
	c.Assert(perMinute, qt.IsTrue)

	c.Assert(d.SetOffset(63, false), qt.IsNil)
	offset, perMinute, err = d.GetOffset()
	c.Assert(err, qt.IsNil)
	c.Assert(offset, qt.Equals, int8(63))
	c.Assert(perMinute, qt.IsFalse)

	err = d.SetOffset(-65, false)
	c.Assert(errors.Is(err, ErrInvalidOffset), qt.IsTrue)
}

func TestRAMByte(t *testing.T) {
	c := qt.New(t)
	d, _ := testDevice(c)

	c.Assert(d.WriteRAM(0xA5), qt.IsNil)
	b, err := d.ReadRAM()
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.Equals, uint8(0xA5))
}

func TestBusErrorsPropagate(t *testing.T) {
	c := qt.New(t)
	d, chip := testDevice(c)

	busErr := errors.New("i2c: no ack")
	chip.Err = busErr

	_, _, err := d.ReadTime()
	c.Assert(err, qt.Equals, busErr)
	err = d.SetTime(Time{Year: 2020, Month: time.March, Day: 14, Weekday: time.Saturday})
	c.Assert(err, qt.Equals, busErr)
	_, err = d.LostPower()
	c.Assert(err, qt.Equals, busErr)
	_, err = d.ReadAlarm()
	c.Assert(err, qt.Equals, busErr)
	err = d.SetAlarm(Alarm{Frequency: AlarmMinutely})
	c.Assert(err, qt.Equals, busErr)
	_, err = d.AlarmTriggered()
	c.Assert(err, qt.Equals, busErr)
	err = d.ClearAlarm()
	c.Assert(err, qt.Equals, busErr)
	_, err = d.TimerElapsed()
	c.Assert(err, qt.Equals, busErr)
	err = d.StartTimer(10, TimerFreq1Hz, false, false)
	c.Assert(err, qt.Equals, busErr)
	_, err = d.ReadRAM()
	c.Assert(err, qt.Equals, busErr)
}

func TestBCDHelpers(t *testing.T) {
	c := qt.New(t)
	for dec := 0; dec < 100; dec++ {
		bcd := decToBcd(dec)
		c.Assert(bcd&0x0F, qt.Equals, uint8(dec%10))
		c.Assert(bcd>>4, qt.Equals, uint8(dec/10))
		c.Assert(bcdToDec(bcd), qt.Equals, dec)
	}
}
