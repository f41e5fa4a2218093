// Package tester provides a simulated I2C bus for driver unit tests. Devices are plain register files addressed the
// way a real register-pointer chip would be, with hooks to inject bus failures and to count transactions.
package tester

import (
	"tinygo.org/x/drivers"
)

// Failer is the testing.TB subset the tester needs, so tests fail in place when a driver addresses a device that was
// never attached or runs past the end of the register file.
type Failer interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// I2CDevice is one simulated chip on the bus: 256 eight-bit registers behind a 7-bit address.
type I2CDevice struct {
	c    Failer
	Addr uint8
	// Registers is the device's register file. Tests seed it before a call and inspect it after.
	Registers [256]uint8
	// Err, when non-nil, makes every transaction touching this device fail with it, simulating a bus error such as
	// a missing acknowledge or a timeout.
	Err error
	// Reads and Writes count completed bus transactions against this device.
	Reads  int
	Writes int
}

// NewDevice returns a device with a zeroed register file, as after power-on reset.
func NewDevice(c Failer, addr uint8) *I2CDevice {
	return &I2CDevice{c: c, Addr: addr}
}

// I2CBus implements drivers.I2C over a set of simulated devices.
type I2CBus struct {
	c       Failer
	devices []*I2CDevice
}

var _ drivers.I2C = (*I2CBus)(nil)

func NewBus(c Failer, devices ...*I2CDevice) *I2CBus {
	return &I2CBus{c: c, devices: devices}
}

func (b *I2CBus) find(addr uint8) *I2CDevice {
	for _, d := range b.devices {
		if d.Addr == addr {
			return d
		}
	}
	b.c.Helper()
	b.c.Fatalf("tester: no I2C device at address %#x", addr)
	return nil
}

func (b *I2CBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	d := b.find(addr)
	if d.Err != nil {
		return d.Err
	}
	if int(reg)+len(buf) > len(d.Registers) {
		b.c.Helper()
		b.c.Fatalf("tester: read of %d bytes at register %#x runs past the register file", len(buf), reg)
	}
	copy(buf, d.Registers[reg:int(reg)+len(buf)])
	d.Reads++
	return nil
}

func (b *I2CBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	d := b.find(addr)
	if d.Err != nil {
		return d.Err
	}
	if int(reg)+len(buf) > len(d.Registers) {
		b.c.Helper()
		b.c.Fatalf("tester: write of %d bytes at register %#x runs past the register file", len(buf), reg)
	}
	copy(d.Registers[reg:], buf)
	d.Writes++
	return nil
}

// Tx implements the raw transaction form: w[0] is the register pointer, the rest of w is written there, then r is
// filled starting from the pointer.
func (b *I2CBus) Tx(addr uint16, w, r []byte) error {
	d := b.find(uint8(addr))
	if d.Err != nil {
		return d.Err
	}
	reg := uint8(0)
	if len(w) > 0 {
		reg = w[0]
		if len(w) > 1 {
			copy(d.Registers[reg:], w[1:])
			d.Writes++
		}
	}
	if len(r) > 0 {
		copy(r, d.Registers[reg:int(reg)+len(r)])
		d.Reads++
	}
	return nil
}
