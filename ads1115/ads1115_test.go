package ads1115

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/i2c/i2ctest"
)

func initOps() []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: Addr, W: []byte{Config}, R: []byte{0x85, 0x83}},
		{Addr: Addr, W: []byte{Config, 0x43, 0xE3}},
	}
}

func TestNewOnBus(t *testing.T) {
	bus := &i2ctest.Playback{Ops: initOps()}
	d, err := NewOnBus(bus, 0)
	require.NoError(t, err)
	d.Close()
	assert.NoError(t, bus.Close())
}

func TestReadRaw(t *testing.T) {
	ops := append(initOps(),
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0x43, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config, 0xC3, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0x43, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0xC3, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Conversion}, R: []byte{0x12, 0x34}},
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0xC3, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config, 0xC3, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0xC3, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Conversion}, R: []byte{0xFF, 0xFE}},
	)
	bus := &i2ctest.Playback{Ops: ops}
	d, err := NewOnBus(bus, Addr)
	require.NoError(t, err)

	v, err := d.ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, int16(0x1234), v)

	v, err = d.ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), v)

	assert.NoError(t, bus.Close())
}

func TestReadRaw_Timeout(t *testing.T) {
	ops := append(initOps(),
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0x43, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config, 0xC3, 0xE3}},
	)
	for i := 0; i < maxPolls; i++ {
		ops = append(ops, i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0x43, 0xE3}})
	}
	bus := &i2ctest.Playback{Ops: ops}
	d, err := NewOnBus(bus, Addr)
	require.NoError(t, err)

	_, err = d.ReadRaw()
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NoError(t, bus.Close())
}

func TestOptions(t *testing.T) {
	ops := append(initOps(),
		// Gain(FSR2048)
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0x43, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config, 0x45, 0xE3}},
		// Input(AIN2)
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0x45, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config, 0x65, 0xE3}},
		// restore Input(AIN0)
		i2ctest.IO{Addr: Addr, W: []byte{Config}, R: []byte{0x65, 0xE3}},
		i2ctest.IO{Addr: Addr, W: []byte{Config, 0x45, 0xE3}},
	)
	bus := &i2ctest.Playback{Ops: ops}
	d, err := NewOnBus(bus, Addr)
	require.NoError(t, err)

	restore, err := d.Options(Gain(FSR2048), Input(AIN2))
	require.NoError(t, err)
	_, err = d.Options(restore)
	require.NoError(t, err)

	assert.NoError(t, bus.Close())
}
