package ads1115

// Register addresses
const (
	Conversion = 0x00
	Config     = 0x01
	LoThresh   = 0x02
	HiThresh   = 0x03
)

// Device constants
const (
	Addr = 0x48
)

// Config register fields
const (
	// OS starts a single-shot conversion when written and reads 1 while
	// no conversion is in progress.
	OS uint16 = 1 << 15

	ModeSingleShot uint16 = 1 << 8
	ModeContinuous uint16 = 0

	CompQueueDisable uint16 = 0b11

	muxMask  uint16 = 0b0_111_000_0_000_0_0_0_00
	pgaMask  uint16 = 0b0_000_111_0_000_0_0_0_00
	modeMask uint16 = 0b0_000_000_1_000_0_0_0_00
	drMask   uint16 = 0b0_000_000_0_111_0_0_0_00
)

// Input multiplexer, single-ended against GND
const (
	AIN0 = (0b100 + iota) << 12
	AIN1
	AIN2
	AIN3
)

// Programmable gain amplifier full-scale range
const (
	FSR6144 = iota << 9
	FSR4096
	FSR2048
	FSR1024
	FSR512
	FSR256
)

// Data rate in samples per second
const (
	DR8 = iota << 5
	DR16
	DR32
	DR64
	DR128
	DR250
	DR475
	DR860
)

// defaultConfig reads AIN0 single-shot at ±4.096V and 860 samples/s, with
// the comparator disabled.
const defaultConfig = AIN0 | FSR4096 | ModeSingleShot | DR860 | CompQueueDisable
