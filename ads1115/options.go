package ads1115

import "fmt"

// Option defines a functional option for the device.
type Option func(d *Device) (Option, error)

// Options set different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) (Option, error) {
	var old Option
	var err error
	for _, opt := range options {
		old, err = opt(d)
		if err != nil {
			return nil, err
		}
	}

	return old, nil
}

// config replaces the bits of reg outside mask with flag and returns the
// bits it replaced.
func (d *Device) config(reg byte, mask, flag uint16) (uint16, error) {
	cfg, err := d.Read(reg)
	if err != nil {
		return 0, fmt.Errorf("could not get %#x from %#x: %w", mask, reg, err)
	}
	old := cfg &^ mask
	cfg &= mask
	cfg |= flag
	if err := d.Write(reg, cfg); err != nil {
		return 0, fmt.Errorf("could not set %#x in %#x: %w", flag, reg, err)
	}

	return old, nil
}

// Input selects the single-ended input converted by ReadRaw (AIN0 to AIN3).
func Input(mux uint16) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Config, ^muxMask, mux&muxMask)
		if err != nil {
			return nil, fmt.Errorf("ads1115: could not select input: %w", err)
		}

		return Input(old), nil
	}
}

// Gain sets the full-scale range of the amplifier (FSR6144 to FSR256).
func Gain(fsr uint16) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Config, ^pgaMask, fsr&pgaMask)
		if err != nil {
			return nil, fmt.Errorf("ads1115: could not configure gain: %w", err)
		}

		return Gain(old), nil
	}
}

// DataRate sets the conversion rate (DR8 to DR860).
func DataRate(dr uint16) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Config, ^drMask, dr&drMask)
		if err != nil {
			return nil, fmt.Errorf("ads1115: could not configure data rate: %w", err)
		}

		return DataRate(old), nil
	}
}

// Mode sets single-shot or continuous conversion.
func Mode(mode uint16) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Config, ^modeMask, mode&modeMask)
		if err != nil {
			return nil, fmt.Errorf("ads1115: could not configure mode: %w", err)
		}

		return Mode(old), nil
	}
}
