package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/cgxeiji/tapclock"
	"github.com/cgxeiji/tapclock/ads1115"
	"github.com/cgxeiji/tapclock/inputs"
	"github.com/cgxeiji/tapclock/internal/config"
	"github.com/cgxeiji/tapclock/internal/monitoring"
	"github.com/cgxeiji/tapclock/internal/timeutil"
	"github.com/cgxeiji/tapclock/midiclock"
	"github.com/cgxeiji/tapclock/pulse"
	"github.com/cgxeiji/tapclock/settings"
)

func main() {
	configPath := flag.String("config", "", "JSON configuration file (defaults to the reference board)")
	debug := flag.Bool("debug", false, "enable debug logging (adds source location)")
	channel := flag.Int("midi-channel", 0, "store a new MIDI channel (1-16) before starting")
	flag.Parse()

	monitoring.Init(*debug)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *channel); err != nil && !errors.Is(err, context.Canceled) {
		monitoring.Logger.Error("tapclock stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, channel int) error {
	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	prefs, err := store.Load()
	if err != nil {
		return err
	}
	if channel != 0 {
		if channel < 1 || channel > 16 {
			return fmt.Errorf("MIDI channel %d out of range 1 to 16", channel)
		}
		prefs.MIDIChannel = uint8(channel)
		if err := store.Save(prefs); err != nil {
			return err
		}
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("could not initialize host: %w", err)
	}

	gen, err := newPulse(cfg)
	if err != nil {
		return err
	}
	defer gen.Reset()

	timer := timeutil.NewMicros()
	clock := tapclock.NewClock(tapclock.InitialDivision(cfg.InitialDivision()))

	var dev *tapclock.Device
	post := func(e tapclock.Event) {
		if err := dev.Post(e); err != nil {
			monitoring.Logger.Warn("dropped event", "event", e.Kind, "err", err)
		}
	}

	pollers := []tapclock.Poller{gen}
	if p, err := potPoller(cfg, post); err != nil {
		monitoring.Logger.Warn("division pot disabled", "err", err)
	} else {
		pollers = append(pollers, p)
	}
	if p, err := modePoller(cfg); err != nil {
		monitoring.Logger.Warn("mode switch disabled", "err", err)
	} else {
		pollers = append(pollers, p)
	}

	dev = tapclock.New(gen,
		tapclock.WithClock(clock),
		tapclock.PollInterval(cfg.PollInterval()),
		tapclock.WithPollers(pollers...),
	)

	monitoring.Logger.Info("tapclock starting",
		"division", clock.Division(),
		"midi_channel", prefs.MIDIChannel,
		"midi_port", cfg.MIDIPort,
		"tap_pin", cfg.TapPin,
		"pulse_pin", cfg.PulsePin,
	)

	var fs *inputs.Footswitch
	if cfg.TapPin != "" {
		pin := gpioreg.ByName(cfg.TapPin)
		if pin == nil {
			return fmt.Errorf("no GPIO pin %q", cfg.TapPin)
		}
		if fs, err = inputs.NewFootswitch(pin, timer, cfg.DebounceHoldoff().Microseconds()); err != nil {
			return err
		}
	}

	var reader *midiclock.Reader
	if cfg.MIDIPort != "" {
		port, err := midiclock.Open(cfg.MIDIPort, midiclock.PortOptions{})
		if err != nil {
			return err
		}
		defer port.Close()

		if reader, err = midiclock.NewReader(port, prefs.MIDIChannel); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dev.Run(ctx) })
	if fs != nil {
		g.Go(func() error {
			return fs.Watch(ctx, func(at int64) { post(tapclock.TapAt(at)) })
		})
	}
	if reader != nil {
		g.Go(func() error {
			return reader.Listen(ctx, midiclock.Handlers{
				Clock: func() { post(tapclock.TapAt(timer.Now())) },
				Start: func() { post(tapclock.Restart()) },
				Stop:  func() { post(tapclock.Restart()) },
				ProgramChange: func(program uint8) {
					if d := tapclock.Division(program); d.Valid() {
						post(tapclock.Select(d))
					}
				},
			})
		})
	}

	return g.Wait()
}

func newPulse(cfg *config.Config) (*pulse.Generator, error) {
	pin := gpioreg.ByName(cfg.PulsePin)
	if pin == nil {
		return nil, fmt.Errorf("no GPIO pin %q", cfg.PulsePin)
	}

	opts := []pulse.Option{
		pulse.Duration(cfg.PulseDuration()),
		pulse.ActiveLow(cfg.PulseLow),
	}
	if cfg.LEDPin != "" {
		if led := gpioreg.ByName(cfg.LEDPin); led != nil {
			opts = append(opts, pulse.LED(led))
		}
	}

	return pulse.New(pin, opts...)
}

// potPoller reads the division pot every 50ms and selects the division of
// the segment it rests in.
func potPoller(cfg *config.Config, post func(tapclock.Event)) (tapclock.Poller, error) {
	adc, err := ads1115.New(cfg.I2CBus, cfg.ADCAddr)
	if err != nil {
		return nil, err
	}

	read := func() (int, error) {
		raw, err := adc.ReadRaw()
		if err != nil {
			return 0, err
		}
		return int(raw) * 1024 / cfg.PotFullScale, nil
	}

	initial, err := read()
	if err != nil {
		adc.Close()
		return nil, err
	}
	segments, err := inputs.NewAnalogSegments(len(tapclock.Divisions()), initial)
	if err != nil {
		adc.Close()
		return nil, err
	}
	listener := inputs.NewChangeListener(segments.Read(initial), func(seg int) {
		post(tapclock.Select(tapclock.Division(seg)))
	})

	var last time.Time
	return tapclock.PollerFunc(func() error {
		if time.Since(last) < 50*time.Millisecond {
			return nil
		}
		last = time.Now()

		v, err := read()
		if err != nil {
			return err
		}
		listener.Observe(segments.Read(v))
		return nil
	}), nil
}

// modePoller reports mode switch changes.
func modePoller(cfg *config.Config) (tapclock.Poller, error) {
	var pins [4]gpio.PinIn
	for i, name := range cfg.ModePins {
		if pins[i] = gpioreg.ByName(name); pins[i] == nil {
			return nil, fmt.Errorf("no GPIO pin %q", name)
		}
	}

	enc, err := inputs.NewModeEncoder(pins[0], pins[1], pins[2], pins[3])
	if err != nil {
		return nil, err
	}
	listener := inputs.NewChangeListener(enc.Read(), func(m inputs.DelayMode) {
		monitoring.Logger.Info("mode", "mode", m)
	})
	monitoring.Logger.Info("mode", "mode", listener.Last())

	return tapclock.PollerFunc(func() error {
		listener.Observe(enc.Read())
		return nil
	}), nil
}
