// Package settings persists the device settings in a byte-addressed store
// laid out like the pedal EEPROM.
package settings

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Addresses of the settings in the store.
const (
	AddrMIDIChannel uint16 = 0x0000
)

// erased is the value of a byte never written.
const erased = 0xFF

const schema = `CREATE TABLE IF NOT EXISTS eeprom (
	address INTEGER PRIMARY KEY,
	value   INTEGER NOT NULL CHECK (value BETWEEN 0 AND 255)
)`

// Settings are the user settings of the device.
type Settings struct {
	// MIDIChannel is the channel program changes are received on, 1 to 16.
	MIDIChannel uint8
}

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{MIDIChannel: 1}
}

// Store is a byte-addressed persistent store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("settings: could not open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: could not create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Byte returns the byte at addr. Bytes never written read as 0xFF.
func (s *Store) Byte(addr uint16) (byte, error) {
	var v int
	err := s.db.QueryRow(`SELECT value FROM eeprom WHERE address = ?`, addr).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return erased, nil
	}
	if err != nil {
		return 0, fmt.Errorf("settings: could not read %#04x: %w", addr, err)
	}

	return byte(v), nil
}

// UpdateByte writes v at addr unless it is already stored there.
func (s *Store) UpdateByte(addr uint16, v byte) error {
	_, err := s.db.Exec(`INSERT INTO eeprom (address, value) VALUES (?, ?)
		ON CONFLICT(address) DO UPDATE SET value = excluded.value
		WHERE value != excluded.value`, addr, v)
	if err != nil {
		return fmt.Errorf("settings: could not write %#04x: %w", addr, err)
	}

	return nil
}

// Load reads the settings. Out of range values fall back to the defaults.
func (s *Store) Load() (Settings, error) {
	cfg := Defaults()

	ch, err := s.Byte(AddrMIDIChannel)
	if err != nil {
		return cfg, err
	}
	if ch >= 1 && ch <= 16 {
		cfg.MIDIChannel = ch
	}

	return cfg, nil
}

// Save writes the settings.
func (s *Store) Save(cfg Settings) error {
	if cfg.MIDIChannel < 1 || cfg.MIDIChannel > 16 {
		return fmt.Errorf("settings: MIDI channel %d out of range 1 to 16", cfg.MIDIChannel)
	}
	return s.UpdateByte(AddrMIDIChannel, cfg.MIDIChannel)
}
