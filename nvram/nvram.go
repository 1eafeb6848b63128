// Package nvram provides byte-addressable non-volatile stores for the patch
// table: an in-memory array and a file holding an EEPROM image.
package nvram

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrAddress is returned for reads and writes outside the store
var ErrAddress = errors.New("nvram: address out of range")

// Memory is a volatile store, useful for demos and tests
type Memory struct {
	data []byte
}

func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

func (m *Memory) Byte(addr int) (byte, error) {
	if addr < 0 || addr >= len(m.data) {
		return 0, fmt.Errorf("read %d: %w", addr, ErrAddress)
	}
	return m.data[addr], nil
}

func (m *Memory) SetByte(addr int, b byte) error {
	if addr < 0 || addr >= len(m.data) {
		return fmt.Errorf("write %d: %w", addr, ErrAddress)
	}
	m.data[addr] = b
	return nil
}

func (m *Memory) Size() int {
	return len(m.data)
}

// File is an EEPROM image on disk. The whole image is cached; a write only
// touches the disk when the byte actually changes, and is synced before
// SetByte returns.
type File struct {
	mu    sync.Mutex
	f     *os.File
	cache []byte
}

// DefaultPath returns ~/.config/loopswitch/patches.bin
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "loopswitch", "patches.bin"), nil
}

// OpenFile opens or creates an image of size bytes. A new or short image is
// zero filled up to size.
func OpenFile(path string, size int) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat image: %w", err)
	}

	cache := make([]byte, size)
	if _, err := f.ReadAt(cache[:min(int(info.Size()), size)], 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("read image: %w", err)
	}

	if info.Size() < int64(size) {
		if _, err := f.WriteAt(cache[info.Size():], info.Size()); err != nil {
			f.Close()
			return nil, fmt.Errorf("extend image: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync image: %w", err)
		}
	}

	return &File{f: f, cache: cache}, nil
}

func (s *File) Byte(addr int) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr < 0 || addr >= len(s.cache) {
		return 0, fmt.Errorf("read %d: %w", addr, ErrAddress)
	}
	return s.cache[addr], nil
}

func (s *File) SetByte(addr int, b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr < 0 || addr >= len(s.cache) {
		return fmt.Errorf("write %d: %w", addr, ErrAddress)
	}
	if s.cache[addr] == b {
		return nil
	}
	if _, err := s.f.WriteAt([]byte{b}, int64(addr)); err != nil {
		return fmt.Errorf("write %d: %w", addr, err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	s.cache[addr] = b
	return nil
}

func (s *File) Size() int {
	return len(s.cache)
}

func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
