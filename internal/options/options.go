// Package options is the key/value store user-configurable behaviour is
// read from. Values come from an optional YAML file next to the program.
package options

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultFilename = "hostwin.yml"

const (
	RawInput       = "raw-input"
	GrabCursor     = "grab-cursor"
	ContentOffsetX = "content-offset-x"
	ContentOffsetY = "content-offset-y"
	WindowWidth    = "window-width"
	WindowHeight   = "window-height"
	PadDevice      = "pad-device"
	PointerDevice  = "pointer-device"
	FramebufferDev = "fb-device"
)

// maxFileSize guards against loading something that is clearly not a
// settings file.
const maxFileSize = 1 << 20

type Store struct {
	values map[string]string
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Load reads path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := New()
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("no options file", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("stat options: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("options file %s too large (%d bytes)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	if err := s.Parse(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Parse merges a YAML mapping of scalar values into the store.
func (s *Store) Parse(data []byte) error {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return fmt.Errorf("option %q: expected a scalar value", key)
		}
		s.values[strings.ToLower(key)] = node.Value
	}
	return nil
}

func (s *Store) Set(key, value string) { s.values[strings.ToLower(key)] = value }

func (s *Store) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[strings.ToLower(key)]
	return v, ok
}

func (s *Store) GetString(key, def string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

func (s *Store) GetBool(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	slog.Warn("invalid boolean option", "key", key, "value", v)
	return def
}

func (s *Store) GetInt(key string, def int) int {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer option", "key", key, "value", v)
		return def
	}
	return n
}

// Save writes the store back as YAML.
func (s *Store) Save(path string) error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	return nil
}
