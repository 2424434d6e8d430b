package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML strategy file and returns the Config with the raw
// bytes. KnownFields(true) makes typos and stale fields fail
// immediately instead of silently falling through to defaults.
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, data, err
	}

	return cfg, data, nil
}

// LoadOrDefault loads the strategy file, degrading to Default() on any
// failure. The returned error reports what went wrong so the caller can
// log it once; the run itself proceeds with defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, _, err := Load(path)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Hash generates the SHA-256 hash of a Config via canonical JSON.
// Structs, not maps, keep field order deterministic so the same config
// always hashes the same.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
