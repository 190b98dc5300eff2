package keystore

import (
	"fmt"
	"os"
)

// Source is where PEM encoded key material comes from. Name identifies the
// source in the Store cache and in error messages, so two sources with the
// same name are considered the same key.
type Source interface {
	Name() string
	Read() ([]byte, error)
}

var (
	_ Source = FileSource("")
	_ Source = EnvSource("")
	_ Source = BytesSource{}
)

// FileSource reads a PEM file from disk.
type FileSource string

func (f FileSource) Name() string { return "file:" + string(f) }

func (f FileSource) Read() ([]byte, error) {
	return os.ReadFile(string(f))
}

// EnvSource reads PEM text from an environment variable.
type EnvSource string

func (e EnvSource) Name() string { return "env:" + string(e) }

func (e EnvSource) Read() ([]byte, error) {
	v, ok := os.LookupEnv(string(e))
	if !ok || v == "" {
		return nil, fmt.Errorf("environment variable %s is not set", string(e))
	}
	return []byte(v), nil
}

// BytesSource serves key material already held in memory.
type BytesSource struct {
	ID  string
	PEM []byte
}

func (b BytesSource) Name() string { return "bytes:" + b.ID }

func (b BytesSource) Read() ([]byte, error) {
	if len(b.PEM) == 0 {
		return nil, fmt.Errorf("no key material")
	}
	return b.PEM, nil
}
