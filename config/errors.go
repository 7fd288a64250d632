package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned (wrapped with the path) when the job file does not exist.
var ErrNotFound = errors.New("konfigurationsdatei nicht gefunden")

// ErrUnknownAction is returned by ParseAction for anything but upload/u/download/d.
var ErrUnknownAction = errors.New("unbekannte Aktion")

// MissingKeysError lists every mandatory key absent from the job file.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("fehlende Einstellungen in der Konfigurationsdatei: %s", strings.Join(e.Keys, ", "))
}

// ParseError wraps failures while reading the job file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fehler beim Parsen von %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidValueError reports a key whose value cannot be used.
type InvalidValueError struct {
	Key   string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("ungültiger Wert für %s: %q", e.Key, e.Value)
}
