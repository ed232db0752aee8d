package storage

import "fmt"

// EncodingError is returned when a point's value cannot be represented in
// its field's on-disk width: a string longer than max_length, a decimal
// that overflows its chosen integer width after scaling, or an
// enumerated value absent from the declared set.
type EncodingError struct {
	Field  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("chronostore: encoding field %q: %s", e.Field, e.Reason)
}

// DecodeError is returned when a raw byte payload cannot be turned back
// into a semantic value: a short read, or an enumerated ordinal that was
// never declared.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("chronostore: decoding field %q: %s", e.Field, e.Reason)
}

// ConfigError signals missing or invalid environment configuration;
// returned from backend constructors and fatal to session startup.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("chronostore: configuration: %s", e.Reason)
}
