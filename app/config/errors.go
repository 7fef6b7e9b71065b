package config

import "fmt"

// ConfigLoadError returned when options or restricted pairs can't be read or don't match the schema
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("can't load config %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// TranslationTableError returned when the translation table can't be read or has invalid entries
type TranslationTableError struct {
	Path string
	Err  error
}

func (e *TranslationTableError) Error() string {
	return fmt.Sprintf("can't load translation table %s: %v", e.Path, e.Err)
}

func (e *TranslationTableError) Unwrap() error { return e.Err }
