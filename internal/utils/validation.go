package utils

import (
	"slices"
	"strings"
)

// Store names accepted in config and on the command line.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Color modes accepted in config and on the command line.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidStores lists the supported store names.
func ValidStores() []string {
	return []string{StoreJSON, StoreSQLite}
}

// ValidColorModes lists the supported color modes.
func ValidColorModes() []string {
	return []string{ColorAuto, ColorAlways, ColorNever}
}

// ValidateStore checks a store name. Matching is case-insensitive.
func ValidateStore(name string) error {
	if !slices.Contains(ValidStores(), strings.ToLower(name)) {
		return ErrUnknownStore(name, ValidStores())
	}
	return nil
}

// ValidateColorMode checks a color mode. Matching is case-insensitive.
func ValidateColorMode(mode string) error {
	if !slices.Contains(ValidColorModes(), strings.ToLower(mode)) {
		return ErrInvalidColorMode(mode, ValidColorModes())
	}
	return nil
}
