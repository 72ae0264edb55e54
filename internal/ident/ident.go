// Package ident mints collision-resistant entity ids. Id generation is a
// pure injectable capability so tests can substitute a deterministic
// generator.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Kind selects the id namespace for an entity type.
type Kind string

const (
	KindWeekReport Kind = "week_report"
	KindDay        Kind = "day"
	KindTask       Kind = "task"
	KindSession    Kind = "session"
	KindSnapshot   Kind = "snapshot"
)

var prefixes = map[Kind]string{
	KindWeekReport: "wr-",
	KindDay:        "dy-",
	KindTask:       "tk-",
	KindSession:    "ts-",
	KindSnapshot:   "sn-",
}

// Prefix returns the id prefix for a kind, or empty for unknown kinds.
func Prefix(kind Kind) string {
	return prefixes[kind]
}

// KindOf reports the entity kind an id belongs to, based on its prefix.
func KindOf(id string) (Kind, bool) {
	for kind, prefix := range prefixes {
		if strings.HasPrefix(id, prefix) {
			return kind, true
		}
	}
	return "", false
}

// Generator produces unique ids for new entities.
type Generator interface {
	NewID(kind Kind) (string, error)
}

// randGenerator is the default Generator, using 10 random bytes per id
// (20 hex characters, 80 bits) under a per-kind prefix.
type randGenerator struct{}

// NewGenerator returns the default crypto/rand backed Generator.
func NewGenerator() Generator {
	return randGenerator{}
}

func (randGenerator) NewID(kind Kind) (string, error) {
	prefix, ok := prefixes[kind]
	if !ok {
		return "", fmt.Errorf("unknown id kind %q", kind)
	}
	bytes := make([]byte, 10)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return prefix + hex.EncodeToString(bytes), nil
}
