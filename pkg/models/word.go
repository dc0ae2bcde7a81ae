package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Level is the difficulty band a vocabulary item belongs to
type Level int

const (
	LevelElementary Level = iota + 1
	LevelIntermediate
	LevelHighIntermediate
)

var levelNames = [...]string{
	LevelElementary:       "ELEMENTARY",
	LevelIntermediate:     "INTERMEDIATE",
	LevelHighIntermediate: "HIGH_INTERMEDIATE",
}

// Levels lists every known level in ascending difficulty
func Levels() []Level {
	return []Level{LevelElementary, LevelIntermediate, LevelHighIntermediate}
}

// Valid reports whether l is one of the known levels
func (l Level) Valid() bool {
	return l >= LevelElementary && l <= LevelHighIntermediate
}

func (l Level) String() string {
	if l.Valid() {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts the canonical names case-insensitively ("elementary", "HIGH_INTERMEDIATE").
// Dashes and spaces are treated as underscores.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)
	for _, l := range Levels() {
		if levelNames[l] == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level: %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Value stores the level as its name
func (l Level) Value() (driver.Value, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level: %d", int(l))
	}
	return levelNames[l], nil
}

// Scan reads a level stored as text
func (l *Level) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return l.UnmarshalText([]byte(v))
	case []byte:
		return l.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Level", src)
	}
}

// VocabularyItem is an immutable catalog entry
type VocabularyItem struct {
	ID       int64  `json:"id" yaml:"id" db:"id"`
	Text     string `json:"text" yaml:"text" db:"text"`
	Language string `json:"language" yaml:"language" db:"language"`
	Level    Level  `json:"level" yaml:"level" db:"level"`
	AudioURL string `json:"audio_url,omitempty" yaml:"audio_url,omitempty" db:"audio_url"` // Optional: URL to audio pronunciation
}
