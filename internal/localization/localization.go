// Package localization supplies the user-facing notification texts. A small
// built-in catalog covers the default languages; a directory of <lang>.json
// files can override or extend it at startup.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Keys for the texts the notification sink emits.
const (
	KeyNewInterest = "notification.interest"
	KeyNewMessage  = "notification.message"
)

var defaults = map[string]map[string]string{
	"ru": {
		KeyNewInterest: "%s выразил(а) вам симпатию.",
		KeyNewMessage:  "Новое сообщение от %s.",
	},
	"en": {
		KeyNewInterest: "%s liked you.",
		KeyNewMessage:  "New message from %s.",
	},
}

// Localizer resolves translation keys per language.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer builds a Localizer from the built-in catalog, then merges in
// any <lang>.json files found under path. An empty path keeps the defaults.
func NewLocalizer(path string) (*Localizer, error) {
	l := &Localizer{translations: make(map[string]map[string]string)}
	for lang, entries := range defaults {
		l.translations[lang] = make(map[string]string, len(entries))
		for k, v := range entries {
			l.translations[lang][k] = v
		}
	}

	if path == "" {
		return l, nil
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		if l.translations[lang] == nil {
			l.translations[lang] = make(map[string]string, len(entries))
		}
		for k, v := range entries {
			l.translations[lang][k] = v
		}
	}

	return l, nil
}

// GetString returns the localized string for a key, falling back to English
// and finally to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if entries, ok := l.translations[lang]; ok {
		if value, ok := entries[key]; ok {
			return value
		}
	}

	if lang != "en" {
		if entries, ok := l.translations["en"]; ok {
			if value, ok := entries[key]; ok {
				return value
			}
		}
	}

	return key
}

// Format localizes a key and substitutes its placeholders.
func (l *Localizer) Format(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}
