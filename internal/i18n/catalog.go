// Package i18n looks up user-facing text in Japanese or English.
package i18n

import (
	"embed"
	"fmt"
	"sync"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	Japanese = "ja"
	English  = "en"
)

// DefaultLanguage is used when no preference is stored.
const DefaultLanguage = Japanese

//go:embed locales/*.yaml
var localeFS embed.FS

var localeFiles = map[string]string{
	Japanese: "locales/active.ja.yaml",
	English:  "locales/active.en.yaml",
}

// Catalog resolves message ids for the current language.
type Catalog struct {
	mu        sync.Mutex
	bundle    *goi18n.Bundle
	current   string
	localizer *goi18n.Localizer
	listeners []func(string)
}

// New loads the embedded catalogs and selects lang, or DefaultLanguage when
// lang is unsupported.
func New(lang string) (*Catalog, error) {
	bundle := goi18n.NewBundle(language.Japanese)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for _, path := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", path, err)
		}
	}

	catalog := &Catalog{bundle: bundle}
	if !Supported(lang) {
		lang = DefaultLanguage
	}
	catalog.selectLocked(lang)
	return catalog, nil
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := localeFiles[lang]
	return ok
}

// Language returns the current language code.
func (catalog *Catalog) Language() string {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	return catalog.current
}

// SetLanguage switches language and notifies listeners. Unsupported or
// unchanged languages are ignored.
func (catalog *Catalog) SetLanguage(lang string) bool {
	catalog.mu.Lock()
	if !Supported(lang) || lang == catalog.current {
		catalog.mu.Unlock()
		return false
	}
	catalog.selectLocked(lang)
	listeners := append(([]func(string))(nil), catalog.listeners...)
	catalog.mu.Unlock()

	for _, listener := range listeners {
		listener(lang)
	}
	return true
}

// Toggle switches between Japanese and English and returns the new language.
func (catalog *Catalog) Toggle() string {
	next := Japanese
	if catalog.Language() == Japanese {
		next = English
	}
	catalog.SetLanguage(next)
	return next
}

// OnChange registers a listener called after every language switch.
func (catalog *Catalog) OnChange(listener func(lang string)) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	catalog.listeners = append(catalog.listeners, listener)
}

// T returns the message for id, or id itself when it is unknown.
func (catalog *Catalog) T(id string) string {
	return catalog.localize(&goi18n.LocalizeConfig{MessageID: id})
}

// Format renders the message for id with template data.
func (catalog *Catalog) Format(id string, data map[string]any) string {
	return catalog.localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
}

// BellCount renders a chime strength, e.g. "2 bells" or "2鈴".
func (catalog *Catalog) BellCount(count int) string {
	return catalog.localize(&goi18n.LocalizeConfig{
		MessageID:    "bell",
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

// MarkerHeading labels a marker by its chime strength and cumulative time.
func (catalog *Catalog) MarkerHeading(chimes int, at time.Duration) string {
	return catalog.Format("markerHeading", map[string]any{
		"Count": catalog.BellCount(chimes),
		"Time":  FormatClock(at),
	})
}

// NextMarker describes the marker after the current one.
func (catalog *Catalog) NextMarker(chimes int, at time.Duration) string {
	return catalog.Format("nextMarker", map[string]any{
		"Count": catalog.BellCount(chimes),
		"Time":  FormatClock(at),
	})
}

func (catalog *Catalog) localize(config *goi18n.LocalizeConfig) string {
	catalog.mu.Lock()
	localizer := catalog.localizer
	catalog.mu.Unlock()

	message, err := localizer.Localize(config)
	if err != nil || message == "" {
		return config.MessageID
	}
	return message
}

func (catalog *Catalog) selectLocked(lang string) {
	catalog.current = lang
	catalog.localizer = goi18n.NewLocalizer(catalog.bundle, lang)
}

// FormatClock renders a duration as mm:ss, rounding to the nearest second.
// Minutes are not wrapped at an hour.
func FormatClock(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	total := int64(value.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
