// Package messages is the user-facing string catalog. Strings are keyed by
// enumerated IDs rather than dotted paths, so a missing entry is an explicit
// lookup miss instead of a silent typo, and parameterized messages expose
// typed helpers for their placeholders.
package messages

import (
	"fmt"

	"golang.org/x/text/language"
)

type ID int

const (
	StatusReady ID = iota
	StatusRunning
	StatusResumed
	StatusStopped
	StatusNothingToSend
	StatusNotConfigured
	StatusSending
	StatusSendFailed
	StatusSendSuccess
	SessionsToday
	PredictionPrompt
	PredictionZero
	EstimationPrompt
	EstimationSkipped
)

var idNames = map[ID]string{
	StatusReady:         "StatusReady",
	StatusRunning:       "StatusRunning",
	StatusResumed:       "StatusResumed",
	StatusStopped:       "StatusStopped",
	StatusNothingToSend: "StatusNothingToSend",
	StatusNotConfigured: "StatusNotConfigured",
	StatusSending:       "StatusSending",
	StatusSendFailed:    "StatusSendFailed",
	StatusSendSuccess:   "StatusSendSuccess",
	SessionsToday:       "SessionsToday",
	PredictionPrompt:    "PredictionPrompt",
	PredictionZero:      "PredictionZero",
	EstimationPrompt:    "EstimationPrompt",
	EstimationSkipped:   "EstimationSkipped",
}

var english = map[ID]string{
	StatusReady:         "Ready to focus - press 's' to start",
	StatusRunning:       "Focus session active - stay concentrated",
	StatusResumed:       "Focus session resumed - timer continues",
	StatusStopped:       "Session completed - duration: %s",
	StatusNothingToSend: "No data to send yet",
	StatusNotConfigured: "Collector endpoint is not configured",
	StatusSending:       "Sending sessions...",
	StatusSendFailed:    "Sending failed: %s",
	StatusSendSuccess:   "Sent %d session(s)",
	SessionsToday:       "Sessions today: %d",
	PredictionPrompt:    "How long will you stay focused?",
	PredictionZero:      "Prediction must be greater than zero",
	EstimationPrompt:    "You were tracked for %s. How long were you actually focused?",
	EstimationSkipped:   "Estimate skipped",
}

var german = map[ID]string{
	StatusReady:         "Bereit - 's' startet die Sitzung",
	StatusRunning:       "Fokus-Sitzung aktiv - bleib konzentriert",
	StatusResumed:       "Fokus-Sitzung fortgesetzt - Timer laeuft weiter",
	StatusStopped:       "Sitzung beendet - Dauer: %s",
	StatusNothingToSend: "Noch keine Daten zum Senden",
	StatusNotConfigured: "Collector-Endpunkt ist nicht konfiguriert",
	StatusSending:       "Sitzungen werden gesendet...",
	StatusSendFailed:    "Senden fehlgeschlagen: %s",
	StatusSendSuccess:   "%d Sitzung(en) gesendet",
	SessionsToday:       "Sitzungen heute: %d",
	PredictionPrompt:    "Wie lange wirst du konzentriert bleiben?",
	PredictionZero:      "Vorhersage muss groesser als null sein",
	EstimationPrompt:    "Erfasst wurden %s. Wie lange warst du wirklich konzentriert?",
	EstimationSkipped:   "Schaetzung uebersprungen",
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first tag is the fallback
	language.German,
})

// Catalog resolves message IDs for one locale.
type Catalog struct {
	table map[ID]string
}

// For picks the best-matching catalog for a BCP 47 locale string.
// Unrecognized locales fall back to English.
func For(locale string) Catalog {
	_, index := language.MatchStrings(matcher, locale)
	if index == 1 {
		return Catalog{table: german}
	}
	return Catalog{table: english}
}

// Lookup returns the raw template for an ID. A miss returns the literal ID
// name and false, so an untranslated message stays visible instead of
// disappearing.
func (c Catalog) Lookup(id ID) (string, bool) {
	if msg, ok := c.table[id]; ok {
		return msg, true
	}
	if name, ok := idNames[id]; ok {
		return name, false
	}
	return fmt.Sprintf("Message(%d)", int(id)), false
}

// get formats a template with its arguments, falling back to the literal ID
// name on a lookup miss.
func (c Catalog) get(id ID, args ...any) string {
	msg, ok := c.Lookup(id)
	if !ok || len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Plain returns a message that carries no placeholders.
func (c Catalog) Plain(id ID) string {
	return c.get(id)
}

// Typed helpers: one per parameterized message, so a caller cannot pass the
// wrong placeholder set.

func (c Catalog) Stopped(duration string) string {
	return c.get(StatusStopped, duration)
}

func (c Catalog) SendFailed(reason string) string {
	return c.get(StatusSendFailed, reason)
}

func (c Catalog) SendSuccess(count int) string {
	return c.get(StatusSendSuccess, count)
}

func (c Catalog) Today(count int) string {
	return c.get(SessionsToday, count)
}

func (c Catalog) Estimation(duration string) string {
	return c.get(EstimationPrompt, duration)
}
