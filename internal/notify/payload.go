package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/store"
)

// Event names carried by generic payloads
const (
	EventItemReady       = "item.ready"
	EventItemAlmostReady = "item.almost-ready"
	EventWebhookTest     = "webhook.test"
)

// Discord embed colors
const (
	colorReady       = 0x2ECC71
	colorAlmostReady = 0xF1C40F
	colorTest        = 0x3498DB
)

// Event is one notification about one item
type Event struct {
	Kind      TransitionKind
	Name      string
	Verdict   readiness.Verdict
	Timestamp time.Time
}

// NewEvent builds the event for a transition. TransitionNone has no event.
func NewEvent(kind TransitionKind, verdict readiness.Verdict, at time.Time) (Event, bool) {
	var name string
	switch kind {
	case TransitionIntoReady:
		name = EventItemReady
	case TransitionIntoAlmostReady:
		name = EventItemAlmostReady
	default:
		return Event{}, false
	}
	return Event{Kind: kind, Name: name, Verdict: verdict, Timestamp: at}, true
}

type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type genericPayload struct {
	Event           string                 `json:"event"`
	ItemID          string                 `json:"itemId"`
	ItemKind        string                 `json:"itemKind"`
	Title           string                 `json:"title"`
	Status          readiness.Status       `json:"status"`
	ProgressPercent float64                `json:"progressPercent"`
	RuleResults     []readiness.RuleResult `json:"ruleResults"`
	Timestamp       string                 `json:"timestamp"`
}

// BuildPayload renders event in the body format of the given webhook type
func BuildPayload(webhookType store.WebhookType, event Event) ([]byte, error) {
	switch webhookType {
	case store.WebhookTypeDiscord:
		return json.Marshal(discordBody(event))
	case store.WebhookTypeGeneric:
		return json.Marshal(genericBody(event))
	default:
		return nil, fmt.Errorf("unsupported webhook type %q", webhookType)
	}
}

func genericBody(event Event) genericPayload {
	rules := event.Verdict.RuleResults
	if rules == nil {
		rules = []readiness.RuleResult{}
	}
	return genericPayload{
		Event:           event.Name,
		ItemID:          event.Verdict.ItemID,
		ItemKind:        string(event.Verdict.ItemKind),
		Title:           event.Verdict.Title,
		Status:          event.Verdict.Status,
		ProgressPercent: event.Verdict.ProgressPercent,
		RuleResults:     rules,
		Timestamp:       event.Timestamp.UTC().Format(time.RFC3339),
	}
}

func discordBody(event Event) discordPayload {
	v := event.Verdict
	progress := formatPercent(v.ProgressPercent)

	var content, description string
	color := colorTest
	switch event.Name {
	case EventItemReady:
		content = fmt.Sprintf("**%s** is now ready", v.Title)
		description = fmt.Sprintf("The %s is ready to watch (%s complete).", v.ItemKind, progress)
		color = colorReady
	case EventItemAlmostReady:
		content = fmt.Sprintf("**%s** is almost ready", v.Title)
		description = fmt.Sprintf("The %s is %s complete.", v.ItemKind, progress)
		color = colorAlmostReady
	default:
		content = "Test notification from media-readiness-server"
		description = "This webhook is configured correctly."
	}

	fields := make([]discordField, 0, len(v.RuleResults))
	for _, r := range v.RuleResults {
		fields = append(fields, discordField{Name: r.RuleName, Value: r.Detail})
	}

	return discordPayload{
		Content: content,
		Embeds: []discordEmbed{{
			Title:       v.Title,
			Description: description,
			Color:       color,
			Fields:      fields,
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
		}},
	}
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p*100)
}
