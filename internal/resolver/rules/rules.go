// Package rules implements the local response resolver: an ordered list of
// keyword rules matched case-insensitively against the user utterance,
// first match wins. It is pure and deterministic with no I/O.
package rules

import (
	"context"
	"strings"
)

// Rule pairs a keyword set with the canned response returned when any of
// the keywords appears in the utterance.
type Rule struct {
	Keywords []string
	Response string
}

// DefaultResponse is returned when no rule matches.
const DefaultResponse = "I'm sorry, I don't have information about that. You can ask me about booking appointments, our doctors, or opening hours."

// Seed returns the rule set shipped with the widget. Order matters: the
// first matching rule wins, so the booking and doctor rules come before
// the greeting — "Can I book an appointment?" must answer with booking
// instructions even when the sentence also happens to contain a greeting
// word as a substring.
func Seed() []Rule {
	return []Rule{
		{
			Keywords: []string{"book", "appointment"},
			Response: "To book an appointment, please select a doctor from our specialists list and choose an available time slot.",
		},
		{
			Keywords: []string{"doctor", "specialist"},
			Response: "We have specialists in cardiology, dermatology and pediatrics. You can browse the doctors page for their availability.",
		},
		{
			Keywords: []string{"hello"},
			Response: "Hello! How can I help you today?",
		},
		{
			Keywords: []string{"hours", "timing", "open"},
			Response: "Our consultancy desk is open Monday to Saturday, 8:00 to 18:00.",
		},
		{
			Keywords: []string{"emergency"},
			Response: "For medical emergencies please call your local emergency number immediately instead of using this chat.",
		},
		{
			Keywords: []string{"thank"},
			Response: "You're welcome! Is there anything else I can help you with?",
		},
	}
}

// Resolver matches utterances against an ordered rule list.
type Resolver struct {
	rules    []Rule
	fallback string
}

// New returns a Resolver over the supplied rules. A nil slice gets the
// seed rule set.
func New(ruleSet []Rule) *Resolver {
	if ruleSet == nil {
		ruleSet = Seed()
	}
	return &Resolver{rules: ruleSet, fallback: DefaultResponse}
}

// Resolve returns the response of the first rule whose keyword appears in
// the question, or the default response when nothing matches.
func (r *Resolver) Resolve(_ context.Context, _, question string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(question))
	for _, rule := range r.rules {
		for _, keyword := range rule.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(normalized, strings.ToLower(keyword)) {
				return rule.Response, nil
			}
		}
	}
	return r.fallback, nil
}
