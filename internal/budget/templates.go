package budget

import (
	"strings"

	"financeflow/internal/core"
)

// LanguageEnglish is the default (and currently only shipped) alert
// message language. The tables below are keyed by (language, alert
// type) and initialized once at process start; adding a language means
// adding entries, never mutating existing ones.
const LanguageEnglish = "en"

var messageTemplates = map[string]map[AlertType]string{
	LanguageEnglish: {
		AlertApproaching: "Heads up: you've spent {spent} of your {budget} budget for {category}. Remaining: {remaining}.",
		AlertAtLimit:     "You've reached your {category} budget: {spent} of {budget} used. Remaining: {remaining}.",
		AlertOverBudget:  "You're over your {category} budget: {spent} spent of {budget}. Over: {remaining}.",
	},
}

var suggestedActions = map[string]map[AlertType][]string{
	LanguageEnglish: {
		AlertApproaching: {
			"Review recent spending",
			"Plan remaining budget",
			"Set spending reminders",
		},
		AlertAtLimit: {
			"Pause non-essential spending",
			"Review overspending",
			"Adjust budget amount",
		},
		AlertOverBudget: {
			"Review overspending",
			"Adjust budget amount",
			"Plan spending reduction",
			"Move to different category",
		},
	},
}

// RenderMessage substitutes the {spent}, {budget}, {remaining} and
// {category} placeholders for the given after-state. The remaining
// amount is rendered as an absolute value; the Over/Remaining
// distinction is carried by the template label.
func (e *Evaluator) RenderMessage(alertType AlertType, categoryName string, s State) string {
	templates, ok := messageTemplates[e.language]
	if !ok {
		templates = messageTemplates[LanguageEnglish]
	}
	tmpl, ok := templates[alertType]
	if !ok {
		tmpl = messageTemplates[LanguageEnglish][alertType]
	}

	r := strings.NewReplacer(
		"{spent}", core.FormatUSD(s.SpentCents),
		"{budget}", core.FormatUSD(s.BudgetCents),
		"{remaining}", core.FormatUSD(core.AbsCents(s.RemainingCents)),
		"{category}", categoryName,
	)
	return r.Replace(tmpl)
}

// SuggestedActions returns the fixed ordered action list for an alert
// type. The returned slice is a copy; callers may reorder or trim it.
func SuggestedActions(language string, alertType AlertType) []string {
	actions, ok := suggestedActions[language]
	if !ok {
		actions = suggestedActions[LanguageEnglish]
	}
	list := actions[alertType]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// ActionID reduces a suggested action to the identifier handed to the
// client's action dispatcher: lower-cased, whitespace collapsed to
// underscores.
func ActionID(action string) string {
	return strings.Join(strings.Fields(strings.ToLower(action)), "_")
}
