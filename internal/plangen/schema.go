package plangen

import "github.com/abhisek/elfplan/internal/llm"

// dayContentProperties is the schema for one day's content fields. The
// calendar anchor (dayNumber/date/weekday) is deliberately absent: anchors
// are assigned by the caller, never chosen by the oracle.
var dayContentProperties = map[string]any{
	"title": map[string]any{
		"type":        "string",
		"description": "Short playful title for the night's scene (3-8 words)",
	},
	"description": map[string]any{
		"type":        "string",
		"description": "Setup instructions for the parent, 2-4 sentences, written to be done in under ten minutes",
	},
	"morningMoment": map[string]any{
		"type":        "string",
		"description": "Optional one-sentence suggestion for what to say or do with the child in the morning",
	},
	"easyVariant": map[string]any{
		"type":        "string",
		"description": "Optional lower-effort fallback version of the same idea",
	},
	"noteFromElf": map[string]any{
		"type":        "string",
		"description": "Optional short note written in the elf's voice for the child to find",
	},
	"materials": map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "Household items needed, empty if none",
	},
	"nightType": map[string]any{
		"type": "string",
		"enum": []any{"mischief", "kindness", "game", "cozy", "craft"},
	},
	"effort": map[string]any{
		"type": "string",
		"enum": []any{"minimal", "low", "medium", "high"},
	},
	"mess": map[string]any{
		"type": "string",
		"enum": []any{"none", "low", "medium", "high"},
	},
	"tags": map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "Free-form theme tags, e.g. 'snow', 'baking'",
	},
	"imagePrompt": map[string]any{
		"type":        "string",
		"description": "One-sentence illustration prompt for the scene, child-friendly",
	},
}

var dayContentRequired = []any{
	"title", "description", "materials", "nightType", "effort", "mess", "tags", "imagePrompt",
}

// PlanSchema constrains whole-plan generation: an overview plus one
// content entry per day, in calendar order.
var PlanSchema = &llm.Schema{
	Name:        "month-plan",
	Description: "A full month of nightly elf scenes for one family",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overview": map[string]any{
				"type":        "string",
				"description": "2-3 sentence narrative arc for the month, addressed to the parent",
			},
			"days": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           dayContentProperties,
					"required":             dayContentRequired,
					"additionalProperties": false,
				},
				"description": "Exactly one entry per day of the month, in order",
			},
		},
		"required":             []any{"overview", "days"},
		"additionalProperties": false,
	},
}

// DaySchema constrains single-day swap candidates.
var DaySchema = &llm.Schema{
	Name:        "plan-day",
	Description: "A single replacement elf scene for one night",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           dayContentProperties,
		"required":             dayContentRequired,
		"additionalProperties": false,
	},
}

// profileFragmentProperties describes a sparse profile update: every field
// optional, lists may be explicitly empty.
var profileFragmentProperties = map[string]any{
	"childName": map[string]any{"type": "string"},
	"ageYears":  map[string]any{"type": "integer"},
	"ageRange":  map[string]any{"type": "string"},
	"vibe": map[string]any{
		"type": "string",
		"enum": []any{"silly", "kind", "calm"},
	},
	"siblings":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	"pets":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	"interests": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	"energyLevel": map[string]any{
		"type": "string",
		"enum": []any{"exhausted", "normal-tired", "has-some-energy"},
	},
	"messTolerance": map[string]any{
		"type": "string",
		"enum": []any{"very-low", "low", "medium", "high"},
	},
	"bannedProps":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	"availableProps": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	"notes": map[string]any{
		"type":        "string",
		"description": "Free-text observations useful for future generation",
	},
}

// ProfileSchema constrains intro-chat profile inference. Only include a
// field when the conversation actually established it.
var ProfileSchema = &llm.Schema{
	Name:        "family-profile",
	Description: "Structured facts about the family inferred from conversation",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           profileFragmentProperties,
		"required":             []any{},
		"additionalProperties": false,
	},
}

// HotlineSchema constrains a hotline turn: a reply in the elf's voice plus
// any profile facts the question revealed.
var HotlineSchema = &llm.Schema{
	Name:        "hotline-turn",
	Description: "An elf hotline reply with optional inferred family facts",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"description": "The elf's answer to the parent, 1-3 sentences, warm and practical",
			},
			"profile": map[string]any{
				"type":                 "object",
				"properties":           profileFragmentProperties,
				"required":             []any{},
				"additionalProperties": false,
			},
		},
		"required":             []any{"reply"},
		"additionalProperties": false,
	},
}
