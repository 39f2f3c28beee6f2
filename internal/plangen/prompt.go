package plangen

import (
	"fmt"
	"strings"

	"github.com/abhisek/elfplan/internal/plan"
	"github.com/abhisek/elfplan/internal/session"
)

const planSystemPrompt = `You are a creative planner for "Elf on the Shelf" season. You design a month of nightly elf scenes for one specific family: quick for a tired parent to set up, delightful for the child to discover. Every idea must use common household items, respect the family's banned props, and match their energy and mess limits.`

const swapSystemPrompt = `You are a creative planner for "Elf on the Shelf" season. A parent rejected one night's idea and wants a replacement for that single night. Propose something clearly different from the rejected idea while staying inside the family's limits.`

const hotlineSystemPrompt = `You are the voice of a family's Elf on the Shelf, answering a parent's hotline question. Stay in character, be warm and brief, and give practical help. Separately, extract any new facts about the family that the exchange reveals.`

const inferSystemPrompt = `You extract structured facts about a family from a planning conversation. Only report facts the conversation actually establishes; leave everything else out.`

func buildPlanUserMessage(prof session.Profile, days int) string {
	var b strings.Builder

	writeProfileContext(&b, prof)

	b.WriteString(fmt.Sprintf(`
Instructions:
Create the plan for %d consecutive nights, in order:
1. Write a short overview of the month's arc for the parent.
2. For each night, give a distinct scene: no repeated ideas, and vary the night types across the month.
3. Keep most nights at minimal or low effort; save medium/high effort for a handful of special nights.
4. Never use a banned prop. Prefer the listed available props.
5. The image prompt should describe the finished scene in one sentence, suitable for a children's illustration.`, days))

	return b.String()
}

func buildSwapUserMessage(prof session.Profile, existing plan.Day, reasons []string) string {
	var b strings.Builder

	writeProfileContext(&b, prof)

	b.WriteString("\nRejected idea:\n")
	b.WriteString(fmt.Sprintf("Title: %s\n", existing.Title))
	b.WriteString(fmt.Sprintf("Description: %s\n", existing.Description))
	b.WriteString(fmt.Sprintf("Night type: %s, effort: %s, mess: %s\n", existing.NightType, existing.Effort, existing.Mess))

	b.WriteString("\nWhy it was rejected:\n")
	if len(reasons) == 0 {
		b.WriteString("- no reason given\n")
	}
	for _, r := range reasons {
		b.WriteString(fmt.Sprintf("- %s\n", r))
	}

	b.WriteString(`
Instructions:
Propose one replacement scene for this night. It must not repeat the rejected idea or its theme, and it must address the rejection reasons directly (e.g. if it was too messy, go cleaner).`)

	return b.String()
}

func buildHotlineUserMessage(prof *session.Profile, history []session.ChatTurn, question string) string {
	var b strings.Builder

	if prof != nil {
		writeProfileContext(&b, *prof)
	}

	if len(history) > 0 {
		b.WriteString("\nRecent hotline exchanges:\n")
		for _, t := range history {
			b.WriteString(fmt.Sprintf("[%s] %s\n", t.Role, t.Text))
		}
	}

	b.WriteString(fmt.Sprintf("\nParent asks: %s\n", question))
	return b.String()
}

func buildInferUserMessage(turns []session.ChatTurn) string {
	var b strings.Builder

	b.WriteString("Conversation:\n")
	for _, t := range turns {
		b.WriteString(fmt.Sprintf("[%s] %s\n", t.Role, t.Text))
	}

	b.WriteString(`
Instructions:
Report every family fact this conversation establishes: child name and age, siblings, pets, interests, parent energy, mess tolerance, banned or available props. Use an explicit empty list only when the conversation states there are none. Omit anything not established.`)

	return b.String()
}

func writeProfileContext(b *strings.Builder, prof session.Profile) {
	b.WriteString("Family:\n")
	if prof.ChildName != "" {
		b.WriteString(fmt.Sprintf("Child: %s\n", prof.ChildName))
	}
	if prof.AgeYears != nil {
		b.WriteString(fmt.Sprintf("Age: %d\n", *prof.AgeYears))
	} else if prof.AgeRange != "" {
		b.WriteString(fmt.Sprintf("Age range: %s\n", prof.AgeRange))
	}
	if prof.Vibe != "" {
		b.WriteString(fmt.Sprintf("Requested vibe: %s\n", prof.Vibe))
	}
	if len(prof.Siblings) > 0 {
		b.WriteString(fmt.Sprintf("Siblings: %s\n", strings.Join(prof.Siblings, ", ")))
	}
	if len(prof.Pets) > 0 {
		b.WriteString(fmt.Sprintf("Pets: %s\n", strings.Join(prof.Pets, ", ")))
	}
	if len(prof.Interests) > 0 {
		b.WriteString(fmt.Sprintf("Interests: %s\n", strings.Join(prof.Interests, ", ")))
	}
	b.WriteString(fmt.Sprintf("Parent energy: %s\n", prof.EnergyLevel))
	b.WriteString(fmt.Sprintf("Mess tolerance: %s\n", prof.MessTolerance))
	if len(prof.BannedProps) > 0 {
		b.WriteString(fmt.Sprintf("Banned props: %s\n", strings.Join(prof.BannedProps, ", ")))
	}
	if len(prof.AvailableProps) > 0 {
		b.WriteString(fmt.Sprintf("Available props: %s\n", strings.Join(prof.AvailableProps, ", ")))
	}
	if prof.Notes != "" {
		b.WriteString(fmt.Sprintf("Notes: %s\n", prof.Notes))
	}
}
