package agent

import (
	"context"
	"fmt"
	"strings"

	"patientsim/internal/llm"
)

// Doctor simulates a physician conducting a structured interview. Checklist
// progress is a best-effort heuristic driven by turn count, passed into the
// prompt as a phase suggestion; there is no parsed state machine over the
// interview sections.
type Doctor struct {
	model          string
	client         llm.Client
	chiefComplaint string
	systemPrompt   string
	history        []llm.Message
}

// NewDoctor constructs a doctor agent guided by the patient's chief
// complaint.
func NewDoctor(model string, client llm.Client, chiefComplaint string) *Doctor {
	d := &Doctor{
		model:          model,
		client:         client,
		chiefComplaint: chiefComplaint,
	}
	d.systemPrompt = fmt.Sprintf(doctorPromptFormat, chiefComplaint)
	return d
}

// EngineName returns the backend model playing this doctor.
func (d *Doctor) EngineName() string { return d.model }

// StartInterview produces the doctor's opening statement.
func (d *Doctor) StartInterview(ctx context.Context) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: d.systemPrompt},
		{Role: llm.RoleUser, Content: "Begin the interview. The patient has come to the ED with: " + d.chiefComplaint},
	}
	response, err := d.client.Generate(ctx, d.model, messages, nil)
	if err != nil {
		return "", err
	}
	d.history = append(d.history, llm.Message{Role: llm.RoleAssistant, Content: response})
	return response, nil
}

// Respond generates the doctor's next question or statement given the
// patient's last message and the current position in the interview.
func (d *Doctor) Respond(ctx context.Context, patientMessage string, turn, maxTurns int) (string, error) {
	d.history = append(d.history, llm.Message{
		Role:    llm.RoleUser,
		Content: "Patient: " + patientMessage,
	})

	messages := make([]llm.Message, 0, len(d.history)+1)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: d.systemPrompt + phaseHint(turn, maxTurns),
	})
	messages = append(messages, d.history...)

	response, err := d.client.Generate(ctx, d.model, messages, nil)
	if err != nil {
		return "", err
	}
	d.history = append(d.history, llm.Message{Role: llm.RoleAssistant, Content: response})
	return response, nil
}

// SummarizeFindings produces a short clinical summary of the interview so
// far, for logging.
func (d *Doctor) SummarizeFindings(ctx context.Context) (string, error) {
	messages := make([]llm.Message, 0, len(d.history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: "You are a physician. Summarize the key findings from this patient interview in 2-3 sentences.",
	})
	messages = append(messages, d.history...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: "Provide a brief clinical summary of this case.",
	})

	maxTokens := 200
	return d.client.Generate(ctx, d.model, messages, &llm.Options{MaxTokens: &maxTokens})
}

// Reset clears the running history so the agent can be reused.
func (d *Doctor) Reset() { d.history = nil }

// phaseHint suggests which checklist section the interview should be in,
// based purely on how far through the turn budget the dialogue is. Within
// two turns of the budget it instructs the doctor to wrap up and emit the
// closing marker.
func phaseHint(turn, maxTurns int) string {
	if turn >= maxTurns-2 {
		return fmt.Sprintf(
			"\n\n[You are near the end of the interview (turn %d/%d). Summarize your findings, explain next steps, and end your statement with %s]",
			turn, maxTurns, ClosingMarker,
		)
	}
	var phase string
	switch {
	case turn*4 < maxTurns:
		phase = "Focus on the history of present illness: onset, location, duration, character, severity."
	case turn*2 < maxTurns:
		phase = "Move into the review of systems: ask about associated symptoms."
	case turn*4 < maxTurns*3:
		phase = "Cover past medical history, current medications, and allergies."
	default:
		phase = "Cover social history and family history."
	}
	return fmt.Sprintf("\n\n[Interview progress: turn %d/%d. %s]", turn, maxTurns, phase)
}

// IsClosing reports whether a doctor utterance carries the explicit closing
// marker.
func IsClosing(message string) bool {
	return strings.Contains(message, ClosingMarker)
}

// StripClosing removes the closing marker from an utterance before it is
// recorded.
func StripClosing(message string) string {
	return strings.TrimSpace(strings.ReplaceAll(message, ClosingMarker, ""))
}
