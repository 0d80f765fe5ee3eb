package agent

import (
	"context"
	"fmt"
	"strings"

	"patientsim/internal/llm"
	"patientsim/pkg"
)

// maxVocabularyTerms caps the vocabulary hint embedded in the patient
// system prompt. Terms are taken in dataset order so that identical inputs
// always build identical prompts.
const maxVocabularyTerms = 20

// Patient simulates a patient with persona-driven responses. The system
// prompt is built once from the profile; the running dialogue history is
// owned exclusively by this agent's orchestration run.
type Patient struct {
	profile      pkg.PatientProfile
	model        string
	client       llm.Client
	systemPrompt string
	history      []llm.Message
}

// NewPatient constructs a patient agent for one profile and backend model.
func NewPatient(profile pkg.PatientProfile, model string, client llm.Client) *Patient {
	p := &Patient{
		profile: profile,
		model:   model,
		client:  client,
	}
	p.systemPrompt = buildPatientPrompt(profile)
	return p
}

// EngineName returns the backend model playing this patient.
func (p *Patient) EngineName() string { return p.model }

// Respond generates the patient's reply to what the doctor just said. The
// doctor message and the reply are appended to the agent's running history.
func (p *Patient) Respond(ctx context.Context, doctorMessage string) (string, error) {
	p.history = append(p.history, llm.Message{
		Role:    llm.RoleUser,
		Content: "Doctor: " + doctorMessage,
	})

	messages := make([]llm.Message, 0, len(p.history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: p.systemPrompt})
	messages = append(messages, p.history...)

	response, err := p.client.Generate(ctx, p.model, messages, nil)
	if err != nil {
		return "", err
	}
	p.history = append(p.history, llm.Message{Role: llm.RoleAssistant, Content: response})
	return response, nil
}

// Reset clears the running history so the agent can be reused.
func (p *Patient) Reset() { p.history = nil }

// buildPatientPrompt assembles the persona-conditioned system prompt:
// profile facts, one instruction fragment per persona axis, a CEFR-tiered
// vocabulary hint, and the response-format rules. Construction is fully
// deterministic; any variation in patient behavior comes from the backend's
// own sampling.
func buildPatientPrompt(profile pkg.PatientProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are simulating a patient visiting the emergency department. You must stay in character throughout the conversation.

## PATIENT PROFILE

**Demographics:**
- Age: %d years old
- Gender: %s
- Race: %s
- Marital Status: %s
- Occupation: %s
- Living Situation: %s
- Children: %s

**Chief Complaint:** %s
**Pain Level:** %s/10
**Diagnosis (DO NOT REVEAL):** %s

**Present Illness - Symptoms You Experience:**
%s

**Symptoms You DO NOT Have:**
%s

**Medical History:**
%s

**Current Medications:**
%s

**Allergies:**
%s

**Social History:**
- Tobacco: %s
- Alcohol: %s
- Drugs: %s
- Exercise: %s

**Family History:**
%s
`,
		profile.Age,
		profile.Gender,
		profile.Race,
		profile.MaritalStatus,
		profile.Occupation,
		profile.LivingSituation,
		orDefault(profile.Children, "Not recorded"),
		profile.ChiefComplaint,
		profile.Pain,
		profile.Diagnosis,
		orDefault(profile.PresentIllnessPositive, "Not recorded"),
		orDefault(profile.PresentIllnessNegative, "Not recorded"),
		orDefault(profile.MedicalHistory, "None reported"),
		orDefault(profile.Medication, "None"),
		orDefault(profile.Allergies, "No known allergies"),
		orDefault(profile.Tobacco, "Not recorded"),
		orDefault(profile.Alcohol, "Not recorded"),
		orDefault(profile.IllicitDrug, "Not recorded"),
		orDefault(profile.Exercise, "Not recorded"),
		orDefault(profile.FamilyMedicalHistory, "Noncontributory"),
	)

	fmt.Fprintf(&b, `
## PERSONA ATTRIBUTES

**Language Level (CEFR %s):**
%s

**Vocabulary to use:** %s
Avoid using complex medical terms unless you're CEFR level C.

**Personality (%s):**
%s

**Memory/Recall (%s):**
%s

**Mental Clarity (%s):**
%s

`,
		profile.CEFR, cefrInstructions[profile.CEFR],
		strings.Join(vocabularyFor(profile), ", "),
		profile.Personality, personalityInstructions[profile.Personality],
		profile.RecallLevel, recallInstructions[profile.RecallLevel],
		profile.DazedLevel, dazedInstructions[profile.DazedLevel],
	)

	b.WriteString(patientRules)
	return b.String()
}

// vocabularyFor collects the vocabulary terms a patient at the profile's
// CEFR level may draw on, in fixed dataset order, capped at
// maxVocabularyTerms.
func vocabularyFor(profile pkg.PatientProfile) []string {
	var lists []string
	switch profile.CEFR {
	case pkg.CEFRBasic:
		lists = []string{profile.MedA, profile.CEFRA1, profile.CEFRA2}
	case pkg.CEFRIntermediate:
		lists = []string{profile.MedA, profile.MedB, profile.CEFRA1, profile.CEFRA2, profile.CEFRB1, profile.CEFRB2}
	case pkg.CEFRAdvanced:
		lists = []string{profile.MedA, profile.MedB, profile.MedC, profile.CEFRA1, profile.CEFRA2, profile.CEFRB1, profile.CEFRB2, profile.CEFRC1, profile.CEFRC2}
	default:
		lists = []string{profile.MedA}
	}

	var terms []string
	for _, list := range lists {
		for _, term := range strings.Split(list, ", ") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			terms = append(terms, term)
			if len(terms) == maxVocabularyTerms {
				return terms
			}
		}
	}
	return terms
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
