package agent

import (
	"context"
	"fmt"
	"sync"

	"patientsim/internal/llm"
	"patientsim/pkg"
)

// stubClient is a deterministic llm.Client for agent tests. It records every
// request and replies from a fixed script (falling back to a counter-derived
// string).
type stubClient struct {
	mu       sync.Mutex
	script   []string
	calls    int
	requests [][]llm.Message
	models   []string
	lastOpts *llm.Options
}

func (s *stubClient) Generate(_ context.Context, model string, messages []llm.Message, opts *llm.Options) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, append([]llm.Message(nil), messages...))
	s.models = append(s.models, model)
	s.lastOpts = opts
	s.calls++
	if s.calls <= len(s.script) {
		return s.script[s.calls-1], nil
	}
	return fmt.Sprintf("stub reply %d", s.calls), nil
}

func (s *stubClient) TestConnection(ctx context.Context, model string) error {
	_, err := s.Generate(ctx, model, []llm.Message{{Role: llm.RoleUser, Content: "Say hi"}}, nil)
	return err
}

func (s *stubClient) AvailableModels() []string { return []string{"stub-model"} }

func sampleProfile() pkg.PatientProfile {
	return pkg.PatientProfile{
		HadmID:                 "28162080",
		Age:                    58,
		Gender:                 "F",
		Race:                   "WHITE",
		MaritalStatus:          "MARRIED",
		Occupation:             "retired teacher",
		LivingSituation:        "lives with spouse",
		ChiefComplaint:         "chest pain",
		Pain:                   "7",
		Diagnosis:              "acute coronary syndrome",
		PresentIllnessPositive: "pressure-like chest pain radiating to the left arm",
		PresentIllnessNegative: "no fever, no cough",
		MedicalHistory:         "hypertension, type 2 diabetes",
		Medication:             "metformin, lisinopril",
		Allergies:              "penicillin",
		Tobacco:                "former smoker",
		Alcohol:                "occasional",
		IllicitDrug:            "denies",
		Exercise:               "walks daily",
		FamilyMedicalHistory:   "father had MI at 60",
		CEFR:                   pkg.CEFRIntermediate,
		Personality:            pkg.PersonalityPlain,
		RecallLevel:            pkg.RecallHigh,
		DazedLevel:             pkg.DazedNormal,
		MedA:                   "pain, doctor, nurse, sick",
		MedB:                   "symptom, pressure, medication",
		MedC:                   "myocardial, ischemia",
		CEFRA1:                 "bad, hurt, help",
		CEFRA2:                 "worse, tired, worried",
		CEFRB1:                 "uncomfortable, breathing",
		CEFRB2:                 "persistent, radiating",
		CEFRC1:                 "intermittent, exacerbated",
		CEFRC2:                 "prodromal",
	}
}
