package sim

import (
	"context"
	log "log/slog"
	"strings"

	"patientsim/internal/agent"
	"patientsim/internal/llm"
	"patientsim/pkg"
)

// Orchestrator runs one doctor-patient dialogue to completion. Turns are
// strictly sequential: each utterance depends on the one before it, so there
// is no concurrency inside a single dialogue.
type Orchestrator struct {
	Client   llm.Client
	MaxTurns int
}

// Run drives the turn loop for one profile and returns the resulting record.
// The doctor opens; doctor and patient then alternate until the doctor emits
// the closing marker, the turn budget (2 x MaxTurns utterances) is spent, or
// a backend error exhausts its retries. On error the record keeps the turns
// that succeeded and is tagged incomplete rather than discarded.
func (o *Orchestrator) Run(ctx context.Context, profile pkg.PatientProfile, doctorModel, patientModel string) *pkg.DialogueRecord {
	patient := agent.NewPatient(profile, patientModel, o.Client)
	doctor := agent.NewDoctor(doctorModel, o.Client, profile.ChiefComplaint)

	record := &pkg.DialogueRecord{
		HadmID:            profile.HadmID,
		Age:               profile.Age,
		Gender:            profile.Gender,
		CEFRType:          profile.CEFR,
		PersonalityType:   profile.Personality,
		RecallLevelType:   profile.RecallLevel,
		DazedLevelType:    profile.DazedLevel,
		PatientEngineName: patient.EngineName(),
		DoctorEngineName:  doctor.EngineName(),
		DialogHistory:     []pkg.DialogueTurn{},
		Diagnosis:         profile.Diagnosis,
	}

	doctorMessage, err := doctor.StartInterview(ctx)
	if err != nil {
		return o.truncate(record, err)
	}
	if appendDoctorTurn(record, doctorMessage) {
		return record
	}

	for turn := 1; turn <= o.MaxTurns; turn++ {
		patientMessage, err := patient.Respond(ctx, doctorMessage)
		if err != nil {
			return o.truncate(record, err)
		}
		record.DialogHistory = append(record.DialogHistory, pkg.DialogueTurn{
			Role:    pkg.RolePatient,
			Content: strings.TrimSpace(patientMessage),
		})

		if turn == o.MaxTurns {
			break
		}

		doctorMessage, err = doctor.Respond(ctx, patientMessage, turn, o.MaxTurns)
		if err != nil {
			return o.truncate(record, err)
		}
		if appendDoctorTurn(record, doctorMessage) {
			break
		}
	}

	if log.Default().Enabled(ctx, log.LevelDebug) {
		if summary, err := doctor.SummarizeFindings(ctx); err == nil {
			log.Debug("clinical summary", "hadm_id", profile.HadmID, "summary", summary)
		} else {
			log.Debug("clinical summary unavailable", "hadm_id", profile.HadmID, "error", err)
		}
	}
	return record
}

// appendDoctorTurn records a doctor utterance with the closing marker
// stripped and reports whether the utterance closed the interview. A reply
// consisting only of the marker is terminal but leaves no turn behind, so
// recorded turns never have empty content.
func appendDoctorTurn(record *pkg.DialogueRecord, message string) bool {
	closed := agent.IsClosing(message)
	content := strings.TrimSpace(agent.StripClosing(message))
	if content != "" {
		record.DialogHistory = append(record.DialogHistory, pkg.DialogueTurn{
			Role:    pkg.RoleDoctor,
			Content: content,
		})
	}
	return closed
}

// truncate tags a record whose dialogue could not finish. Turns already
// generated stay in place.
func (o *Orchestrator) truncate(record *pkg.DialogueRecord, err error) *pkg.DialogueRecord {
	log.Warn("dialogue truncated",
		"hadm_id", record.HadmID,
		"turns", len(record.DialogHistory),
		"error", err,
	)
	record.Incomplete = true
	record.Error = err.Error()
	return record
}
