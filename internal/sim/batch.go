package sim

import (
	"context"
	"fmt"
	log "log/slog"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"patientsim/internal/config"
	"patientsim/internal/dataset"
	"patientsim/internal/llm"
)

// Batch iterates splits x patient models x profiles, holding the doctor
// model fixed, and writes one JSONL file per (split, patient model) pair.
// Failures below the single-dialogue level are isolated: the batch logs and
// moves on.
type Batch struct {
	Config  *config.Config
	Client  llm.Client
	Dataset *dataset.Dataset
}

// Run executes the full batch. It returns an error only for failures that
// make all remaining work impossible (doctor backend unavailable).
func (b *Batch) Run(ctx context.Context, doctorModel string, patientModels, splits []string, limit int) error {
	available := b.Client.AvailableModels()
	if !slices.Contains(available, doctorModel) {
		return &llm.AuthError{Model: doctorModel}
	}

	runID := uuid.NewString()
	logger := log.With("run_id", runID, "doctor_model", doctorModel)
	logger.Info("starting batch", "patient_models", patientModels, "splits", splits, "limit", limit)

	for _, patientModel := range patientModels {
		if !slices.Contains(available, patientModel) {
			logger.Warn("patient model unavailable, skipping", "patient_model", patientModel)
			continue
		}
		for _, split := range splits {
			if err := b.runSplit(ctx, logger, doctorModel, patientModel, split, limit); err != nil {
				logger.Error("split failed", "split", split, "patient_model", patientModel, "error", err)
			}
		}
	}
	logger.Info("batch complete")
	return nil
}

func (b *Batch) runSplit(ctx context.Context, logger *log.Logger, doctorModel, patientModel, split string, limit int) error {
	profiles := b.Dataset.SplitProfiles(split, limit)
	if len(profiles) == 0 {
		logger.Warn("no profiles for split", "split", split)
		return nil
	}

	writer, err := NewJSONLWriter(OutputPath(b.Config.Simulation.OutputDir, split, patientModel))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			logger.Error("failed to close output file",
				"split", split, "patient_model", patientModel, "error", cerr)
		}
	}()

	logger.Info("generating dialogues",
		"split", split, "patient_model", patientModel, "profiles", len(profiles))

	orch := &Orchestrator{Client: b.Client, MaxTurns: b.Config.Simulation.MaxTurns}
	written := 0
	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := orch.Run(ctx, profile, doctorModel, patientModel)
		if record.Incomplete {
			logger.Warn("dialogue incomplete",
				"split", split, "hadm_id", profile.HadmID, "error", record.Error)
		}
		if err := writer.Write(record); err != nil {
			logger.Error("failed to write record",
				"split", split, "hadm_id", profile.HadmID, "error", err)
			continue
		}
		written++
	}
	logger.Info("split done", "split", split, "patient_model", patientModel, "written", written)
	return nil
}

// OutputPath returns the transcript file for one (split, patient model)
// pair: <output_dir>/<split>_test/llm_simulation/<patient_model>/llm_dialogue.jsonl.
func OutputPath(outputDir, split, patientModel string) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_test", split), "llm_simulation", patientModel, "llm_dialogue.jsonl")
}
