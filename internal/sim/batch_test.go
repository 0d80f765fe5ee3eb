package sim

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientsim/internal/config"
	"patientsim/internal/dataset"
	"patientsim/internal/llm"
	"patientsim/pkg"
)

const batchProfilesJSON = `[
  {"hadm_id": "28162080", "age": 58, "gender": "F", "chiefcomplaint": "chest pain",
   "diagnosis": "acute coronary syndrome",
   "cefr": "B", "personality": "plain", "recall_level": "high", "dazed_level": "normal"},
  {"hadm_id": "22995465", "age": 41, "gender": "M", "chiefcomplaint": "abdominal pain",
   "diagnosis": "appendicitis",
   "cefr": "A", "personality": "distrust", "recall_level": "low", "dazed_level": "confused"}
]`

const batchManifestJSON = `{"persona": ["28162080", "22995465"], "info": ["28162080"]}`

func batchFixture(t *testing.T) (*config.Config, *dataset.Dataset) {
	t.Helper()
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "patient_profile.json")
	manifestPath := filepath.Join(dir, "split_manifest.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(batchProfilesJSON), 0o644))
	require.NoError(t, os.WriteFile(manifestPath, []byte(batchManifestJSON), 0o644))

	cfg := &config.Config{
		Models: map[string]config.ModelConfig{
			"doctor-model":  {Provider: config.ProviderOllama, ModelName: "d", MaxTokens: 100},
			"patient-model": {Provider: config.ProviderOllama, ModelName: "p", MaxTokens: 100},
		},
		Simulation:         config.SimulationConfig{MaxTurns: 2, OutputDir: filepath.Join(dir, "out")},
		PatientProfilePath: profilePath,
		SplitManifestPath:  manifestPath,
	}
	ds, err := dataset.Load(profilePath, manifestPath)
	require.NoError(t, err)
	return cfg, ds
}

func readRecords(t *testing.T, path string) []pkg.DialogueRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	records := make([]pkg.DialogueRecord, 0, len(lines))
	for _, line := range lines {
		var rec pkg.DialogueRecord
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "each line must be valid JSON")
		records = append(records, rec)
	}
	return records
}

func TestBatchWritesOneFilePerSplitModelPair(t *testing.T) {
	cfg, ds := batchFixture(t)
	stub := &stubClient{models: []string{"doctor-model", "patient-model"}}
	batch := &Batch{Config: cfg, Client: stub, Dataset: ds}

	err := batch.Run(context.Background(), "doctor-model", []string{"patient-model"}, []string{"persona"}, 2)
	require.NoError(t, err)

	path := OutputPath(cfg.Simulation.OutputDir, "persona", "patient-model")
	records := readRecords(t, path)
	require.Len(t, records, 2)

	assert.Equal(t, "28162080", records[0].HadmID)
	assert.Equal(t, "22995465", records[1].HadmID)
	for _, rec := range records {
		assert.Equal(t, "doctor-model", rec.DoctorEngineName)
		assert.Equal(t, "patient-model", rec.PatientEngineName)
		assert.Len(t, rec.DialogHistory, 4)
	}

	// nothing written for splits that were not requested
	_, err = os.Stat(OutputPath(cfg.Simulation.OutputDir, "info", "patient-model"))
	assert.True(t, os.IsNotExist(err))
}

func TestBatchIdempotentWithDeterministicBackend(t *testing.T) {
	cfg, ds := batchFixture(t)
	path := OutputPath(cfg.Simulation.OutputDir, "persona", "patient-model")

	run := func() []byte {
		stub := &stubClient{models: []string{"doctor-model", "patient-model"}}
		batch := &Batch{Config: cfg, Client: stub, Dataset: ds}
		require.NoError(t, batch.Run(context.Background(), "doctor-model", []string{"patient-model"}, []string{"persona"}, 0))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestBatchHonorsLimit(t *testing.T) {
	cfg, ds := batchFixture(t)
	stub := &stubClient{models: []string{"doctor-model", "patient-model"}}
	batch := &Batch{Config: cfg, Client: stub, Dataset: ds}

	require.NoError(t, batch.Run(context.Background(), "doctor-model", []string{"patient-model"}, []string{"persona"}, 1))

	records := readRecords(t, OutputPath(cfg.Simulation.OutputDir, "persona", "patient-model"))
	assert.Len(t, records, 1)
}

func TestBatchRecordsIncompleteDialogues(t *testing.T) {
	cfg, ds := batchFixture(t)
	// first dialogue fails at its third generation; the second proceeds
	stub := &stubClient{models: []string{"doctor-model", "patient-model"}, failAt: 3}
	batch := &Batch{Config: cfg, Client: stub, Dataset: ds}

	require.NoError(t, batch.Run(context.Background(), "doctor-model", []string{"patient-model"}, []string{"persona"}, 0))

	records := readRecords(t, OutputPath(cfg.Simulation.OutputDir, "persona", "patient-model"))
	require.Len(t, records, 2)
	assert.True(t, records[0].Incomplete)
	assert.Len(t, records[0].DialogHistory, 2)
	assert.False(t, records[1].Incomplete)
}

func TestBatchFailsFastWhenDoctorModelUnavailable(t *testing.T) {
	cfg, ds := batchFixture(t)
	stub := &stubClient{models: []string{"patient-model"}}
	batch := &Batch{Config: cfg, Client: stub, Dataset: ds}

	err := batch.Run(context.Background(), "doctor-model", []string{"patient-model"}, []string{"persona"}, 0)
	var authErr *llm.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "doctor-model", authErr.Model)
}

func TestBatchSkipsUnavailablePatientModel(t *testing.T) {
	cfg, ds := batchFixture(t)
	stub := &stubClient{models: []string{"doctor-model"}}
	batch := &Batch{Config: cfg, Client: stub, Dataset: ds}

	require.NoError(t, batch.Run(context.Background(), "doctor-model", []string{"patient-model"}, []string{"persona"}, 0))

	_, err := os.Stat(OutputPath(cfg.Simulation.OutputDir, "persona", "patient-model"))
	assert.True(t, os.IsNotExist(err))
}
