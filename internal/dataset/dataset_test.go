package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientsim/pkg"
)

const profilesJSON = `[
  {"hadm_id": "28162080", "age": 58, "gender": "F", "chiefcomplaint": "chest pain",
   "diagnosis": "acute coronary syndrome",
   "cefr": "B", "personality": "plain", "recall_level": "high", "dazed_level": "normal"},
  {"hadm_id": "22995465", "age": 41, "gender": "M", "chiefcomplaint": "abdominal pain",
   "diagnosis": "appendicitis"},
  {"hadm_id": "", "age": 70, "chiefcomplaint": "dizziness", "diagnosis": "vertigo"},
  {"hadm_id": "30011111", "age": 33, "chiefcomplaint": "headache", "diagnosis": "migraine",
   "cefr": "Z"}
]`

const manifestJSON = `{
  "persona": ["28162080", "22995465", "99999999"],
  "info": ["22995465"],
  "valid": ["28162080"]
}`

func writeDataset(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "patient_profile.json")
	manifestPath := filepath.Join(dir, "split_manifest.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(profilesJSON), 0o644))
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestJSON), 0o644))
	return profilePath, manifestPath
}

func TestLoadSkipsMalformedProfiles(t *testing.T) {
	profilePath, manifestPath := writeDataset(t)
	ds, err := Load(profilePath, manifestPath)
	require.NoError(t, err)

	// the empty hadm_id and the invalid cefr entries are dropped
	assert.Equal(t, 2, ds.Len())
	_, ok := ds.Profile("30011111")
	assert.False(t, ok)
}

func TestLoadAppliesPersonaDefaults(t *testing.T) {
	profilePath, manifestPath := writeDataset(t)
	ds, err := Load(profilePath, manifestPath)
	require.NoError(t, err)

	p, ok := ds.Profile("22995465")
	require.True(t, ok)
	assert.Equal(t, pkg.CEFRIntermediate, p.CEFR)
	assert.Equal(t, pkg.PersonalityPlain, p.Personality)
	assert.Equal(t, pkg.RecallMedium, p.RecallLevel)
	assert.Equal(t, pkg.DazedNormal, p.DazedLevel)
}

func TestSplitProfilesResolvesManifestOrder(t *testing.T) {
	profilePath, manifestPath := writeDataset(t)
	ds, err := Load(profilePath, manifestPath)
	require.NoError(t, err)

	// unknown manifest id 99999999 is skipped
	persona := ds.SplitProfiles("persona", 0)
	require.Len(t, persona, 2)
	assert.Equal(t, "28162080", persona[0].HadmID)
	assert.Equal(t, "22995465", persona[1].HadmID)

	assert.Len(t, ds.SplitProfiles("persona", 1), 1)
	assert.Len(t, ds.SplitProfiles("info", 0), 1)
	assert.Empty(t, ds.SplitProfiles("nonexistent", 0))
}

func TestLoadRejectsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{not json"), 0o644))
	goodProfiles, goodManifest := writeDataset(t)

	_, err := Load(badPath, goodManifest)
	assert.Error(t, err)

	_, err = Load(goodProfiles, badPath)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"), goodManifest)
	assert.Error(t, err)
}
