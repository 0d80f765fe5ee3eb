package dataset

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"os"

	"patientsim/pkg"
)

// Error marks a malformed profile or manifest entry. Bad entries are skipped
// and logged; the rest of the dataset still loads.
type Error struct {
	HadmID string
	Reason string
}

func (e *Error) Error() string {
	if e.HadmID == "" {
		return "dataset: " + e.Reason
	}
	return fmt.Sprintf("dataset: profile %s: %s", e.HadmID, e.Reason)
}

// Dataset holds the patient profiles and the split manifest, loaded once and
// immutable afterwards.
type Dataset struct {
	profiles map[string]pkg.PatientProfile
	manifest pkg.SplitManifest
}

// Load reads the profile JSON array and the split manifest. A file that
// cannot be read or parsed at all is fatal; individual malformed entries are
// skipped with a warning.
func Load(profilePath, manifestPath string) (*Dataset, error) {
	profileData, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("read patient profiles: %w", err)
	}
	var raw []pkg.PatientProfile
	if err := json.Unmarshal(profileData, &raw); err != nil {
		return nil, fmt.Errorf("parse patient profiles %s: %w", profilePath, err)
	}

	profiles := make(map[string]pkg.PatientProfile, len(raw))
	for i := range raw {
		p := normalize(raw[i])
		if err := validate(p); err != nil {
			log.Warn("skipping malformed profile", "error", err)
			continue
		}
		profiles[p.HadmID] = p
	}

	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read split manifest: %w", err)
	}
	var manifest pkg.SplitManifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, fmt.Errorf("parse split manifest %s: %w", manifestPath, err)
	}

	log.Info("loaded patient dataset", "profiles", len(profiles), "splits", len(manifest))
	return &Dataset{profiles: profiles, manifest: manifest}, nil
}

// Len returns the number of usable profiles.
func (d *Dataset) Len() int { return len(d.profiles) }

// Profile looks up one profile by hadm_id.
func (d *Dataset) Profile(hadmID string) (pkg.PatientProfile, bool) {
	p, ok := d.profiles[hadmID]
	return p, ok
}

// SplitProfiles resolves a split name to its profiles in manifest order,
// capped at limit when limit is positive. Manifest ids with no matching
// profile are skipped with a warning.
func (d *Dataset) SplitProfiles(split string, limit int) []pkg.PatientProfile {
	ids := d.manifest[split]
	out := make([]pkg.PatientProfile, 0, len(ids))
	for _, id := range ids {
		p, ok := d.profiles[id]
		if !ok {
			log.Warn("manifest id has no profile", "split", split, "hadm_id", id)
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// normalize fills absent persona attributes with the dataset's defaults.
func normalize(p pkg.PatientProfile) pkg.PatientProfile {
	if p.CEFR == "" {
		p.CEFR = pkg.CEFRIntermediate
	}
	if p.Personality == "" {
		p.Personality = pkg.PersonalityPlain
	}
	if p.RecallLevel == "" {
		p.RecallLevel = pkg.RecallMedium
	}
	if p.DazedLevel == "" {
		p.DazedLevel = pkg.DazedNormal
	}
	return p
}

func validate(p pkg.PatientProfile) error {
	if p.HadmID == "" {
		return &Error{Reason: "missing hadm_id"}
	}
	if !p.CEFR.Valid() {
		return &Error{HadmID: p.HadmID, Reason: fmt.Sprintf("invalid cefr %q", p.CEFR)}
	}
	if !p.Personality.Valid() {
		return &Error{HadmID: p.HadmID, Reason: fmt.Sprintf("invalid personality %q", p.Personality)}
	}
	if !p.RecallLevel.Valid() {
		return &Error{HadmID: p.HadmID, Reason: fmt.Sprintf("invalid recall_level %q", p.RecallLevel)}
	}
	if !p.DazedLevel.Valid() {
		return &Error{HadmID: p.HadmID, Reason: fmt.Sprintf("invalid dazed_level %q", p.DazedLevel)}
	}
	return nil
}
