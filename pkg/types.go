package pkg

// DialogueRole describes who authored a turn. There are only two roles in a
// simulated interview: the doctor and the patient.
type DialogueRole string

const (
	RoleDoctor  DialogueRole = "Doctor"
	RolePatient DialogueRole = "Patient"
)

// CEFRLevel is the language proficiency tier of a simulated patient.
type CEFRLevel string

const (
	CEFRBasic        CEFRLevel = "A"
	CEFRIntermediate CEFRLevel = "B"
	CEFRAdvanced     CEFRLevel = "C"
)

func (l CEFRLevel) Valid() bool {
	switch l {
	case CEFRBasic, CEFRIntermediate, CEFRAdvanced:
		return true
	}
	return false
}

// Personality controls the patient's cooperation stance.
type Personality string

const (
	PersonalityPlain    Personality = "plain"
	PersonalityDistrust Personality = "distrust"
)

func (p Personality) Valid() bool {
	return p == PersonalityPlain || p == PersonalityDistrust
}

// RecallLevel controls how completely the patient recalls clinical facts.
type RecallLevel string

const (
	RecallLow    RecallLevel = "low"
	RecallMedium RecallLevel = "medium"
	RecallHigh   RecallLevel = "high"
)

func (r RecallLevel) Valid() bool {
	switch r {
	case RecallLow, RecallMedium, RecallHigh:
		return true
	}
	return false
}

// DazedLevel controls the patient's mental clarity.
type DazedLevel string

const (
	DazedNormal   DazedLevel = "normal"
	DazedConfused DazedLevel = "confused"
)

func (d DazedLevel) Valid() bool {
	return d == DazedNormal || d == DazedConfused
}

// PatientProfile is one admission record from the patient profile dataset.
// Profiles are loaded once and never mutated during a run.
type PatientProfile struct {
	HadmID string `json:"hadm_id"`

	// Demographics
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	Race            string `json:"race"`
	MaritalStatus   string `json:"marital_status"`
	Occupation      string `json:"occupation"`
	LivingSituation string `json:"living_situation"`
	Children        string `json:"children"`

	// Clinical facts the patient "knows"
	ChiefComplaint         string `json:"chiefcomplaint"`
	Pain                   string `json:"pain"`
	Diagnosis              string `json:"diagnosis"`
	PresentIllnessPositive string `json:"present_illness_positive"`
	PresentIllnessNegative string `json:"present_illness_negative"`
	MedicalHistory         string `json:"medical_history"`
	Medication             string `json:"medication"`
	Allergies              string `json:"allergies"`
	Tobacco                string `json:"tobacco"`
	Alcohol                string `json:"alcohol"`
	IllicitDrug            string `json:"illicit_drug"`
	Exercise               string `json:"exercise"`
	FamilyMedicalHistory   string `json:"family_medical_history"`

	// Persona attributes
	CEFR        CEFRLevel   `json:"cefr"`
	Personality Personality `json:"personality"`
	RecallLevel RecallLevel `json:"recall_level"`
	DazedLevel  DazedLevel  `json:"dazed_level"`

	// Comma-separated vocabulary lists tiered by CEFR level.
	MedA   string `json:"med_A"`
	MedB   string `json:"med_B"`
	MedC   string `json:"med_C"`
	CEFRA1 string `json:"cefr_A1"`
	CEFRA2 string `json:"cefr_A2"`
	CEFRB1 string `json:"cefr_B1"`
	CEFRB2 string `json:"cefr_B2"`
	CEFRC1 string `json:"cefr_C1"`
	CEFRC2 string `json:"cefr_C2"`
}

// DialogueTurn is one utterance in a simulated interview. The ordered
// sequence of turns forms the dialogue history and is append-only while a
// simulation runs.
type DialogueTurn struct {
	Role    DialogueRole `json:"role"`
	Content string       `json:"content"`
}

// DialogueRecord is the persisted result of one orchestration run: the
// patient's identity and persona, the engines that played each role, and the
// full turn history. It is immutable once written.
type DialogueRecord struct {
	HadmID            string         `json:"hadm_id"`
	Age               int            `json:"age"`
	Gender            string         `json:"gender"`
	CEFRType          CEFRLevel      `json:"cefr_type"`
	PersonalityType   Personality    `json:"personality_type"`
	RecallLevelType   RecallLevel    `json:"recall_level_type"`
	DazedLevelType    DazedLevel     `json:"dazed_level_type"`
	PatientEngineName string         `json:"patient_engine_name"`
	DoctorEngineName  string         `json:"doctor_engine_name"`
	DialogHistory     []DialogueTurn `json:"dialog_history"`
	Diagnosis         string         `json:"diagnosis"`
	Incomplete        bool           `json:"incomplete,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// SplitManifest maps a split name (persona, info, valid) to the hadm_ids
// belonging to that split.
type SplitManifest map[string][]string
