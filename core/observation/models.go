package observation

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pepschool/obshub/core"
)

// Observation types
const (
	TypeVoice = "voice"
	TypeText  = "text"
)

// Placeholder texts written by the voice-note pipeline.
const (
	TranscribingText        = "(transcribing...)"
	TranscriptionFailedText = "(transcription failed)"
)

// Observation is a single staff note about a student. TeacherID is the
// creator's uid and is the record's immutable owner reference: every mutation
// path preserves it, including reassignment to another student.
type Observation struct {
	ID          string    `json:"id" db:"id"`
	StudentID   string    `json:"student_id" db:"student_id"`
	ClassroomID string    `json:"classroom_id" db:"classroom_id"`
	TeacherID   string    `json:"teacher_id" db:"teacher_id"`
	TeacherName string    `json:"teacher_name" db:"teacher_name"`
	TeacherEmail string   `json:"teacher_email" db:"teacher_email"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"` // UTC
	Text        string    `json:"text" db:"text"`
	Type        string    `json:"type" db:"type"` // voice | text
	IsStarred   bool      `json:"is_starred" db:"is_starred"`
	IsPrivate   bool      `json:"is_private" db:"is_private"`
	IsDraft     bool      `json:"is_draft" db:"is_draft"`
	EditCount   int       `json:"edit_count" db:"edit_count"`

	// voice-note fields
	DurationSec   int     `json:"duration_sec,omitempty" db:"duration_sec"`
	AudioURL      string  `json:"audio_url,omitempty" db:"audio_url"`
	STTConfidence float64 `json:"stt_confidence,omitempty" db:"stt_confidence"`

	Tags []string `json:"tags" db:"-"`

	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	LastEditedBy string    `json:"last_edited_by,omitempty" db:"last_edited_by"`
	LastEditedAt time.Time `json:"last_edited_at,omitempty" db:"last_edited_at"`
}

// CreatorName returns a display name for the note's creator.
func (o *Observation) CreatorName() string {
	if o.TeacherName != "" {
		return o.TeacherName
	}
	if o.TeacherEmail != "" {
		return o.TeacherEmail
	}
	return "Unknown Teacher"
}

// PendingTranscription reports whether the voice-note pipeline still owes
// this observation its transcript.
func (o *Observation) PendingTranscription() bool {
	return o.Type == TypeVoice && o.Text == TranscribingText
}

// NewObservation contains information needed to record a new note for one
// student.
type NewObservation struct {
	StudentID   string   `json:"student_id" validate:"required"`
	Text        string   `json:"text"`
	Type        string   `json:"type" validate:"required,obstype"`
	IsPrivate   bool     `json:"is_private"`
	IsDraft     bool     `json:"is_draft"`
	DurationSec int      `json:"duration_sec"`
	Tags        []string `json:"tags"`
}

func (no *NewObservation) Validate() error {
	no.StudentID = core.CleanString(no.StudentID)
	no.Text = core.CleanString(no.Text)
	no.Type = core.CleanString(no.Type, true /* lower */)

	if err := core.Validate.Struct(no); err != nil {
		return err
	}
	if no.Type == TypeText && no.Text == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "text", Error: "this field is required"})
	}
	return nil
}

// Custom validators

var (
	obsTypeTag  = "obstype"
	obsTypeText = "must be one of 'voice' or 'text'"
)

func init() {
	RegisterTypeValidator(core.Validate, core.Translator)
}

// RegisterTypeValidator registers the `obstype` validation tag.
func RegisterTypeValidator(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(obsTypeTag, func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		return t == TypeVoice || t == TypeText
	})
	core.RegisterCustomTranslation(validate, translator, obsTypeTag, obsTypeText)
}
