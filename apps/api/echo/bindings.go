package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
)

const filterDateLayout = "2006-01-02"

type LoginRequest struct {
	ID          string `json:"id"` // provider uid; empty on the legacy path
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

func (lr *LoginRequest) Validate() error {
	lr.ID = core.CleanString(lr.ID)
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	lr.DisplayName = core.CleanString(lr.DisplayName)
	return core.Validate.Struct(lr)
}

type LoginResponse struct {
	Token string    `json:"token"`
	Role  string    `json:"role"`
	User  user.User `json:"user"`
}

// CreateObservationRequest records one note per selected student, the way the
// capture form submits a multi-select.
type CreateObservationRequest struct {
	StudentIDs  []string `json:"student_ids" validate:"required,min=1"`
	Text        string   `json:"text"`
	Type        string   `json:"type" validate:"required"`
	IsPrivate   bool     `json:"is_private"`
	IsDraft     bool     `json:"is_draft"`
	DurationSec int      `json:"duration_sec"`
	Tags        []string `json:"tags"`
}

func (r *CreateObservationRequest) Validate() error {
	r.Text = core.CleanString(r.Text)
	r.Type = core.CleanString(r.Type, true /* lower */)
	return core.Validate.Struct(r)
}

func (r *CreateObservationRequest) forStudent(studentID string) observation.NewObservation {
	return observation.NewObservation{
		StudentID:   studentID,
		Text:        r.Text,
		Type:        r.Type,
		IsPrivate:   r.IsPrivate,
		IsDraft:     r.IsDraft,
		DurationSec: r.DurationSec,
		Tags:        r.Tags,
	}
}

type EditObservationRequest struct {
	Text string `json:"text" validate:"required"`
}

func (r *EditObservationRequest) Validate() error {
	r.Text = core.CleanString(r.Text)
	return core.Validate.Struct(r)
}

type StarObservationRequest struct {
	IsStarred bool `json:"is_starred"`
}

type ReassignObservationRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

func (r *ReassignObservationRequest) Validate() error {
	r.StudentID = core.CleanString(r.StudentID)
	return core.Validate.Struct(r)
}

// ObservationResponse pairs a note with the acting user's permission flags so
// clients never have to re-derive the matrix.
type ObservationResponse struct {
	observation.Observation
	Permissions observation.Permissions `json:"permissions"`
}

func newObservationResponse(obs observation.Observation, usr user.User) ObservationResponse {
	return ObservationResponse{
		Observation: obs,
		Permissions: observation.PermissionsFor(&obs, &usr, usr.Role),
	}
}

func newObservationResponses(observations []observation.Observation, usr user.User) []ObservationResponse {
	resp := make([]ObservationResponse, 0, len(observations))
	for _, obs := range observations {
		resp = append(resp, newObservationResponse(obs, usr))
	}
	return resp
}

// bindTimelineFilter reads the optional timeline filter query params.
// Dates are calendar days, "2006-01-02".
func bindTimelineFilter(ctx echo.Context) (*observation.QueryFilter, error) {
	var filter observation.QueryFilter

	if raw := ctx.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(filterDateLayout, raw)
		if err != nil {
			return nil, core.NewValidationError(err, core.FieldError{Field: "date_from", Error: "invalid date, expected YYYY-MM-DD"})
		}
		filter.DateFrom = t
	}
	if raw := ctx.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(filterDateLayout, raw)
		if err != nil {
			return nil, core.NewValidationError(err, core.FieldError{Field: "date_to", Error: "invalid date, expected YYYY-MM-DD"})
		}
		filter.DateTo = t
	}
	filter.Creator = ctx.QueryParam("creator")
	filter.Type = ctx.QueryParam("type")
	filter.Clean()

	if filter.IsEmpty() {
		return nil, nil
	}
	return &filter, nil
}
