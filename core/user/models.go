package user

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pepschool/obshub/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

var AllRoles = []string{RoleAdmin, RoleTeacher}

// User is a directory record. ID is the identity-provider uid; it is assigned
// at provisioning time and never changes.
type User struct {
	ID                 string    `json:"id" db:"id"`
	Email              string    `json:"email" db:"email"`
	DisplayName        string    `json:"display_name" db:"display_name"`
	PhotoURL           string    `json:"photo_url" db:"photo_url"`
	Role               string    `json:"role" db:"role"` // empty until assigned
	AssignedClassrooms []string  `json:"assigned_classrooms" db:"-"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// HasRole reports whether a role has been assigned at all. A record without a
// role exists in the directory but may not enter the application.
func (u *User) HasRole() bool {
	return u.Role != ""
}

// NewUser contains information needed to provision a new directory User.
type NewUser struct {
	ID                 string   `json:"id" validate:"required"`
	Email              string   `json:"email" validate:"required,email"`
	DisplayName        string   `json:"display_name" validate:"required"`
	PhotoURL           string   `json:"photo_url"`
	Role               string   `json:"role" validate:"omitempty,role"`
	AssignedClassrooms []string `json:"assigned_classrooms"`
}

func (nu *NewUser) Validate(svc Service) error {
	nu.ID = core.CleanString(nu.ID)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.DisplayName = core.CleanString(nu.DisplayName)
	nu.AssignedClassrooms = core.CleanStrings(nu.AssignedClassrooms)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.ID, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	DisplayName        string   `json:"display_name"`
	PhotoURL           string   `json:"photo_url"`
	Role               string   `json:"role" validate:"omitempty,role"`
	AssignedClassrooms []string `json:"assigned_classrooms"`
}

func (uu *UpdateUser) Validate(origUsr User) error {
	name := core.CleanString(uu.DisplayName)
	if name != "" {
		uu.DisplayName = name
	} else {
		uu.DisplayName = origUsr.DisplayName
	}
	if uu.PhotoURL == "" {
		uu.PhotoURL = origUsr.PhotoURL
	}
	// an omitted role or classroom list keeps the current assignment;
	// clearing a role would lock the user out at the gate
	if uu.Role == "" {
		uu.Role = origUsr.Role
	}
	uu.AssignedClassrooms = core.CleanStrings(uu.AssignedClassrooms)
	if uu.AssignedClassrooms == nil {
		uu.AssignedClassrooms = origUsr.AssignedClassrooms
	}
	return core.Validate.Struct(uu)
}

// Custom validators

var (
	roleTag  = "role"
	roleText = "invalid role"
)

func init() {
	RegisterRoleValidator(core.Validate, core.Translator)
}

// RegisterRoleValidator registers the `role` validation tag: the field must be
// one of the known roles.
func RegisterRoleValidator(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		for _, r := range AllRoles {
			if role == r {
				return true
			}
		}
		return false
	})
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}
