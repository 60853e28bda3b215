package user

import (
	"context"
	"errors"
	"time"

	"github.com/pepschool/obshub/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrIDExists    = errors.New("a user with this id already exists")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	// Repository is the directory-store boundary. Implementations must return
	// ErrNotFound for missing records; any other error is treated as a
	// transient store fault by callers.
	Repository interface {
		CheckUniqueness(ctx context.Context, id, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		QueryUsersByRole(ctx context.Context, role string) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(id, email string, exclUsers ...User) error
		Create(ctx context.Context, nu NewUser) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Admins(ctx context.Context) ([]User, error)
		Update(ctx context.Context, id string, uu UpdateUser) (User, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(id, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUniqueness(context.Background(), id, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrIDExists:
			field = "id"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:                 nu.ID,
		Email:              nu.Email,
		DisplayName:        nu.DisplayName,
		PhotoURL:           nu.PhotoURL,
		Role:               nu.Role,
		AssignedClassrooms: nu.AssignedClassrooms,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Admins(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsersByRole(ctx, RoleAdmin)
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:                 id,
		DisplayName:        uu.DisplayName,
		PhotoURL:           uu.PhotoURL,
		Role:               uu.Role,
		AssignedClassrooms: uu.AssignedClassrooms,
		UpdatedAt:          time.Now().UTC(),
	}
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}
