package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/store"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// RegisterInput is the payload for creating a user.
type RegisterInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserService struct {
	store store.Store
	cost  int
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s, cost: bcrypt.DefaultCost}
}

// Register validates in, hashes the password and stores the user.
// A taken username fails with catalog.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.User{}, &catalog.ValidationError{Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.User{}, &catalog.ValidationError{Fields: map[string]string{
			"password": "The password must not exceed 72 bytes.",
		}}
	}
	if err != nil {
		return models.User{}, catalog.Unexpected("users.hash", err)
	}

	u, err := s.store.CreateUser(ctx, models.UserInput{Username: in.Username, Password: string(hash)})
	if err != nil {
		return models.User{}, catalog.Unexpected("users.create", err)
	}
	return u, nil
}

// Find returns the user with username or a catalog.ErrNotFound error.
func (s *UserService) Find(ctx context.Context, username string) (models.User, error) {
	u, ok, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, catalog.Unexpected("users.find", err)
	}
	if !ok {
		return models.User{}, catalog.NotFound("user", username)
	}
	return u, nil
}

// CheckPassword reports whether password matches the stored hash of u.
func CheckPassword(u models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
