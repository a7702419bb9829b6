package service

import (
	"database/sql"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/andela-ekupara/dcman/internal/apperr"
	"github.com/andela-ekupara/dcman/internal/user/model"
	"github.com/andela-ekupara/dcman/internal/user/repository"
)

const tokenTTL = 24 * time.Hour

type UserService struct {
	Repo      *repository.UserRepository
	JWTSecret []byte
}

func NewUserService(repo *repository.UserRepository, jwtSecret []byte) *UserService {
	return &UserService{Repo: repo, JWTSecret: jwtSecret}
}

func (s *UserService) Signup(req model.SignupRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.Repo.GetByEmail(req.Email); err == nil {
		return nil, apperr.New(apperr.Validation, "User validation failed").
			WithFields(map[string]string{"email": "is already registered"})
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	user := &model.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Insert(user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	user, err := s.Repo.GetByEmail(req.Email)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid email or password")
	} else if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Get(id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.ErrUserNotFound
	}
	user, err := s.Repo.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) issueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.JWTSecret)
}

func validationError(err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			fields[field] = ferr.Error()
		}
		return apperr.New(apperr.Validation, "User validation failed").WithFields(fields)
	}
	return apperr.New(apperr.Validation, err.Error())
}
