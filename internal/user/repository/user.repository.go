package repository

import (
	"database/sql"

	"github.com/andela-ekupara/dcman/internal/user/model"
	"github.com/andela-ekupara/dcman/pkg/logger"
)

const userColumns = "id, name, email, password_hash, role, created_at"

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Insert(u *model.User) error {
	_, err := r.DB.Exec(`INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.Password, u.Role, u.CreatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert user %s: %v", u.Email, err)
	}
	return err
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	row := r.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE email = $1", email)
	user, err := scanUser(row)
	if err != nil && err != sql.ErrNoRows {
		logger.Sugar.Errorf("Failed to get user by email %s: %v", email, err)
	}
	return user, err
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	row := r.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if err != nil && err != sql.ErrNoRows {
		logger.Sugar.Errorf("Failed to get user %s: %v", id, err)
	}
	return user, err
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
