package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"aletheia/internal/models"
)

type AuthRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	CountProgenitors() (int, error)
}

type authRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewAuthRepository(db *sqlx.DB, log *logrus.Logger) AuthRepository {
	return &authRepository{db: db, log: log}
}

func (r *authRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (email, name, password_hash, is_progenitor) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowx(query, user.Email, user.Name, user.PasswordHash, user.IsProgenitor).Scan(&user.ID, &user.CreatedAt)
}

func (r *authRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, name, password_hash, is_progenitor, created_at FROM users WHERE email = $1`
	err := r.db.Get(&user, query, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *authRepository) CountProgenitors() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_progenitor = true`
	err := r.db.Get(&count, query)
	if err != nil {
		return 0, err
	}
	return count, nil
}
