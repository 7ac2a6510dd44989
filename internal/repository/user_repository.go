package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avezina/identity-service/internal/model"
	"github.com/avezina/identity-service/internal/utils"
)

const userColumns = "id,email,username,first_name,last_name,password_hash,is_active,is_staff,is_superuser,birth_date,date_joined"

// dummyHash is a valid bcrypt hash of a random string. Authenticate
// runs a compare against it when the email is unknown so both failure
// paths cost one bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepo persists user records in the `users` table.
type UserRepo struct {
	DB   *sql.DB
	Cost int // bcrypt cost for password hashing
}

func NewUserRepo(db *sql.DB, cost int) *UserRepo { return &UserRepo{DB: db, Cost: cost} }

// CreateUserParams carries validated registration input into Create.
// Password is plaintext here and hashed exactly once, inside Create.
type CreateUserParams struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	BirthDate *time.Time
}

// Create inserts a user and returns the stored record. Uniqueness of
// email and username is enforced by the database; a violation comes
// back as ErrDuplicateUser.
func (r *UserRepo) Create(ctx context.Context, p CreateUserParams) (model.User, error) {
	return r.create(ctx, p, false, false)
}

// CreateSuperuser is Create with the staff and superuser flags set.
// Used by the provisioning CLI, not by any HTTP endpoint.
func (r *UserRepo) CreateSuperuser(ctx context.Context, p CreateUserParams) (model.User, error) {
	return r.create(ctx, p, true, true)
}

func (r *UserRepo) create(ctx context.Context, p CreateUserParams, staff, super bool) (model.User, error) {
	u := model.User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(p.Email)),
		Username:    strings.TrimSpace(p.Username),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		IsActive:    true,
		IsStaff:     staff,
		IsSuperuser: super,
		BirthDate:   p.BirthDate,
		DateJoined:  time.Now().UTC(),
	}
	hash, err := utils.HashPassword(p.Password, r.Cost)
	if err != nil {
		return model.User{}, err
	}
	u.PasswordHash = hash

	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		u.ID, u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash,
		u.IsActive, u.IsStaff, u.IsSuperuser, u.BirthDate, u.DateJoined)
	if err != nil {
		// MySQL error 1062: duplicate entry for a unique index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrDuplicateUser
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by its UUID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// Authenticate looks the user up by email and verifies the password in
// one operation. Unknown email and wrong password both return
// ErrInvalidCredentials, and both paths perform one bcrypt compare so
// response timing does not reveal whether the email exists.
func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.VerifyPassword(dummyHash, password)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u     model.User
		birth sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &birth, &u.DateJoined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	if birth.Valid {
		t := birth.Time
		u.BirthDate = &t
	}
	return u, nil
}
