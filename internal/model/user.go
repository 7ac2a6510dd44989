package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers return
// the PublicUser projection instead, which never carries the
// password hash.
//
// Fields:
//  ID           – opaque UUID primary key (never sequential or guessable).
//  Email        – unique, lower-cased email address.
//  Username     – unique display handle.
//  FirstName    – optional given name.
//  LastName     – optional family name.
//  PasswordHash – bcrypt hashed password; set only via the hasher.
//  IsActive     – whether the account may log in.
//  IsStaff      – staff flag exposed in the public projection.
//  IsSuperuser  – full administrative rights.
//  BirthDate    – optional date of birth (date precision only).
//  DateJoined   – timestamp of registration.
type User struct {
	ID           string     // users.id (uuid)
	Email        string     // users.email
	Username     string     // users.username
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	PasswordHash string     // users.password_hash
	IsActive     bool       // users.is_active
	IsStaff      bool       // users.is_staff
	IsSuperuser  bool       // users.is_superuser
	BirthDate    *time.Time // users.birth_date (nullable)
	DateJoined   time.Time  // users.date_joined
}

// PublicUser is the subset of user fields that is safe to return to
// clients.  It deliberately excludes the password hash and the
// superuser flag.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

// Public returns the client-facing projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
	}
}

// Age derives the user's age in whole years from the birth date.
// The second return value is false when no birth date is recorded.
func (u User) Age() (int, bool) {
	if u.BirthDate == nil {
		return 0, false
	}
	now := time.Now().UTC()
	b := u.BirthDate
	age := now.Year() - b.Year()
	// Subtract one if the birthday has not occurred yet this year.
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age, true
}
