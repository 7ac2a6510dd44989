package handler

import (
	"context"  // context with cancellation for DB and blacklist calls
	"errors"   // sentinel error matching at the response boundary
	"net/http" // HTTP status codes and primitives
	"strings"  // string trimming for credentials
	"time"     // request-scoped DB timeouts, birth date parsing

	validation "github.com/go-ozzo/ozzo-validation" // request validation rules
	"github.com/go-ozzo/ozzo-validation/is"         // email format rule
	"github.com/labstack/echo/v4"                   // Echo framework for HTTP routing

	"github.com/avezina/identity-service/internal/model"
	"github.com/avezina/identity-service/internal/queue"
	"github.com/avezina/identity-service/internal/repository"
	queue_publisher "github.com/avezina/identity-service/internal/service"
	"github.com/avezina/identity-service/internal/token"
	"github.com/avezina/identity-service/internal/validate"
)

// dbTimeout bounds each credential-store call.
const dbTimeout = 5 * time.Second

// UserStore is the credential-store collaborator: it persists user
// records, enforces uniqueness and verifies passwords. Backed by the
// MySQL repository in production and by an in-memory fake in tests.
type UserStore interface {
	Create(ctx context.Context, p repository.CreateUserParams) (model.User, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// EventPublisher emits a domain event after registration. It runs
// outside the request path; a nil publisher disables emission.
type EventPublisher func(ctx context.Context, ev queue.UserRegisteredEvent) error

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Users   UserStore
	Tokens  *token.Manager
	Publish EventPublisher
}

func NewAuthHandler(users UserStore, tokens *token.Manager) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Publish: queue_publisher.PublishUserRegistered}
}

// ----- DTOs -----

type registerReq struct {
	Email                string `json:"email"`
	Username             string `json:"username"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	BirthDate            string `json:"birth_date"` // YYYY-MM-DD, optional
}

// Validate applies the registration rules. Password strength and the
// confirmation match are both reported under the "password" key so
// clients render them on the password field.
func (r registerReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Password,
			validation.Required,
			validation.By(validate.StrongPassword),
			validation.By(validate.StringEquals(r.PasswordConfirmation, "password fields didn't match")),
		),
		validation.Field(&r.PasswordConfirmation, validation.Required),
		validation.Field(&r.BirthDate, validation.Date("2006-01-02")),
	)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

// authResp is the token-pair response shape shared by register and
// login. The user projection never contains the password hash.
type authResp struct {
	Access  string           `json:"access"`
	Refresh string           `json:"refresh"`
	User    model.PublicUser `json:"user"`
}

// Register: validate input, create the user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		// validation.Errors marshals as a field -> message object.
		return c.JSON(http.StatusBadRequest, err)
	}

	var birth *time.Time
	if req.BirthDate != "" {
		t, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"birth_date": "must be a valid date"})
		}
		birth = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, repository.CreateUserParams{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birth,
	})
	if err != nil {
		// A uniqueness conflict is a normal validation outcome, not a fault.
		if errors.Is(err, repository.ErrDuplicateUser) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "user with this email or username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "an error occurred during registration"})
	}

	pair, err := h.Tokens.IssuePair(u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "failed to issue tokens"})
	}

	if h.Publish != nil {
		ev := queue.UserRegisteredEvent{
			UserID:       u.ID,
			Email:        u.Email,
			Username:     u.Username,
			RegisteredAt: u.DateJoined.Format(time.RFC3339),
		}
		// Fire and forget: the broker must never delay or fail a signup.
		go func() { _ = h.Publish(context.Background(), ev) }()
	}

	return c.JSON(http.StatusCreated, authResp{
		Access:  pair.Access.Value,
		Refresh: pair.Refresh.Value,
		User:    u.Public(),
	})
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password answer identically.
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "login failed"})
	}
	// Account status is only revealed after the password checked out.
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "user account is disabled"})
	}

	pair, err := h.Tokens.IssuePair(u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "failed to issue tokens"})
	}

	return c.JSON(http.StatusOK, authResp{
		Access:  pair.Access.Value,
		Refresh: pair.Refresh.Value,
		User:    u.Public(),
	})
}

// Logout: revoke the supplied refresh token. Revoking an already
// revoked token succeeds again; only undecodable tokens are rejected.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Refresh) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "refresh token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, strings.TrimSpace(req.Refresh)); err != nil {
		if isTokenError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "logout failed"})
	}
	return c.JSON(http.StatusResetContent, echo.Map{"detail": "logout successful"})
}

// Refresh: exchange a valid refresh token for a fresh access token.
// The refresh token itself is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Refresh) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "refresh token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	access, subject, err := h.Tokens.Refresh(ctx, strings.TrimSpace(req.Refresh))
	if err != nil {
		if isTokenError(err) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "refresh failed"})
	}
	// The subject must still resolve to a user; a token for a deleted
	// account is invalid no matter how good its signature is.
	if _, err := h.Users.GetByID(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "refresh failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"access": access.Value})
}

// Me: return the authenticated caller's profile. The JWT middleware
// has already verified the access token and loaded the user.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := c.Get("user").(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "authentication required"})
	}
	return c.JSON(http.StatusOK, u.Public())
}

// isTokenError reports whether err comes from the token layer (decode,
// type or revocation failures) as opposed to infrastructure.
func isTokenError(err error) bool {
	return errors.Is(err, token.ErrMalformed) ||
		errors.Is(err, token.ErrSignatureInvalid) ||
		errors.Is(err, token.ErrExpired) ||
		errors.Is(err, token.ErrNotYetValid) ||
		errors.Is(err, token.ErrWrongType) ||
		errors.Is(err, token.ErrRevoked)
}
