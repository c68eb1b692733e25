package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/journeys-backend/internal/apperror"
	"github.com/AnshRaj112/journeys-backend/internal/logging"
	"github.com/AnshRaj112/journeys-backend/internal/models"
	"github.com/AnshRaj112/journeys-backend/internal/services"
	"github.com/AnshRaj112/journeys-backend/pkg/utils"
)

// UserStore is the persistence the user handlers need. Create must return
// services.ErrEmailTaken when the email is already registered.
type UserStore interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type SignupRequest struct {
	FirstName    string   `json:"firstName" validate:"required"`
	LastName     string   `json:"lastName" validate:"required"`
	MobileNumber string   `json:"mobileNumber"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=6"`
	Places       []string `json:"places"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
}

type UserHandler struct {
	store   UserStore
	timeout time.Duration
}

func NewUserHandler(store UserStore, timeout time.Duration) *UserHandler {
	return &UserHandler{store: store, timeout: timeout}
}

const invalidCredentials = "Invalid credentials, could not log you in."

// dummyPasswordHash is verified against when the email is unknown.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := utils.HashPassword("journeys-unknown-account")
	if err != nil {
		panic(err)
	}
	return hash
})

// normalizeEmail lowercases and trims so lookups match what signup stored.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUsers handles GET /api/users
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	users, err := h.store.FindAll(ctx)
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Fetching users failed, please try again later.", http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": presentUsers(users)})
}

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		apperror.Handle(w, r, err)
		return
	}
	email := normalizeEmail(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	existing, err := h.store.FindByEmail(ctx, email)
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Signing up failed, please try again later.", http.StatusInternalServerError))
		return
	}
	if existing != nil {
		apperror.Handle(w, r, apperror.New("User exists already, please login instead.", http.StatusUnprocessableEntity))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Signing up failed, please try again.", http.StatusInternalServerError))
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Signing up failed, please try again.", http.StatusInternalServerError))
		return
	}

	places := req.Places
	if places == nil {
		places = []string{}
	}

	user := &models.User{
		ID:           id.String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Email:        email,
		Password:     hash,
		Image:        models.DefaultUserImage,
		Places:       places,
	}

	if err := h.store.Create(ctx, user); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			apperror.Handle(w, r, apperror.Wrap(err, "User exists already, please login instead.", http.StatusUnprocessableEntity))
			return
		}
		apperror.Handle(w, r, apperror.Wrap(err, "Signing up failed, please try again.", http.StatusInternalServerError))
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("User signed up")
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": presentUser(user)})
}

// Login handles POST /api/users/login. Unknown email and wrong password get the same 401.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, invalidCredentials, http.StatusUnauthorized))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.store.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Logging in failed, please try again later.", http.StatusInternalServerError))
		return
	}
	if user == nil {
		// Pay the same hashing cost as a known email so response time does not reveal accounts.
		utils.VerifyPassword(req.Password, dummyPasswordHash())
		apperror.Handle(w, r, apperror.New(invalidCredentials, http.StatusUnauthorized))
		return
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if errors.Is(err, utils.ErrInvalidHash) {
		apperror.Handle(w, r, apperror.Wrap(fmt.Errorf("user %s: stored password: %w", user.ID, err), invalidCredentials, http.StatusUnauthorized))
		return
	}
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Logging in failed, please try again later.", http.StatusInternalServerError))
		return
	}
	if !ok {
		apperror.Handle(w, r, apperror.New(invalidCredentials, http.StatusUnauthorized))
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message:      "Logged in!",
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		MobileNumber: user.MobileNumber,
	})
}
