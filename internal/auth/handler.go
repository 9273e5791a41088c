package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ayush/krishi-mitr/backend/internal/apperr"
	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/metrics"
	"github.com/ayush/krishi-mitr/backend/internal/models"
	"github.com/ayush/krishi-mitr/backend/internal/respond"
	"github.com/ayush/krishi-mitr/backend/internal/validation"
)

// DocumentStore is the part of the record store the handlers need.
type DocumentStore interface {
	Update(ctx context.Context, fn func(doc *models.Document) error) error
	View(ctx context.Context, fn func(doc *models.Document) error) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	store  DocumentStore
	hasher PasswordHasher
	log    *logger.Logger
}

func NewHandler(store DocumentStore, hasher PasswordHasher, log *logger.Logger) *Handler {
	return &Handler{store: store, hasher: hasher, log: log.WithComponent("auth")}
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	err := respond.Decode(r, &req)
	if err == nil {
		err = h.register(r.Context(), req)
	}
	metrics.Operation.WithLabelValues("register", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Message(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) register(ctx context.Context, req models.RegisterRequest) error {
	if err := validation.Struct(req, "Username and password are required"); err != nil {
		return err
	}
	username := strings.TrimSpace(*req.Username)
	password := *req.Password
	err := validation.First(
		func() error { return validation.Var(username, "min=4", "Username must be at least 4 characters") },
		func() error { return validation.Var(password, "min=6", "Password must be at least 6 characters") },
	)
	if err != nil {
		return err
	}

	hashed, err := h.hasher.Hash(password)
	if err != nil {
		return err
	}

	err = h.store.Update(ctx, func(doc *models.Document) error {
		for _, u := range doc.Users {
			if u.Username == username {
				return apperr.Validation("User already exists")
			}
		}
		doc.Users = append(doc.Users, models.User{Username: username, Password: hashed})
		return nil
	})
	if err != nil {
		return err
	}
	h.log.Infow("user registered", "username", username)
	return nil
}

// Login checks a username/password pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	err := respond.Decode(r, &req)
	var username string
	if err == nil {
		username, err = h.login(r.Context(), req)
	}
	metrics.Operation.WithLabelValues("login", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"message":  "Login successful",
		"username": username,
	})
}

// login never reveals whether the username exists.
func (h *Handler) login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := validation.Struct(req, "Username and password are required"); err != nil {
		return "", err
	}

	var username string
	err := h.store.View(ctx, func(doc *models.Document) error {
		for _, u := range doc.Users {
			if u.Username == *req.Username && h.hasher.Verify(u.Password, *req.Password) {
				username = u.Username
				return nil
			}
		}
		return apperr.Authentication("Invalid credentials")
	})
	return username, err
}
