package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Json604/labubu-ecom/internal/domain"
	"github.com/Json604/labubu-ecom/internal/server/repository"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "invalid_request",
			"name, email and a password of at least 6 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to process password")
		return
	}

	user := &domain.User{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
	}
	if err := s.repo.CreateUser(r.Context(), user, string(hash)); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		log.Printf("failed to create user: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		log.Printf("failed to sign token: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, hash, err := s.repo.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	if err != nil {
		log.Printf("failed to look up user: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to look up user")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		log.Printf("failed to sign token: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// handleMe returns the authenticated user's profile, the refresh path for
// a client whose stored copy of the user has gone stale.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	user, err := s.repo.UserByID(r.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		// A valid token for a user that no longer exists.
		respondError(w, http.StatusUnauthorized, "unauthorized", "account no longer exists")
		return
	}
	if err != nil {
		log.Printf("failed to load user: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}
