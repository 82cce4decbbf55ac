package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// validPhone accepts exactly ten digits, ignoring spaces and dashes.
func validPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits == 10
}

type authResponse struct {
	OK     bool              `json:"ok"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (m Main) writeAuthResponse(w http.ResponseWriter, fieldErrors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	resp := authResponse{OK: len(fieldErrors) == 0}
	if !resp.OK {
		resp.Errors = fieldErrors
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		m.logger.Error("Failed to encode auth response", slog.String(errLoggerKey, err.Error()))
	}
}

// HandleLogin validates the sign-in form. The identifier may be an email address
// or a ten-digit phone number. There is no real credential check, a valid form is
// treated as a successful sign-in.
func (m Main) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identifier := strings.TrimSpace(r.FormValue("identifier"))
	password := r.FormValue("password")

	fieldErrors := map[string]string{}
	if !validEmail(identifier) && !validPhone(identifier) {
		fieldErrors["identifier"] = "Enter a valid email address or phone number"
	}
	if len(password) < 6 {
		fieldErrors["password"] = "Password must be at least 6 characters"
	}
	if len(fieldErrors) > 0 {
		m.writeAuthResponse(w, fieldErrors)
		return
	}

	user := models.User{}
	if validEmail(identifier) {
		user.Email = identifier
	}
	if err := m.store.SaveUser(r.Context(), user); err != nil {
		m.logger.Error("Failed to save user", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeAuthResponse(w, nil)
}

// HandleSignup validates the registration form field by field and persists the new
// user on success.
func (m Main) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	firstName := strings.TrimSpace(r.FormValue("firstName"))
	lastName := strings.TrimSpace(r.FormValue("lastName"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirmPassword")

	fieldErrors := map[string]string{}
	if firstName == "" {
		fieldErrors["firstName"] = "First name is required"
	}
	if lastName == "" {
		fieldErrors["lastName"] = "Last name is required"
	}
	if !validEmail(email) {
		fieldErrors["email"] = "Enter a valid email address"
	}
	if len(password) < 6 {
		fieldErrors["password"] = "Password must be at least 6 characters"
	}
	if confirm != password {
		fieldErrors["confirmPassword"] = "Passwords do not match"
	}
	if r.FormValue("agreeTerms") == "" {
		fieldErrors["agreeTerms"] = "You must agree to the terms"
	}
	if len(fieldErrors) > 0 {
		m.writeAuthResponse(w, fieldErrors)
		return
	}

	user := models.User{
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		BirthMonth: r.FormValue("birthMonth"),
		BirthDay:   r.FormValue("birthDay"),
		BirthYear:  r.FormValue("birthYear"),
		Gender:     r.FormValue("gender"),
	}
	if err := m.store.SaveUser(r.Context(), user); err != nil {
		m.logger.Error("Failed to save user", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeAuthResponse(w, nil)
}
