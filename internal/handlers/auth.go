package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"pressroom/internal/middleware"
	"pressroom/internal/session"
	"pressroom/internal/store"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// Login validates credentials and issues a session token. Users with TOTP
// enabled receive a session pending two-factor verification.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		respondInternal(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   !user.TOTPEnabled,
	})
	if err != nil {
		respondInternal(w, "session create failed", err)
		return
	}

	respond(w, http.StatusOK, "Logged in successfully", map[string]any{
		"token":         token,
		"twoFARequired": user.TOTPEnabled,
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.DisplayName,
			"role":  user.Role,
		},
	})
}

// Logout destroys the session. It is idempotent and succeeds even without
// a valid credential.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	respond(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the caller's identity.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	respond(w, http.StatusOK, "", map[string]any{
		"user": map[string]any{
			"id":    ident.UserID,
			"email": ident.Email,
			"name":  ident.DisplayName,
			"role":  ident.Role,
		},
	})
}

// TwoFASetup generates a TOTP secret for the caller and returns it with a
// QR code (base64 PNG) for authenticator enrollment.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Pressroom",
		AccountName: ident.Email,
	})
	if err != nil {
		respondInternal(w, "totp generate failed", err)
		return
	}

	if err := a.users.SetTOTPSecret(ident.UserID, key.Secret()); err != nil {
		respondInternal(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondInternal(w, "qr code generation failed", err)
		return
	}

	respond(w, http.StatusOK, "Two-factor setup initiated", map[string]any{
		"secret": key.Secret(),
		"qrCode": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAEnable verifies the first TOTP code and activates two-factor auth
// for the caller.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	a.verifyCode(w, r, true)
}

// TwoFAVerify completes a pending login for a user with two-factor enabled.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	a.verifyCode(w, r, false)
}

// verifyCode validates a submitted TOTP code against the caller's secret
// and marks the session verified. In enroll mode it also flips totp_enabled.
func (a *Auth) verifyCode(w http.ResponseWriter, r *http.Request, enroll bool) {
	ident := middleware.IdentityFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := a.users.FindByID(ident.UserID)
	if err != nil || user == nil {
		respondInternal(w, "user lookup for 2fa failed", err)
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "Two-factor setup has not been started")
		return
	}
	if !enroll && !user.TOTPEnabled {
		respondError(w, http.StatusBadRequest, "Two-factor authentication is not enabled")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, http.StatusBadRequest, "Invalid verification code")
		return
	}

	if enroll && !user.TOTPEnabled {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			respondInternal(w, "enable totp failed", err)
			return
		}
	}

	ident.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, ident); err != nil {
		respondInternal(w, "session update failed", err)
		return
	}

	respond(w, http.StatusOK, "Two-factor verification complete", nil)
}
