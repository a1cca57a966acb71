package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pressroom/internal/models"
	"pressroom/internal/session"
)

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	user := seedAuthor(t, env, models.RoleAdmin)

	// Wrong password.
	r := jsonRequest(t, "POST", "/auth/login", map[string]any{
		"email": user.Email, "password": "wrong",
	})
	w := httptest.NewRecorder()
	env.AuthH.Login(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d, want 401", w.Code)
	}

	// Unknown user gets the same answer as a wrong password.
	r = jsonRequest(t, "POST", "/auth/login", map[string]any{
		"email": "nobody@test.local", "password": "secret123",
	})
	w = httptest.NewRecorder()
	env.AuthH.Login(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: got %d, want 401", w.Code)
	}

	// Valid credentials issue a token and a session cookie.
	r = jsonRequest(t, "POST", "/auth/login", map[string]any{
		"email": user.Email, "password": "secret123",
	})
	w = httptest.NewRecorder()
	env.AuthH.Login(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", w.Code, w.Body.String())
	}
	body := decodeEnvelope(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login response has no token")
	}
	if body["twoFARequired"] != false {
		t.Errorf("twoFARequired: got %v, want false", body["twoFARequired"])
	}

	cookieSet := false
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("login did not set the session cookie")
	}

	// The token resolves via the Authorization header too.
	r = httptest.NewRequest("GET", "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	data, err := env.Sessions.Get(r.Context(), r)
	if err != nil || data == nil {
		t.Fatalf("bearer token did not resolve: %v", err)
	}
	if data.Email != user.Email {
		t.Errorf("session email: got %q, want %q", data.Email, user.Email)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	// Logout without any credential must still succeed.
	r := httptest.NewRequest("POST", "/auth/logout", nil)
	w := httptest.NewRecorder()
	env.AuthH.Logout(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("logout without credential: got %d, want 200", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["success"] != true {
		t.Errorf("logout envelope: %v", body)
	}

	// A real session logs out, and a second logout with the dead token
	// still succeeds.
	user := seedAuthor(t, env, models.RoleAdmin)
	lw := httptest.NewRecorder()
	env.AuthH.Login(lw, jsonRequest(t, "POST", "/auth/login", map[string]any{
		"email": user.Email, "password": "secret123",
	}))
	token := decodeEnvelope(t, lw)["token"].(string)

	for i := 0; i < 2; i++ {
		r = httptest.NewRequest("POST", "/auth/logout", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w = httptest.NewRecorder()
		env.AuthH.Logout(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("logout attempt %d: got %d, want 200", i+1, w.Code)
		}
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := seedAuthor(t, env, models.RoleSubadmin)

	r := withIdentity(httptest.NewRequest("GET", "/auth/me", nil), testIdentity(user.ID, "subadmin"))
	w := httptest.NewRecorder()
	env.AuthH.Me(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("me: got %d", w.Code)
	}

	body := decodeEnvelope(t, w)
	me, _ := body["user"].(map[string]any)
	if me == nil || me["role"] != "subadmin" {
		t.Errorf("me payload: %v", body)
	}
}

func TestTwoFASetupAndEnable(t *testing.T) {
	env := newTestEnv(t)
	user := seedAuthor(t, env, models.RoleAdmin)
	ident := testIdentity(user.ID, "admin")
	ident.Email = user.Email

	r := withIdentity(httptest.NewRequest("POST", "/auth/2fa/setup", nil), ident)
	w := httptest.NewRecorder()
	env.AuthH.TwoFASetup(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("2fa setup: got %d: %s", w.Code, w.Body.String())
	}

	body := decodeEnvelope(t, w)
	if body["secret"] == "" || body["qrCode"] == "" {
		t.Errorf("setup response missing secret or QR: %v", body)
	}

	// The secret must be persisted.
	stored, err := env.Users.FindByID(user.ID)
	if err != nil || stored == nil || stored.TOTPSecret == nil {
		t.Fatalf("totp secret not persisted: %v", err)
	}
	if stored.TOTPEnabled {
		t.Error("totp enabled before verification")
	}

	// A wrong code is rejected and leaves 2FA disabled.
	r = withIdentity(jsonRequest(t, "POST", "/auth/2fa/enable", map[string]any{"code": "000000"}), ident)
	w = httptest.NewRecorder()
	env.AuthH.TwoFAEnable(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad code: got %d, want 400", w.Code)
	}
}

func TestTwoFAVerifyWithoutEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := seedAuthor(t, env, models.RoleAdmin)

	r := withIdentity(jsonRequest(t, "POST", "/auth/2fa/verify", map[string]any{"code": "123456"}),
		testIdentity(user.ID, "admin"))
	w := httptest.NewRecorder()
	env.AuthH.TwoFAVerify(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("verify without setup: got %d, want 400", w.Code)
	}
}
