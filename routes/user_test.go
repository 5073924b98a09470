package routes

import (
	"net/http"
	"testing"

	"tourism-catalog-server/models"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	resp := doJSON(app, http.MethodPost, "/api/user/register", "",
		map[string]interface{}{"login": "maria", "email": "Maria@Example.com", "password": "password123"})
	if resp.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var registered struct {
		AccessToken string `json:"accessToken"`
		Role        string `json:"role"`
	}
	decodeBody(t, resp, &registered)
	if registered.AccessToken == "" {
		t.Fatal("register: expected an access token")
	}
	if registered.Role != models.RoleUser {
		t.Fatalf("register: expected role USER, got %q", registered.Role)
	}

	// email is stored lowercased and works as the login identifier
	resp2 := doJSON(app, http.MethodPost, "/api/user/login", "",
		map[string]interface{}{"identifier": "maria@example.com", "password": "password123"})
	if resp2.Code != http.StatusOK {
		t.Fatalf("login by email: expected 200, got %d: %s", resp2.Code, resp2.Body.String())
	}

	resp3 := doJSON(app, http.MethodPost, "/api/user/login", "",
		map[string]interface{}{"identifier": "maria", "password": "password123"})
	if resp3.Code != http.StatusOK {
		t.Fatalf("login by login: expected 200, got %d: %s", resp3.Code, resp3.Body.String())
	}

	resp4 := doJSON(app, http.MethodPost, "/api/user/login", "",
		map[string]interface{}{"identifier": "maria", "password": "wrongpassword"})
	if resp4.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", resp4.Code)
	}
}

func TestRegisterDuplicateLoginOrEmail(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	createTestUser(t, "joao", models.RoleUser)

	resp := doJSON(app, http.MethodPost, "/api/user/register", "",
		map[string]interface{}{"login": "joao2", "email": "joao@example.com", "password": "password123"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d: %s", resp.Code, resp.Body.String())
	}

	resp2 := doJSON(app, http.MethodPost, "/api/user/register", "",
		map[string]interface{}{"login": "joao", "email": "other@example.com", "password": "password123"})
	if resp2.Code != http.StatusConflict {
		t.Fatalf("duplicate login: expected 409, got %d: %s", resp2.Code, resp2.Body.String())
	}
}

// The admin gate must trust the stored role, not the role embedded in the
// token: a stale "ADMIN" claim from before a demotion is worthless.
func TestAdminGateUsesStoredRole(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	demoted := createTestUser(t, "formeradmin", models.RoleUser)
	demoted.Role = models.RoleAdmin // only in the claims, not in the store
	staleToken := signAccessToken(t, demoted)

	resp := doJSON(app, http.MethodGet, "/api/user", staleToken, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("stale admin claim: expected 403, got %d: %s", resp.Code, resp.Body.String())
	}

	admin := createTestUser(t, "realadmin", models.RoleAdmin)
	resp2 := doJSON(app, http.MethodGet, "/api/user", signAccessToken(t, admin), nil)
	if resp2.Code != http.StatusOK {
		t.Fatalf("stored admin: expected 200, got %d: %s", resp2.Code, resp2.Body.String())
	}
}

func TestProfileRequiresToken(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	resp := doJSON(app, http.MethodGet, "/api/user/profile", "", nil)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	user := createTestUser(t, "ana", models.RoleUser)
	resp2 := doJSON(app, http.MethodGet, "/api/user/profile", signAccessToken(t, user), nil)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", resp2.Code, resp2.Body.String())
	}

	var profile struct {
		Login string `json:"login"`
	}
	decodeBody(t, resp2, &profile)
	if profile.Login != "ana" {
		t.Fatalf("expected profile for ana, got %q", profile.Login)
	}
}
