package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRegister(t *testing.T) {
	app := CreateTestApp()

	uniqueUser := fmt.Sprintf("reguser_%d", time.Now().UnixNano())
	reqBody := map[string]string{
		"name":     uniqueUser,
		"email":    uniqueUser + "@example.com",
		"password": "secret123",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201 but got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding register response: %v", err)
	}
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data field in response")
	}
	if data["token"] == nil || data["token"] == "" {
		t.Errorf("Expected token in register response")
	}
	user, ok := data["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected user in register response")
	}
	// Password tidak boleh bocor di response
	if _, exists := user["password"]; exists {
		t.Errorf("Password should not be in register response")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := CreateTestApp()

	uniqueUser := fmt.Sprintf("dupuser_%d", time.Now().UnixNano())
	reqBody := map[string]string{
		"name":     uniqueUser,
		"email":    uniqueUser + "@example.com",
		"password": "secret123",
	}

	_, status := DoJSON(app, t, "POST", "/api/v1/auth/register", "", reqBody)
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201 but got %d", status)
	}

	result, status := DoJSON(app, t, "POST", "/api/v1/auth/register", "", reqBody)
	if status != http.StatusConflict {
		t.Errorf("Expected status 409 but got %d", status)
	}
	if result["message"] != "User already exists" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

func TestLogin(t *testing.T) {
	app := CreateTestApp()

	uniqueUser := fmt.Sprintf("loginuser_%d", time.Now().UnixNano())
	regBody := map[string]string{
		"name":     uniqueUser,
		"email":    uniqueUser + "@example.com",
		"password": "password123",
	}
	_, status := DoJSON(app, t, "POST", "/api/v1/auth/register", "", regBody)
	if status != http.StatusCreated {
		t.Fatalf("Register failed with status %d", status)
	}

	loginBody := map[string]string{
		"email":    uniqueUser + "@example.com",
		"password": "password123",
	}
	result, status := DoJSON(app, t, "POST", "/api/v1/auth/login", "", loginBody)
	if status != http.StatusOK {
		t.Errorf("Expected status 200 but got %d", status)
	}
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data field in login response")
	}
	if data["token"] == nil || data["token"] == "" {
		t.Errorf("Expected token in login response")
	}
}

// Email tidak dikenal dan password salah harus menghasilkan response
// yang identik agar tidak membocorkan email terdaftar
func TestLoginInvalidCredentials(t *testing.T) {
	app := CreateTestApp()

	uniqueUser := fmt.Sprintf("creduser_%d", time.Now().UnixNano())
	regBody := map[string]string{
		"name":     uniqueUser,
		"email":    uniqueUser + "@example.com",
		"password": "password123",
	}
	_, _ = DoJSON(app, t, "POST", "/api/v1/auth/register", "", regBody)

	wrongPassword, status1 := DoJSON(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    uniqueUser + "@example.com",
		"password": "wrongpass",
	})
	unknownEmail, status2 := DoJSON(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	if status1 != http.StatusUnauthorized || status2 != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for both, got %d and %d", status1, status2)
	}
	if wrongPassword["message"] != unknownEmail["message"] {
		t.Errorf("Expected identical messages, got %v and %v",
			wrongPassword["message"], unknownEmail["message"])
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app := CreateTestApp()

	_, status := DoJSON(app, t, "GET", "/api/v1/tasks/", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("Expected status 401 but got %d", status)
	}
}
