package test

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestCreateCategory(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)

	name := fmt.Sprintf("Work_%d", time.Now().UnixNano())
	result, status := DoJSON(app, t, "POST", "/api/v1/categories/", token, map[string]string{"name": name})
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201 but got %d: %v", status, result)
	}
	data := result["data"].(map[string]interface{})
	if data["name"] != name {
		t.Errorf("Expected category name %s, got %v", name, data["name"])
	}
}

// Nama kategori unik per user; user lain boleh memakai nama yang sama
func TestCreateCategoryDuplicateName(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)

	name := fmt.Sprintf("Dup_%d", time.Now().UnixNano())
	CreateTestCategory(app, t, token, name)

	_, status := DoJSON(app, t, "POST", "/api/v1/categories/", token, map[string]string{"name": name})
	if status != http.StatusConflict {
		t.Errorf("Expected status 409 but got %d", status)
	}

	otherToken, _ := RegisterTestUser(app, t)
	_, status = DoJSON(app, t, "POST", "/api/v1/categories/", otherToken, map[string]string{"name": name})
	if status != http.StatusCreated {
		t.Errorf("Expected status 201 for other user, got %d", status)
	}
}

func TestListCategories(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)

	CreateTestCategory(app, t, token, fmt.Sprintf("B_%d", time.Now().UnixNano()))
	CreateTestCategory(app, t, token, fmt.Sprintf("A_%d", time.Now().UnixNano()))

	result, status := DoJSON(app, t, "GET", "/api/v1/categories/", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("Expected 2 categories, got %d", len(data))
	}
}

func TestUpdateCategory(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("Old_%d", time.Now().UnixNano()))

	newName := fmt.Sprintf("New_%d", time.Now().UnixNano())
	result, status := DoJSON(app, t, "PUT", fmt.Sprintf("/api/v1/categories/%d", categoryID), token,
		map[string]string{"name": newName})
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d: %v", status, result)
	}
	data := result["data"].(map[string]interface{})
	if data["name"] != newName {
		t.Errorf("Expected renamed category, got %v", data["name"])
	}
}

// Kategori milik user lain tidak boleh diubah atau dihapus
func TestCategoryNotOwned(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("Mine_%d", time.Now().UnixNano()))

	otherToken, _ := RegisterTestUser(app, t)
	_, status := DoJSON(app, t, "PUT", fmt.Sprintf("/api/v1/categories/%d", categoryID), otherToken,
		map[string]string{"name": "Hijacked"})
	if status != http.StatusNotFound {
		t.Errorf("Expected status 404 for update, got %d", status)
	}

	_, status = DoJSON(app, t, "DELETE", fmt.Sprintf("/api/v1/categories/%d", categoryID), otherToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected status 404 for delete, got %d", status)
	}
}
