package test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func createTestTask(app *fiber.App, t *testing.T, token, title string, categoryID int) int {
	body := map[string]interface{}{
		"title":    title,
		"category": categoryID,
		"dueDate":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"priority": "medium",
	}
	result, status := DoJSON(app, t, "POST", "/api/v1/tasks/", token, body)
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201 creating task, got %d: %v", status, result)
	}
	data := result["data"].(map[string]interface{})
	return int(data["id"].(float64))
}

func TestCreateTask(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))

	body := map[string]interface{}{
		"title":       "Write report",
		"description": "Quarterly report",
		"category":    categoryID,
		"dueDate":     time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"priority":    "high",
		"tags":        `["work","urgent"]`,
	}
	result, status := DoJSON(app, t, "POST", "/api/v1/tasks/", token, body)
	if status != http.StatusCreated {
		t.Fatalf("Expected status 201 but got %d: %v", status, result)
	}
	data := result["data"].(map[string]interface{})
	if data["id"] == nil {
		t.Errorf("Expected task id in response")
	}
	if data["completed"] != false {
		t.Errorf("New task should not be completed")
	}
	tags, ok := data["tags"].([]interface{})
	if !ok || len(tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", data["tags"])
	}
}

func TestCreateTaskMissingFields(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)

	result, status := DoJSON(app, t, "POST", "/api/v1/tasks/", token, map[string]interface{}{
		"title": "No category or due date",
	})
	if status != http.StatusBadRequest {
		t.Errorf("Expected status 400 but got %d: %v", status, result)
	}
}

// Judul task unik per user saat pembuatan; user lain boleh memakai
// judul yang sama
func TestCreateTaskDuplicateTitle(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))

	title := fmt.Sprintf("Duplicate title %d", time.Now().UnixNano())
	createTestTask(app, t, token, title, categoryID)

	body := map[string]interface{}{
		"title":    title,
		"category": categoryID,
		"dueDate":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"priority": "low",
	}
	result, status := DoJSON(app, t, "POST", "/api/v1/tasks/", token, body)
	if status != http.StatusConflict {
		t.Errorf("Expected status 409 but got %d: %v", status, result)
	}

	// User lain dengan judul sama harus berhasil
	otherToken, _ := RegisterTestUser(app, t)
	otherCategory := CreateTestCategory(app, t, otherToken, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	createTestTask(app, t, otherToken, title, otherCategory)
}

func TestCreateTaskUnknownCategory(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)

	body := map[string]interface{}{
		"title":    fmt.Sprintf("Task %d", time.Now().UnixNano()),
		"category": 999999,
		"dueDate":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"priority": "medium",
	}
	_, status := DoJSON(app, t, "POST", "/api/v1/tasks/", token, body)
	if status != http.StatusNotFound {
		t.Errorf("Expected status 404 but got %d", status)
	}
}

func TestListTasks(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))

	for i := 0; i < 3; i++ {
		createTestTask(app, t, token, fmt.Sprintf("List task %d %d", i, time.Now().UnixNano()), categoryID)
	}

	result, status := DoJSON(app, t, "GET", "/api/v1/tasks/?page=1&limit=2", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}
	data, ok := result["data"].([]interface{})
	if !ok {
		t.Fatalf("Expected data array in response")
	}
	if len(data) != 2 {
		t.Errorf("Expected 2 tasks on page 1, got %d", len(data))
	}
	if result["totalPages"].(float64) < 2 {
		t.Errorf("Expected at least 2 pages, got %v", result["totalPages"])
	}
	if result["currentPage"].(float64) != 1 {
		t.Errorf("Expected currentPage 1, got %v", result["currentPage"])
	}
}

// List hanya berisi task milik user yang sedang login
func TestListTasksScopedToOwner(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	createTestTask(app, t, token, fmt.Sprintf("Owner task %d", time.Now().UnixNano()), categoryID)

	otherToken, _ := RegisterTestUser(app, t)
	result, status := DoJSON(app, t, "GET", "/api/v1/tasks/", otherToken, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}
	data := result["data"].([]interface{})
	if len(data) != 0 {
		t.Errorf("Expected empty task list for other user, got %d tasks", len(data))
	}
}

func TestListTasksStatusFilter(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))

	doneID := createTestTask(app, t, token, fmt.Sprintf("Done %d", time.Now().UnixNano()), categoryID)
	createTestTask(app, t, token, fmt.Sprintf("Pending %d", time.Now().UnixNano()), categoryID)

	_, status := DoJSON(app, t, "PATCH", fmt.Sprintf("/api/v1/tasks/%d/complete", doneID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Complete failed with status %d", status)
	}

	result, _ := DoJSON(app, t, "GET", "/api/v1/tasks/?status=completed", token, nil)
	data := result["data"].([]interface{})
	if len(data) != 1 {
		t.Errorf("Expected 1 completed task, got %d", len(data))
	}

	result, _ = DoJSON(app, t, "GET", "/api/v1/tasks/?status=pending", token, nil)
	data = result["data"].([]interface{})
	if len(data) != 1 {
		t.Errorf("Expected 1 pending task, got %d", len(data))
	}
}

func TestUpdateTask(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	taskID := createTestTask(app, t, token, fmt.Sprintf("Before %d", time.Now().UnixNano()), categoryID)

	result, status := DoJSON(app, t, "PUT", fmt.Sprintf("/api/v1/tasks/%d", taskID), token, map[string]interface{}{
		"title":    "After update",
		"priority": "high",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d: %v", status, result)
	}
	data := result["data"].(map[string]interface{})
	if data["title"] != "After update" {
		t.Errorf("Expected updated title, got %v", data["title"])
	}
	if data["priority"] != "high" {
		t.Errorf("Expected updated priority, got %v", data["priority"])
	}
}

// Update task milik user lain harus 404, bukan bocor informasi
func TestUpdateTaskNotOwned(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	taskID := createTestTask(app, t, token, fmt.Sprintf("Mine %d", time.Now().UnixNano()), categoryID)

	otherToken, _ := RegisterTestUser(app, t)
	_, status := DoJSON(app, t, "PUT", fmt.Sprintf("/api/v1/tasks/%d", taskID), otherToken, map[string]interface{}{
		"title": "Hijacked",
	})
	if status != http.StatusNotFound {
		t.Errorf("Expected status 404 but got %d", status)
	}
}

func TestCompleteTaskTwice(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	taskID := createTestTask(app, t, token, fmt.Sprintf("Complete %d", time.Now().UnixNano()), categoryID)

	result, status := DoJSON(app, t, "PATCH", fmt.Sprintf("/api/v1/tasks/%d/complete", taskID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d: %v", status, result)
	}
	data := result["data"].(map[string]interface{})
	if data["completed"] != true {
		t.Errorf("Expected task to be completed")
	}

	// Complete kedua kali harus konflik
	_, status = DoJSON(app, t, "PATCH", fmt.Sprintf("/api/v1/tasks/%d/complete", taskID), token, nil)
	if status != http.StatusConflict {
		t.Errorf("Expected status 409 but got %d", status)
	}
}

func TestDeleteTask(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	taskID := createTestTask(app, t, token, fmt.Sprintf("Delete %d", time.Now().UnixNano()), categoryID)

	_, status := DoJSON(app, t, "DELETE", fmt.Sprintf("/api/v1/tasks/%d", taskID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}

	// Delete kedua kali harus 404
	_, status = DoJSON(app, t, "DELETE", fmt.Sprintf("/api/v1/tasks/%d", taskID), token, nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected status 404 but got %d", status)
	}
}

// Menghapus kategori tidak menghapus task yang mereferensikannya
func TestDeleteCategoryLeavesTasks(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	createTestTask(app, t, token, fmt.Sprintf("Orphan %d", time.Now().UnixNano()), categoryID)

	_, status := DoJSON(app, t, "DELETE", fmt.Sprintf("/api/v1/categories/%d", categoryID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}

	result, _ := DoJSON(app, t, "GET", "/api/v1/tasks/", token, nil)
	data := result["data"].([]interface{})
	if len(data) != 1 {
		t.Errorf("Expected task to survive category deletion, got %d tasks", len(data))
	}
}
