package test

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// Dashboard untuk user tanpa task harus 200 dengan angka nol, bukan 404
func TestDashboardEmptyUser(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)

	result, status := DoJSON(app, t, "GET", "/api/v1/analytics/dashboard", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d: %v", status, result)
	}
	data := result["data"].(map[string]interface{})
	overview := data["overview"].(map[string]interface{})
	if overview["totalTasks"].(float64) != 0 {
		t.Errorf("Expected 0 total tasks, got %v", overview["totalTasks"])
	}
	if overview["completionRate"].(float64) != 0 {
		t.Errorf("Expected 0 completion rate, got %v", overview["completionRate"])
	}
}

func TestDashboardWithTasks(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))

	var taskIDs []int
	for i := 0; i < 4; i++ {
		taskIDs = append(taskIDs, createTestTask(app, t, token,
			fmt.Sprintf("Dash %d %d", i, time.Now().UnixNano()), categoryID))
	}
	for _, id := range taskIDs[:2] {
		_, status := DoJSON(app, t, "PATCH", fmt.Sprintf("/api/v1/tasks/%d/complete", id), token, nil)
		if status != http.StatusOK {
			t.Fatalf("Complete failed with status %d", status)
		}
	}

	result, status := DoJSON(app, t, "GET", "/api/v1/analytics/dashboard", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}
	overview := result["data"].(map[string]interface{})["overview"].(map[string]interface{})
	if overview["totalTasks"].(float64) != 4 {
		t.Errorf("Expected 4 total tasks, got %v", overview["totalTasks"])
	}
	if overview["completedTasks"].(float64) != 2 {
		t.Errorf("Expected 2 completed tasks, got %v", overview["completedTasks"])
	}
	if overview["completionRate"].(float64) != 50 {
		t.Errorf("Expected 50 completion rate, got %v", overview["completionRate"])
	}
}

// Response kedua harus identik karena dilayani dari cache
func TestDashboardCached(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	createTestTask(app, t, token, fmt.Sprintf("Cache %d", time.Now().UnixNano()), categoryID)

	first, status := DoJSON(app, t, "GET", "/api/v1/analytics/dashboard", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}

	// Task baru setelah cache terisi tidak langsung terlihat
	createTestTask(app, t, token, fmt.Sprintf("Cache2 %d", time.Now().UnixNano()), categoryID)

	second, status := DoJSON(app, t, "GET", "/api/v1/analytics/dashboard", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}

	firstTotal := first["data"].(map[string]interface{})["overview"].(map[string]interface{})["totalTasks"]
	secondTotal := second["data"].(map[string]interface{})["overview"].(map[string]interface{})["totalTasks"]
	if firstTotal != secondTotal {
		t.Errorf("Expected cached response, got %v then %v", firstTotal, secondTotal)
	}
}

func TestCustomRangeValidation(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)

	cases := []struct {
		name string
		url  string
	}{
		{"missing params", "/api/v1/analytics/custom-range"},
		{"missing end", "/api/v1/analytics/custom-range?startDate=2026-01-01"},
		{"start after end", "/api/v1/analytics/custom-range?startDate=2026-02-01&endDate=2026-01-01"},
		{"start equals end", "/api/v1/analytics/custom-range?startDate=2026-01-01&endDate=2026-01-01"},
		{"range too long", "/api/v1/analytics/custom-range?startDate=2024-01-01&endDate=2026-01-01"},
		{"bad format", "/api/v1/analytics/custom-range?startDate=abc&endDate=2026-01-01"},
	}
	for _, tc := range cases {
		_, status := DoJSON(app, t, "GET", tc.url, token, nil)
		if status != http.StatusBadRequest {
			t.Errorf("%s: expected status 400 but got %d", tc.name, status)
		}
	}
}

func TestCustomRangeAnalytics(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	createTestTask(app, t, token, fmt.Sprintf("Range %d", time.Now().UnixNano()), categoryID)

	start := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	url := fmt.Sprintf("/api/v1/analytics/custom-range?startDate=%s&endDate=%s", start, end)

	result, status := DoJSON(app, t, "GET", url, token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d: %v", status, result)
	}
	overview := result["data"].(map[string]interface{})["overview"].(map[string]interface{})
	if overview["totalTasks"].(float64) != 1 {
		t.Errorf("Expected 1 task in range, got %v", overview["totalTasks"])
	}
}

func TestProductivityInsights(t *testing.T) {
	app := CreateTestApp()
	token, _ := RegisterTestUser(app, t)
	categoryID := CreateTestCategory(app, t, token, fmt.Sprintf("cat_%d", time.Now().UnixNano()))
	taskID := createTestTask(app, t, token, fmt.Sprintf("Prod %d", time.Now().UnixNano()), categoryID)
	_, _ = DoJSON(app, t, "PATCH", fmt.Sprintf("/api/v1/tasks/%d/complete", taskID), token, nil)

	result, status := DoJSON(app, t, "GET", "/api/v1/analytics/productivity", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", status)
	}
	data := result["data"].(map[string]interface{})
	streaks := data["streaks"].(map[string]interface{})
	if streaks["currentStreak"].(float64) != 1 {
		t.Errorf("Expected current streak 1, got %v", streaks["currentStreak"])
	}
	if streaks["maxStreak"].(float64) != 1 {
		t.Errorf("Expected max streak 1, got %v", streaks["maxStreak"])
	}
}
