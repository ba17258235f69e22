package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Task struct {
	ID          int            `json:"id"`
	UserID      int            `json:"userId"`
	CategoryID  *int           `json:"categoryId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed"`
	DueDate     *time.Time     `json:"dueDate"`
	Priority    string         `json:"priority"`
	Tags        pq.StringArray `json:"tags"`
	Recurrence  *string        `json:"recurrence"`
	Document    *string        `json:"document,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Nama kategori hasil join, tidak disimpan di tabel tasks
	CategoryName *string `json:"categoryName,omitempty"`
}

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	TaskID    int       `json:"taskId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	NotifyAt  time.Time `json:"notifyAt"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"createdAt"`

	// Detail task hasil join untuk tampilan list
	TaskTitle    *string    `json:"taskTitle,omitempty"`
	TaskDueDate  *time.Time `json:"taskDueDate,omitempty"`
	TaskPriority *string    `json:"taskPriority,omitempty"`
}
