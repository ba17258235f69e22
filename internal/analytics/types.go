package analytics

import "time"

// TaskRow adalah satu baris task milik user, hasil join dengan nama
// kategori. Semua fungsi agregasi di package ini bekerja di atas slice
// TaskRow tanpa menyentuh database.
type TaskRow struct {
	ID           int
	Title        string
	Completed    bool
	Priority     string
	CategoryName string
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Overview struct {
	TotalTasks         int     `json:"totalTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	PendingTasks       int     `json:"pendingTasks"`
	OverdueTasks       int     `json:"overdueTasks"`
	CompletionRate     float64 `json:"completionRate"`
	AverageTasksPerDay float64 `json:"averageTasksPerDay"`
}

type CategoryCount struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

type PriorityCount struct {
	Priority  string `json:"priority"`
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
}

type WeekBucket struct {
	Year      int `json:"year"`
	Week      int `json:"week"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type MonthBucket struct {
	Year           int `json:"year"`
	Month          int `json:"month"`
	TasksCreated   int `json:"tasksCreated"`
	TasksCompleted int `json:"tasksCompleted"`
}

type Activity struct {
	Title        string    `json:"title"`
	Completed    bool      `json:"completed"`
	UpdatedAt    time.Time `json:"updatedAt"`
	CategoryName string    `json:"categoryName"`
	Action       string    `json:"action"`
}

type DashboardData struct {
	Overview             Overview        `json:"overview"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
	PriorityDistribution []PriorityCount `json:"priorityDistribution"`
	WeeklyTrend          []WeekBucket    `json:"weeklyTrend"`
	MonthlyProductivity  []MonthBucket   `json:"monthlyProductivity"`
	RecentActivity       []Activity      `json:"recentActivity"`
}

type DayBucket struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
	Count int `json:"count"`
}

type StatusBucket struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type CompletionTimeStats struct {
	AverageCompletionTime float64 `json:"averageCompletionTime"`
	MinCompletionTime     float64 `json:"minCompletionTime"`
	MaxCompletionTime     float64 `json:"maxCompletionTime"`
}

type TaskAnalyticsData struct {
	TaskCreationTrend   []DayBucket         `json:"taskCreationTrend"`
	TaskCompletionTrend []DayBucket         `json:"taskCompletionTrend"`
	TasksByStatus       []StatusBucket      `json:"tasksByStatus"`
	CompletionTimeStats CompletionTimeStats `json:"completionTimeStats"`
}

type CategoryPerformance struct {
	Name            string  `json:"name"`
	TotalTasks      int     `json:"totalTasks"`
	CompletedTasks  int     `json:"completedTasks"`
	PendingTasks    int     `json:"pendingTasks"`
	OverdueTasks    int     `json:"overdueTasks"`
	AveragePriority float64 `json:"averagePriority"`
	CompletionRate  float64 `json:"completionRate"`
}

type CategoryGrowthBucket struct {
	Category string `json:"category"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Count    int    `json:"count"`
}

type CategoryAnalyticsData struct {
	CategoryPerformance      []CategoryPerformance  `json:"categoryPerformance"`
	CategoryGrowth           []CategoryGrowthBucket `json:"categoryGrowth"`
	MostProductiveCategories []CategoryPerformance  `json:"mostProductiveCategories"`
}

type ProductivityDay struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	Day               int     `json:"day"`
	TasksCreated      int     `json:"tasksCreated"`
	TasksCompleted    int     `json:"tasksCompleted"`
	ProductivityScore float64 `json:"productivityScore"`
}

type ProductivityWeek struct {
	Year              int     `json:"year"`
	Week              int     `json:"week"`
	TasksCreated      int     `json:"tasksCreated"`
	TasksCompleted    int     `json:"tasksCompleted"`
	ProductivityScore float64 `json:"productivityScore"`
}

type BestDay struct {
	DayOfWeek         int     `json:"dayOfWeek"`
	DayName           string  `json:"dayName"`
	TasksCreated      int     `json:"tasksCreated"`
	TasksCompleted    int     `json:"tasksCompleted"`
	ProductivityScore float64 `json:"productivityScore"`
}

type Streaks struct {
	CurrentStreak int `json:"currentStreak"`
	MaxStreak     int `json:"maxStreak"`
}

type ProductivityData struct {
	DailyProductivity  []ProductivityDay  `json:"dailyProductivity"`
	WeeklyProductivity []ProductivityWeek `json:"weeklyProductivity"`
	BestDays           []BestDay          `json:"bestDays"`
	Streaks            Streaks            `json:"streaks"`
}

type RangePeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type RangeOverview struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	OverdueTasks   int     `json:"overdueTasks"`
	CompletionRate float64 `json:"completionRate"`
}

type RangeDay struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Day       int `json:"day"`
	Created   int `json:"created"`
	Completed int `json:"completed"`
}

type CustomRangeData struct {
	Period               RangePeriod     `json:"period"`
	Overview             RangeOverview   `json:"overview"`
	DailyBreakdown       []RangeDay      `json:"dailyBreakdown"`
	PriorityDistribution []PriorityCount `json:"priorityDistribution"`
}
