// Package analytics menghitung agregasi read-only di atas kumpulan task
// milik satu user. Semua fungsi bersifat pure: input slice task + waktu
// "sekarang", output struct hasil, tanpa query tambahan.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
)

type ymd struct {
	year, month, day int
}

func dateOf(t time.Time) ymd {
	y, m, d := t.Date()
	return ymd{y, int(m), d}
}

func (a ymd) less(b ymd) bool {
	if a.year != b.year {
		return a.year < b.year
	}
	if a.month != b.month {
		return a.month < b.month
	}
	return a.day < b.day
}

type yearWeek struct {
	year, week int
}

func weekOf(t time.Time) yearWeek {
	y, w := t.ISOWeek()
	return yearWeek{y, w}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// priorityScore memetakan prioritas ke skor numerik: high=3, medium=2,
// low=1. Nilai yang tidak dikenal dihitung sebagai medium.
func priorityScore(priority string) float64 {
	switch strings.ToLower(priority) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 2
	}
}

func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(completed) / float64(total) * 100)
}

func productivityScore(completed, created int) float64 {
	denom := created
	if denom < 1 {
		denom = 1
	}
	return round2(float64(completed) / float64(denom) * 100)
}

// Dashboard menghitung seluruh isi dashboard dalam satu panggilan.
func Dashboard(tasks []TaskRow, now time.Time) DashboardData {
	data := DashboardData{
		CategoryDistribution: []CategoryCount{},
		PriorityDistribution: []PriorityCount{},
		WeeklyTrend:          []WeekBucket{},
		MonthlyProductivity:  []MonthBucket{},
		RecentActivity:       []Activity{},
	}

	// Overview
	total := len(tasks)
	completed := 0
	overdue := 0
	var firstCreated time.Time
	for i, t := range tasks {
		if t.Completed {
			completed++
		}
		if !t.Completed && t.DueDate != nil && t.DueDate.Before(now) {
			overdue++
		}
		if i == 0 || t.CreatedAt.Before(firstCreated) {
			firstCreated = t.CreatedAt
		}
	}
	data.Overview = Overview{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
		OverdueTasks:   overdue,
		CompletionRate: completionRate(completed, total),
	}
	if total > 0 {
		days := int(math.Ceil(now.Sub(firstCreated).Hours() / 24))
		if days < 1 {
			days = 1
		}
		data.Overview.AverageTasksPerDay = round2(float64(total) / float64(days))
	}

	// Distribusi per kategori; task tanpa kategori tidak ikut dihitung
	catCounts := map[string]*CategoryCount{}
	for _, t := range tasks {
		if t.CategoryName == "" {
			continue
		}
		c, ok := catCounts[t.CategoryName]
		if !ok {
			c = &CategoryCount{Name: t.CategoryName}
			catCounts[t.CategoryName] = c
		}
		c.Count++
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	for _, c := range catCounts {
		data.CategoryDistribution = append(data.CategoryDistribution, *c)
	}
	sort.Slice(data.CategoryDistribution, func(i, j int) bool {
		a, b := data.CategoryDistribution[i], data.CategoryDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	// Distribusi per prioritas
	prioCounts := map[string]*PriorityCount{}
	for _, t := range tasks {
		p, ok := prioCounts[t.Priority]
		if !ok {
			p = &PriorityCount{Priority: t.Priority}
			prioCounts[t.Priority] = p
		}
		p.Count++
		if t.Completed {
			p.Completed++
		}
	}
	for _, p := range prioCounts {
		data.PriorityDistribution = append(data.PriorityDistribution, *p)
	}
	sort.Slice(data.PriorityDistribution, func(i, j int) bool {
		a, b := data.PriorityDistribution[i], data.PriorityDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Priority < b.Priority
	})

	// Tren mingguan: 8 minggu ISO terakhir berdasarkan updated_at,
	// diurutkan dari yang paling lama
	weekCounts := map[yearWeek]*WeekBucket{}
	for _, t := range tasks {
		k := weekOf(t.UpdatedAt)
		w, ok := weekCounts[k]
		if !ok {
			w = &WeekBucket{Year: k.year, Week: k.week}
			weekCounts[k] = w
		}
		w.Total++
		if t.Completed {
			w.Completed++
		}
	}
	for _, w := range weekCounts {
		data.WeeklyTrend = append(data.WeeklyTrend, *w)
	}
	sort.Slice(data.WeeklyTrend, func(i, j int) bool {
		a, b := data.WeeklyTrend[i], data.WeeklyTrend[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Week < b.Week
	})
	if len(data.WeeklyTrend) > 8 {
		data.WeeklyTrend = data.WeeklyTrend[len(data.WeeklyTrend)-8:]
	}

	// Produktivitas bulanan: 6 bulan terakhir berdasarkan created_at
	monthCounts := map[[2]int]*MonthBucket{}
	for _, t := range tasks {
		y, m, _ := t.CreatedAt.Date()
		k := [2]int{y, int(m)}
		b, ok := monthCounts[k]
		if !ok {
			b = &MonthBucket{Year: y, Month: int(m)}
			monthCounts[k] = b
		}
		b.TasksCreated++
		if t.Completed {
			b.TasksCompleted++
		}
	}
	for _, b := range monthCounts {
		data.MonthlyProductivity = append(data.MonthlyProductivity, *b)
	}
	sort.Slice(data.MonthlyProductivity, func(i, j int) bool {
		a, b := data.MonthlyProductivity[i], data.MonthlyProductivity[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	if len(data.MonthlyProductivity) > 6 {
		data.MonthlyProductivity = data.MonthlyProductivity[len(data.MonthlyProductivity)-6:]
	}

	// Aktivitas terakhir: maksimal 10 task yang di-update 7 hari terakhir
	weekAgo := now.Add(-7 * 24 * time.Hour)
	for _, t := range tasks {
		if t.UpdatedAt.Before(weekAgo) {
			continue
		}
		action := "updated"
		if t.Completed {
			action = "completed"
		}
		data.RecentActivity = append(data.RecentActivity, Activity{
			Title:        t.Title,
			Completed:    t.Completed,
			UpdatedAt:    t.UpdatedAt,
			CategoryName: t.CategoryName,
			Action:       action,
		})
	}
	sort.Slice(data.RecentActivity, func(i, j int) bool {
		return data.RecentActivity[i].UpdatedAt.After(data.RecentActivity[j].UpdatedAt)
	})
	if len(data.RecentActivity) > 10 {
		data.RecentActivity = data.RecentActivity[:10]
	}

	return data
}

// TaskAnalytics menghitung tren pembuatan/penyelesaian task dalam window
// periodDays hari terakhir.
func TaskAnalytics(tasks []TaskRow, periodDays int, now time.Time) TaskAnalyticsData {
	data := TaskAnalyticsData{
		TaskCreationTrend:   []DayBucket{},
		TaskCompletionTrend: []DayBucket{},
		TasksByStatus:       []StatusBucket{},
	}
	start := now.Add(-time.Duration(periodDays) * 24 * time.Hour)

	// Tren pembuatan per hari
	created := map[ymd]int{}
	for _, t := range tasks {
		if t.CreatedAt.Before(start) {
			continue
		}
		created[dateOf(t.CreatedAt)]++
	}
	data.TaskCreationTrend = dayBuckets(created)

	// Tren penyelesaian per hari (berdasarkan updated_at)
	completed := map[ymd]int{}
	for _, t := range tasks {
		if !t.Completed || t.UpdatedAt.Before(start) {
			continue
		}
		completed[dateOf(t.UpdatedAt)]++
	}
	data.TaskCompletionTrend = dayBuckets(completed)

	// Breakdown per hari per status
	type dayStatus struct {
		date   string
		status string
	}
	byStatus := map[dayStatus]int{}
	for _, t := range tasks {
		if t.CreatedAt.Before(start) {
			continue
		}
		status := "pending"
		if t.Completed {
			status = "completed"
		}
		byStatus[dayStatus{t.CreatedAt.Format("2006-01-02"), status}]++
	}
	for k, n := range byStatus {
		data.TasksByStatus = append(data.TasksByStatus, StatusBucket{
			Date:   k.date,
			Status: k.status,
			Count:  n,
		})
	}
	sort.Slice(data.TasksByStatus, func(i, j int) bool {
		a, b := data.TasksByStatus[i], data.TasksByStatus[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Status < b.Status
	})

	// Statistik lama pengerjaan (hari) untuk task yang selesai
	var sum, min, max float64
	count := 0
	for _, t := range tasks {
		if !t.Completed || t.CreatedAt.Before(start) {
			continue
		}
		days := t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
		if count == 0 || days < min {
			min = days
		}
		if count == 0 || days > max {
			max = days
		}
		sum += days
		count++
	}
	if count > 0 {
		data.CompletionTimeStats = CompletionTimeStats{
			AverageCompletionTime: round2(sum / float64(count)),
			MinCompletionTime:     round2(min),
			MaxCompletionTime:     round2(max),
		}
	}

	return data
}

func dayBuckets(counts map[ymd]int) []DayBucket {
	buckets := make([]DayBucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, DayBucket{
			Year:  k.year,
			Month: k.month,
			Day:   k.day,
			Count: n,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		return ymd{a.Year, a.Month, a.Day}.less(ymd{b.Year, b.Month, b.Day})
	})
	return buckets
}

// CategoryAnalytics menghitung performa per kategori. Task tanpa kategori
// tidak ikut dihitung.
func CategoryAnalytics(tasks []TaskRow, now time.Time) CategoryAnalyticsData {
	data := CategoryAnalyticsData{
		CategoryPerformance:      []CategoryPerformance{},
		CategoryGrowth:           []CategoryGrowthBucket{},
		MostProductiveCategories: []CategoryPerformance{},
	}

	type catAgg struct {
		perf    CategoryPerformance
		prioSum float64
	}
	perf := map[string]*catAgg{}
	for _, t := range tasks {
		if t.CategoryName == "" {
			continue
		}
		a, ok := perf[t.CategoryName]
		if !ok {
			a = &catAgg{perf: CategoryPerformance{Name: t.CategoryName}}
			perf[t.CategoryName] = a
		}
		a.perf.TotalTasks++
		if t.Completed {
			a.perf.CompletedTasks++
		} else {
			a.perf.PendingTasks++
			if t.DueDate != nil && t.DueDate.Before(now) {
				a.perf.OverdueTasks++
			}
		}
		a.prioSum += priorityScore(t.Priority)
	}
	for _, a := range perf {
		a.perf.AveragePriority = round2(a.prioSum / float64(a.perf.TotalTasks))
		a.perf.CompletionRate = completionRate(a.perf.CompletedTasks, a.perf.TotalTasks)
		data.CategoryPerformance = append(data.CategoryPerformance, a.perf)
	}
	sort.Slice(data.CategoryPerformance, func(i, j int) bool {
		a, b := data.CategoryPerformance[i], data.CategoryPerformance[j]
		if a.TotalTasks != b.TotalTasks {
			return a.TotalTasks > b.TotalTasks
		}
		return a.Name < b.Name
	})

	// Pertumbuhan per (kategori, tahun, bulan), 30 bucket terbaru
	type growthKey struct {
		category    string
		year, month int
	}
	growth := map[growthKey]int{}
	for _, t := range tasks {
		if t.CategoryName == "" {
			continue
		}
		y, m, _ := t.CreatedAt.Date()
		growth[growthKey{t.CategoryName, y, int(m)}]++
	}
	for k, n := range growth {
		data.CategoryGrowth = append(data.CategoryGrowth, CategoryGrowthBucket{
			Category: k.category,
			Year:     k.year,
			Month:    k.month,
			Count:    n,
		})
	}
	sort.Slice(data.CategoryGrowth, func(i, j int) bool {
		a, b := data.CategoryGrowth[i], data.CategoryGrowth[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.Category < b.Category
	})
	if len(data.CategoryGrowth) > 30 {
		data.CategoryGrowth = data.CategoryGrowth[:30]
	}

	// Kategori paling produktif: minimal 3 task, urut completion rate
	for _, p := range data.CategoryPerformance {
		if p.TotalTasks >= 3 {
			data.MostProductiveCategories = append(data.MostProductiveCategories, p)
		}
	}
	sort.SliceStable(data.MostProductiveCategories, func(i, j int) bool {
		return data.MostProductiveCategories[i].CompletionRate > data.MostProductiveCategories[j].CompletionRate
	})
	if len(data.MostProductiveCategories) > 5 {
		data.MostProductiveCategories = data.MostProductiveCategories[:5]
	}

	return data
}

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ProductivityInsights menghitung skor produktivitas harian/mingguan,
// hari terbaik dalam seminggu, dan streak penyelesaian task.
func ProductivityInsights(tasks []TaskRow, periodDays int, now time.Time) ProductivityData {
	data := ProductivityData{
		DailyProductivity:  []ProductivityDay{},
		WeeklyProductivity: []ProductivityWeek{},
		BestDays:           []BestDay{},
	}
	start := now.Add(-time.Duration(periodDays) * 24 * time.Hour)

	// Skor harian
	type dayAgg struct{ created, completed int }
	daily := map[ymd]*dayAgg{}
	weekly := map[yearWeek]*dayAgg{}
	byWeekday := map[int]*dayAgg{}
	for _, t := range tasks {
		if t.CreatedAt.Before(start) {
			continue
		}
		dk := dateOf(t.CreatedAt)
		if daily[dk] == nil {
			daily[dk] = &dayAgg{}
		}
		wk := weekOf(t.CreatedAt)
		if weekly[wk] == nil {
			weekly[wk] = &dayAgg{}
		}
		// 1=Minggu .. 7=Sabtu, mengikuti konvensi $dayOfWeek
		wd := int(t.CreatedAt.Weekday()) + 1
		if byWeekday[wd] == nil {
			byWeekday[wd] = &dayAgg{}
		}
		daily[dk].created++
		weekly[wk].created++
		byWeekday[wd].created++
		if t.Completed {
			daily[dk].completed++
			weekly[wk].completed++
			byWeekday[wd].completed++
		}
	}
	for k, a := range daily {
		data.DailyProductivity = append(data.DailyProductivity, ProductivityDay{
			Year:              k.year,
			Month:             k.month,
			Day:               k.day,
			TasksCreated:      a.created,
			TasksCompleted:    a.completed,
			ProductivityScore: productivityScore(a.completed, a.created),
		})
	}
	sort.Slice(data.DailyProductivity, func(i, j int) bool {
		a, b := data.DailyProductivity[i], data.DailyProductivity[j]
		return ymd{a.Year, a.Month, a.Day}.less(ymd{b.Year, b.Month, b.Day})
	})

	for k, a := range weekly {
		data.WeeklyProductivity = append(data.WeeklyProductivity, ProductivityWeek{
			Year:              k.year,
			Week:              k.week,
			TasksCreated:      a.created,
			TasksCompleted:    a.completed,
			ProductivityScore: productivityScore(a.completed, a.created),
		})
	}
	sort.Slice(data.WeeklyProductivity, func(i, j int) bool {
		a, b := data.WeeklyProductivity[i], data.WeeklyProductivity[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Week < b.Week
	})

	for wd, a := range byWeekday {
		data.BestDays = append(data.BestDays, BestDay{
			DayOfWeek:         wd,
			DayName:           dayNames[wd-1],
			TasksCreated:      a.created,
			TasksCompleted:    a.completed,
			ProductivityScore: productivityScore(a.completed, a.created),
		})
	}
	sort.SliceStable(data.BestDays, func(i, j int) bool {
		a, b := data.BestDays[i], data.BestDays[j]
		if a.ProductivityScore != b.ProductivityScore {
			return a.ProductivityScore > b.ProductivityScore
		}
		return a.DayOfWeek < b.DayOfWeek
	})

	data.Streaks = computeStreaks(tasks, periodDays, now)
	return data
}

// computeStreaks berjalan mundur hari demi hari dari hari ini. Satu hari
// ikut streak jika ada minimal satu task yang selesai (updated_at) pada
// hari itu. Current streak adalah run tanpa putus yang berakhir hari ini;
// max streak adalah run terpanjang dalam window.
func computeStreaks(tasks []TaskRow, periodDays int, now time.Time) Streaks {
	start := now.Add(-time.Duration(periodDays) * 24 * time.Hour)
	completedDays := map[ymd]bool{}
	for _, t := range tasks {
		if t.Completed && !t.UpdatedAt.Before(start) {
			completedDays[dateOf(t.UpdatedAt)] = true
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var streaks Streaks
	run := 0
	currentSet := false
	for i := 0; i < periodDays; i++ {
		day := today.AddDate(0, 0, -i)
		if completedDays[dateOf(day)] {
			run++
			continue
		}
		if !currentSet {
			streaks.CurrentStreak = run
			currentSet = true
		}
		if run > streaks.MaxStreak {
			streaks.MaxStreak = run
		}
		run = 0
	}
	if !currentSet {
		streaks.CurrentStreak = run
	}
	if run > streaks.MaxStreak {
		streaks.MaxStreak = run
	}
	return streaks
}

// CustomRange menghitung ringkasan untuk rentang tanggal bebas. Validasi
// rentang (start < end, maksimal 365 hari) dilakukan pemanggil sebelum
// menyentuh data.
func CustomRange(tasks []TaskRow, start, end, now time.Time) CustomRangeData {
	data := CustomRangeData{
		Period:               RangePeriod{StartDate: start, EndDate: end},
		DailyBreakdown:       []RangeDay{},
		PriorityDistribution: []PriorityCount{},
	}

	inRange := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	total := 0
	completed := 0
	overdue := 0
	days := map[ymd]*RangeDay{}
	prios := map[string]*PriorityCount{}
	for _, t := range tasks {
		if t.Completed && inRange(t.UpdatedAt) {
			completed++
		}
		if !t.Completed && t.DueDate != nil && t.DueDate.Before(now) && inRange(*t.DueDate) {
			overdue++
		}
		if !inRange(t.CreatedAt) {
			continue
		}
		total++

		k := dateOf(t.CreatedAt)
		d, ok := days[k]
		if !ok {
			d = &RangeDay{Year: k.year, Month: k.month, Day: k.day}
			days[k] = d
		}
		d.Created++
		if t.Completed {
			d.Completed++
		}

		p, ok := prios[t.Priority]
		if !ok {
			p = &PriorityCount{Priority: t.Priority}
			prios[t.Priority] = p
		}
		p.Count++
		if t.Completed {
			p.Completed++
		}
	}

	data.Overview = RangeOverview{
		TotalTasks:     total,
		CompletedTasks: completed,
		OverdueTasks:   overdue,
		CompletionRate: completionRate(completed, total),
	}
	for _, d := range days {
		data.DailyBreakdown = append(data.DailyBreakdown, *d)
	}
	sort.Slice(data.DailyBreakdown, func(i, j int) bool {
		a, b := data.DailyBreakdown[i], data.DailyBreakdown[j]
		return ymd{a.Year, a.Month, a.Day}.less(ymd{b.Year, b.Month, b.Day})
	})
	for _, p := range prios {
		data.PriorityDistribution = append(data.PriorityDistribution, *p)
	}
	sort.Slice(data.PriorityDistribution, func(i, j int) bool {
		a, b := data.PriorityDistribution[i], data.PriorityDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Priority < b.Priority
	})

	return data
}
