// Package calendar раскладывает заказы по календарным дням.
package calendar

import (
	"sort"
	"time"

	"kandu_backend/internal/models"
)

const dayLayout = "2006-01-02"

// Day - заказы, начинающиеся в один календарный день
type Day struct {
	Date string       `json:"date"` // YYYY-MM-DD в часовом поясе запроса
	Jobs []models.Job `json:"jobs"`
}

// JobDay - момент, по которому заказ попадает в календарь:
// фактическое начало, если работа уже началась, иначе плановое.
func JobDay(j *models.Job) (time.Time, bool) {
	if j.ActualStartDate != nil {
		return *j.ActualStartDate, true
	}
	if j.StartDate != nil {
		return *j.StartDate, true
	}
	return time.Time{}, false
}

// BucketByDay группирует заказы по дню начала в пределах [from, to].
// Заказы без дат пропускаются. Дни отсортированы по возрастанию,
// внутри дня заказы идут по времени начала.
func BucketByDay(jobs []models.Job, from, to time.Time, loc *time.Location) []Day {
	if loc == nil {
		loc = time.UTC
	}

	buckets := make(map[string][]models.Job)
	for _, j := range jobs {
		at, ok := JobDay(&j)
		if !ok || at.Before(from) || at.After(to) {
			continue
		}
		key := at.In(loc).Format(dayLayout)
		buckets[key] = append(buckets[key], j)
	}

	days := make([]Day, 0, len(buckets))
	for key, list := range buckets {
		sort.SliceStable(list, func(a, b int) bool {
			ta, _ := JobDay(&list[a])
			tb, _ := JobDay(&list[b])
			return ta.Before(tb)
		})
		days = append(days, Day{Date: key, Jobs: list})
	}
	sort.Slice(days, func(a, b int) bool { return days[a].Date < days[b].Date })
	return days
}
