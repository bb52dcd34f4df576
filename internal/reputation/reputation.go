// Package reputation считает опыт (XP) и средний рейтинг пользователя
// по событию оценки при завершении заказа.
package reputation

import (
	"math"
	"time"
)

const (
	minBaseXP     = 10.0
	maxBaseXP     = 100.0
	priceXPFactor = 0.1
	maxRating     = 5.0
	earlyBonus    = 1.2
)

// CalculateXP возвращает опыт за оценку rating (1..5) по заказу с ценой price.
//
//	base  = clamp(price * 0.1, 10, 100)
//	xp    = round(base * rating/5 * (early ? 1.2 : 1.0))
func CalculateXP(rating int, price float64, early bool) int {
	base := math.Min(math.Max(price*priceXPFactor, minBaseXP), maxBaseXP)
	multiplier := float64(rating) / maxRating
	speed := 1.0
	if early {
		speed = earlyBonus
	}
	return int(math.Round(base * multiplier * speed))
}

// IsEarlyCompletion - заказ закрыт строго раньше плановой даты окончания.
// Заказы без end_date досрочными не считаются.
func IsEarlyCompletion(endDate *time.Time, completedAt time.Time) bool {
	if endDate == nil {
		return false
	}
	return completedAt.Before(*endDate)
}

// RunningAverage - среднее всех полученных оценок вместе с новой, с точностью до десятых
func RunningAverage(existing []int, next int) float64 {
	sum := next
	for _, r := range existing {
		sum += r
	}
	return Round1(float64(sum) / float64(len(existing)+1))
}

// Round1 округляет до одного знака после запятой
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Settlement - итог начисления репутации одному пользователю
type Settlement struct {
	XPGained  int     `json:"xp_gained"`
	NewXP     int     `json:"new_xp"`
	NewRating float64 `json:"new_rating"`
}

// Settle считает новые xp и rating оцениваемого пользователя.
// existing - все оценки, полученные им ранее (без новой).
func Settle(currentXP int, existing []int, rating int, price float64, endDate *time.Time, completedAt time.Time) Settlement {
	gained := CalculateXP(rating, price, IsEarlyCompletion(endDate, completedAt))
	return Settlement{
		XPGained:  gained,
		NewXP:     currentXP + gained,
		NewRating: RunningAverage(existing, rating),
	}
}
