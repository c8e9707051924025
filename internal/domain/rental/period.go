package rental

import "time"

// Date construye una fecha calendario (medianoche UTC).
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf normaliza t a su fecha calendario (medianoche UTC), descartando hora y zona.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate interpreta una fecha ISO YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DaysInclusive cuenta los días del intervalo cerrado [start, end]; 0 si end < start.
func DaysInclusive(start, end time.Time) int {
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// MonthBounds devuelve el primer y el último día del mes calendario que contiene t.
func MonthBounds(t time.Time) (first, last time.Time) {
	first = Date(t.Year(), t.Month(), 1)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// ISOWeekBounds devuelve lunes y domingo de la semana ISO que contiene t.
func ISOWeekBounds(t time.Time) (monday, sunday time.Time) {
	d := DateOf(t)
	offset := (int(d.Weekday()) + 6) % 7
	monday = d.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// Clip recorta [start, end] a [lo, hi]. ok=false si la intersección es vacía.
func Clip(start, end, lo, hi time.Time) (from, to time.Time, ok bool) {
	from, to = DateOf(start), DateOf(end)
	if from.Before(lo) {
		from = lo
	}
	if to.After(hi) {
		to = hi
	}
	return from, to, !from.After(to)
}

// Covers indica si [start, end] cubre por completo [lo, hi].
func Covers(start, end, lo, hi time.Time) bool {
	return !DateOf(start).After(lo) && !DateOf(end).Before(hi)
}
