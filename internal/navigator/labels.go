package navigator

import (
	"strconv"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName maps a month segment ("03") to its long name. Segments outside
// 1..12 are returned as given.
func MonthName(seg string) string {
	m, err := strconv.Atoi(seg)
	if err != nil || m < 1 || m > 12 {
		return seg
	}
	return monthNames[m-1]
}

// Ordinal returns the English ordinal suffix for day.
func Ordinal(day int) string {
	if r := day % 100; r >= 11 && r <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// DayLabel renders a day segment ("05") as "5th".
func DayLabel(seg string) string {
	d, err := strconv.Atoi(seg)
	if err != nil {
		return seg
	}
	return strconv.Itoa(d) + Ordinal(d)
}
