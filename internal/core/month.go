package core

// Readings are keyed by Finnish month names; the numeric ordering lives
// only here. The map and the array must stay in sync.
var monthNumbers = map[string]int{
	"Tammi": 1,
	"Helmi": 2,
	"Maalis": 3,
	"Huhti": 4,
	"Touko": 5,
	"Kesä": 6,
	"Heinä": 7,
	"Elo": 8,
	"Syys": 9,
	"Loka": 10,
	"Marras": 11,
	"Joulu": 12,
}

var monthNames = [13]string{
	"", "Tammi", "Helmi", "Maalis", "Huhti", "Touko", "Kesä",
	"Heinä", "Elo", "Syys", "Loka", "Marras", "Joulu",
}

// MonthNumber maps a Finnish month name to its 1-based number.
// Matching is exact: unknown or differently cased names report false.
func MonthNumber(name string) (int, bool) {
	n, ok := monthNumbers[name]
	return n, ok
}

// MonthName is the inverse of MonthNumber.
func MonthName(num int) (string, bool) {
	if num < 1 || num > 12 {
		return "", false
	}
	return monthNames[num], true
}
