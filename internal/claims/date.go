package claims

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
)

// timePattern matches "[+-]YYYY-MM-DDT..." with any number of year digits
var timePattern = regexp.MustCompile(`^([+-]?\d+)-(\d+)-(\d+)T`)

// FormatDate renders a linked-data time value at the given precision.
// Unsupported precisions and malformed strings yield sentinel text.
func FormatDate(timeStr string, precision int, loc locale.Locale) string {
	if precision != model.PrecisionYear && precision != model.PrecisionMonth && precision != model.PrecisionDay {
		return locale.UnsupportedPrecision
	}

	match := timePattern.FindStringSubmatch(timeStr)
	if match == nil {
		return locale.InvalidTimeFormat
	}

	month, err := strconv.Atoi(match[2])
	if err != nil {
		return locale.InvalidTimeFormat
	}
	day, err := strconv.Atoi(match[3])
	if err != nil {
		return locale.InvalidTimeFormat
	}

	// The magnitude is taken from the digits so years beyond int range keep
	// their value and never print a sign
	magnitude := strings.TrimLeft(strings.TrimLeft(match[1], "+-"), "0")
	era := 1
	switch {
	case magnitude == "":
		magnitude, era = "0", 0
	case strings.HasPrefix(match[1], "-"):
		era = -1
	}
	base := fmt.Sprintf("%s %s", magnitude, loc.Era(era))

	switch precision {
	case model.PrecisionMonth:
		if month == 0 {
			return base
		}
		return fmt.Sprintf("%s, %s %d", base, loc.MonthWord, month)
	case model.PrecisionDay:
		if month == 0 || day == 0 {
			return base
		}
		return fmt.Sprintf("%s, %d/%d", base, month, day)
	default:
		return base
	}
}

// FormatValue renders a time claim value
func FormatValue(v model.ClaimValue, loc locale.Locale) string {
	return FormatDate(v.Time, v.Precision, loc)
}
