package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name      string
		time      string
		precision int
		want      string
	}{
		{"day", "+1879-03-14T00:00:00Z", model.PrecisionDay, "1879 CE, 3/14"},
		{"day without leading sign", "1879-03-14T00:00:00Z", model.PrecisionDay, "1879 CE, 3/14"},
		{"day with zero day", "+1879-03-00T00:00:00Z", model.PrecisionDay, "1879 CE"},
		{"day with zero month", "+1879-00-14T00:00:00Z", model.PrecisionDay, "1879 CE"},
		{"month", "+1879-03-00T00:00:00Z", model.PrecisionMonth, "1879 CE, month 3"},
		{"month unknown", "+1879-00-00T00:00:00Z", model.PrecisionMonth, "1879 CE"},
		{"year", "+1879-03-14T00:00:00Z", model.PrecisionYear, "1879 CE"},
		{"year zero is BCE", "+0000-00-00T00:00:00Z", model.PrecisionYear, "0 BCE"},
		{"negative year", "-0469-00-00T00:00:00Z", model.PrecisionYear, "469 BCE"},
		{"negative year with day", "-0044-03-15T00:00:00Z", model.PrecisionDay, "44 BCE, 3/15"},
		{"year one is CE", "+0001-01-01T00:00:00Z", model.PrecisionYear, "1 CE"},
		{"long year", "+13798000000-00-00T00:00:00Z", model.PrecisionYear, "13798000000 CE"},
		{"most negative int64 year", "-9223372036854775808-00-00T00:00:00Z", model.PrecisionYear, "9223372036854775808 BCE"},
		{"year beyond int64", "+99999999999999999999-01-02T00:00:00Z", model.PrecisionDay, "99999999999999999999 CE, 1/2"},
		{"negative zero year", "-0000-00-00T00:00:00Z", model.PrecisionYear, "0 BCE"},
		{"decade precision", "+1870-00-00T00:00:00Z", 8, locale.UnsupportedPrecision},
		{"hour precision", "+1879-03-14T00:00:00Z", 12, locale.UnsupportedPrecision},
		{"unsupported wins over malformed", "garbage", 7, locale.UnsupportedPrecision},
		{"malformed", "1879/03/14", model.PrecisionDay, locale.InvalidTimeFormat},
		{"no time part", "+1879-03-14", model.PrecisionDay, locale.InvalidTimeFormat},
		{"empty", "", model.PrecisionYear, locale.InvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.time, tt.precision, locale.English))
		})
	}
}

func TestFormatDate_YearPrecisionHasNoMonthOrDay(t *testing.T) {
	for _, year := range []string{"-2000", "-1", "+0000", "+0001", "+0476", "+1999", "+2024"} {
		got := FormatDate(year+"-07-21T00:00:00Z", model.PrecisionYear, locale.English)
		assert.NotContains(t, got, ",", "year precision must not carry month or day: %s", got)
		if year[0] == '-' || year == "+0000" {
			assert.Contains(t, got, "BCE")
		} else {
			assert.Contains(t, got, " CE")
			assert.NotContains(t, got, "BCE")
		}
	}
}

func TestFormatDate_Russian(t *testing.T) {
	assert.Equal(t, "1879 н. э., 3/14", FormatDate("+1879-03-14T00:00:00Z", model.PrecisionDay, locale.Russian))
	assert.Equal(t, "1879 н. э., месяц 3", FormatDate("+1879-03-00T00:00:00Z", model.PrecisionMonth, locale.Russian))
	assert.Equal(t, "469 до н. э.", FormatDate("-0469-00-00T00:00:00Z", model.PrecisionYear, locale.Russian))
}

func TestFormatValue(t *testing.T) {
	v := model.ClaimValue{Kind: model.ValueTime, Time: "+1955-04-18T00:00:00Z", Precision: model.PrecisionDay}
	assert.Equal(t, "1955 CE, 4/18", FormatValue(v, locale.English))
}
