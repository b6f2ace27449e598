package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/utils"
)

func TestFormatAlertMessage(t *testing.T) {
	alert := &entity.Alert{
		Title:       "Flood Warning",
		Description: "River levels rising in low-lying areas.",
		Category:    "weather",
		Subcategory: "weather_floods",
		Location:    "Gampaha",
		Severity:    entity.SeverityHigh,
		Source:      entity.AlertSourceWeather,
		CreatedAt:   time.Date(2025, 6, 10, 8, 30, 0, 0, time.UTC),
	}

	msg := FormatAlertMessage(alert)
	assert.Contains(t, msg, "🚨 *Flood Warning*")
	assert.Contains(t, msg, "📍 *Location:* Gampaha")
	assert.Contains(t, msg, "🏷 *Category:* weather / weather_floods")
	assert.Contains(t, msg, utils.PrettyDate(alert.CreatedAt))
	assert.Contains(t, msg, "_source: weather_")
}

func TestFormatAlertMessageSeverityIcons(t *testing.T) {
	medium := FormatAlertMessage(&entity.Alert{Severity: entity.SeverityMedium})
	assert.Contains(t, medium, "⚠️")

	info := FormatAlertMessage(&entity.Alert{Severity: entity.SeverityInfo})
	assert.Contains(t, info, "ℹ️")
}

func TestFormatFuelChangeMessage(t *testing.T) {
	msg := FormatFuelChangeMessage("petrol_95", 360, 370, 2.78)
	assert.Contains(t, msg, "📈 *Fuel Price Update: Petrol 95*")
	assert.Contains(t, msg, "Rs. 360.00 → Rs. 370.00")
	assert.Contains(t, msg, "+2.78%")
	assert.Contains(t, msg, "🕒 ")

	down := FormatFuelChangeMessage("auto_diesel", 330, 310, -6.06)
	assert.Contains(t, down, "📉")
	assert.Contains(t, down, "-6.06%")
}
