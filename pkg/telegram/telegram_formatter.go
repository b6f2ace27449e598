package telegram

import (
	"fmt"
	"strings"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/utils"
)

// FormatAlertMessage formats an alert into a Markdown string for Telegram.
func FormatAlertMessage(alert *entity.Alert) string {
	var builder strings.Builder

	var severityIcon string
	switch alert.Severity {
	case entity.SeverityHigh:
		severityIcon = "🚨"
	case entity.SeverityMedium:
		severityIcon = "⚠️"
	default:
		severityIcon = "ℹ️"
	}

	builder.WriteString(fmt.Sprintf("%s *%s*\n\n", severityIcon, alert.Title))
	builder.WriteString(fmt.Sprintf("📍 *Location:* %s\n", alert.Location))
	builder.WriteString(fmt.Sprintf("🏷 *Category:* %s / %s\n", alert.Category, alert.Subcategory))
	builder.WriteString(fmt.Sprintf("📢 *Severity:* %s\n\n", alert.Severity))

	if alert.Description != "" {
		builder.WriteString(fmt.Sprintf("%s\n\n", alert.Description))
	}

	builder.WriteString(fmt.Sprintf("🕒 %s\n", utils.PrettyDate(alert.CreatedAt)))
	builder.WriteString(fmt.Sprintf("🔎 _source: %s_\n", alert.Source))

	return builder.String()
}

// FormatFuelChangeMessage formats a notable fuel price change for Telegram.
func FormatFuelChangeMessage(fuelType string, oldPrice, newPrice, changePct float64) string {
	var builder strings.Builder

	icon := "📈"
	if changePct < 0 {
		icon = "📉"
	}

	builder.WriteString(fmt.Sprintf("%s *Fuel Price Update: %s*\n\n", icon, prettyFuelName(fuelType)))
	builder.WriteString(fmt.Sprintf("💰 Rs. %.2f → Rs. %.2f\n", oldPrice, newPrice))
	builder.WriteString(fmt.Sprintf("Δ %+.2f%%\n\n", changePct))
	builder.WriteString(fmt.Sprintf("🕒 %s\n", utils.PrettyDate(utils.TimeNowColombo())))

	return builder.String()
}

func prettyFuelName(fuelType string) string {
	name := strings.ReplaceAll(fuelType, "_", " ")
	return utils.TitleWords(name)
}
