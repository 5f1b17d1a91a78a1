package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"flight-monitor-service/internal/core/domain"
)

const reportDivider = "━━━━━━━━━━━━━━━━━━━━\n"

// RenderReportMessage собирает Telegram-сообщение (Markdown) по отчету.
// Для пустой коллекции сделок — отчет "ничего не найдено" с эхом критериев
// и статичными подсказками.
func RenderReportMessage(criteria domain.SearchCriteria, report domain.DealReport) string {
	if len(report.Deals) == 0 {
		return renderNoDealsMessage(criteria)
	}

	var b strings.Builder

	b.WriteString("✈️ *FLIGHT DEALS FOUND!*\n")
	b.WriteString(reportDivider)
	b.WriteString("\n")
	fmt.Fprintf(&b, "🛫 *%s (%s) → %s (%s)*\n", criteria.FromCity, criteria.FromCode, criteria.ToCity, criteria.ToCode)
	fmt.Fprintf(&b, "📅 %s to %s\n", criteria.StartDate.Format("2006-01-02"), criteria.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "👥 %d passengers\n", criteria.Passengers)
	fmt.Fprintf(&b, "🎯 *%d deals* under %s%d\n\n", len(report.Deals), criteria.Currency, criteria.MaxPrice)
	b.WriteString(reportDivider)
	b.WriteString("\n")

	fmt.Fprintf(&b, "*🏆 TOP %d BEST DEALS:*\n\n", domain.TopDealsLimit)

	for i, deal := range report.Top {
		fmt.Fprintf(&b, "*%d. %s%d/person* (%s)\n", i+1, criteria.Currency, deal.Price, deal.Date.Format("Jan 02, Mon"))
		fmt.Fprintf(&b, "   💰 Total: %s%s for %d pax\n", criteria.Currency, groupThousands(deal.TotalPrice), criteria.Passengers)
		fmt.Fprintf(&b, "   ✈️ %s (%s)", deal.Airline, deal.CarrierCode)
		if deal.Stops == 0 {
			b.WriteString(" • Non-stop\n")
		} else {
			fmt.Fprintf(&b, " • %d stop(s)\n", deal.Stops)
		}
		fmt.Fprintf(&b, "   🕐 Departs %s • %s\n", deal.DepartureTime, deal.Duration)
		fmt.Fprintf(&b, "   💺 %s\n\n", deal.CabinClass)
	}

	if report.Remaining > 0 {
		fmt.Fprintf(&b, "\n_...and %d more deals available!_\n", report.Remaining)
	}

	b.WriteString("\n")
	b.WriteString(reportDivider)
	b.WriteString("*📊 STATISTICS:*\n\n")
	fmt.Fprintf(&b, "🏆 Cheapest: %s%d (%s)\n", criteria.Currency, report.Cheapest.Price, report.Cheapest.Airline)
	fmt.Fprintf(&b, "📊 Average: %s%d\n", criteria.Currency, report.AveragePrice)
	if report.TopAirline != "" {
		fmt.Fprintf(&b, "✈️ Most deals: %s (%d flights)\n", report.TopAirline, report.TopAirlineCount)
	}
	if report.NonStopCount > 0 {
		fmt.Fprintf(&b, "🚀 Non-stop flights: %d\n", report.NonStopCount)
	}

	fmt.Fprintf(&b, "\n🕐 Checked: %s\n", time.Now().Format("03:04 PM, Jan 02, 2006"))
	b.WriteString("🌐 Source: Amadeus (400+ airlines)\n")
	b.WriteString("💡 Run again anytime to refresh prices")

	return b.String()
}

// groupThousands форматирует целое с разделителями тысяч: 12500 -> "12,500".
func groupThousands(n int) string {
	s := strconv.Itoa(n)

	start := 0
	if strings.HasPrefix(s, "-") {
		start = 1
	}

	var b strings.Builder
	b.WriteString(s[:start])
	for i, digit := range s[start:] {
		if i > 0 && (len(s)-start-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String()
}

func renderNoDealsMessage(criteria domain.SearchCriteria) string {
	var b strings.Builder

	b.WriteString("❌ *No Deals Found*\n\n")
	fmt.Fprintf(&b, "🛫 %s → %s\n", criteria.FromCity, criteria.ToCity)
	fmt.Fprintf(&b, "📅 %s to %s\n", criteria.StartDate.Format("2006-01-02"), criteria.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "👥 %d passengers\n", criteria.Passengers)
	fmt.Fprintf(&b, "💰 Target: ≤ %s%d/person\n\n", criteria.Currency, criteria.MaxPrice)
	b.WriteString("💡 *Suggestions:*\n")
	b.WriteString("• Increase your budget in .env file\n")
	b.WriteString("• Try different dates\n")
	b.WriteString("• Check again later (prices change!)\n\n")
	b.WriteString("_Using Amadeus API - Real prices from 400+ airlines_")

	return b.String()
}
