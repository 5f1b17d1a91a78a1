package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealOn(date string, price int, airline string, stops int) Deal {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return Deal{Date: d, Price: price, TotalPrice: price * 2, Airline: airline, Stops: stops}
}

func TestBuildDealReport_Empty(t *testing.T) {
	report := BuildDealReport(nil)

	assert.Empty(t, report.Deals)
	assert.Empty(t, report.Top)
	assert.Zero(t, report.Remaining)
	assert.Zero(t, report.AveragePrice)
	assert.Empty(t, report.TopAirline)
}

func TestBuildDealReport_SortsByPriceStable(t *testing.T) {
	deals := []Deal{
		dealOn("2026-02-03", 500, "IndiGo", 0),
		dealOn("2026-02-01", 300, "SpiceJet", 1),
		dealOn("2026-02-02", 300, "Vistara", 0),
		dealOn("2026-02-04", 800, "IndiGo", 2),
	}

	report := BuildDealReport(deals)

	require.Len(t, report.Deals, 4)
	assert.Equal(t, 300, report.Deals[0].Price)
	assert.Equal(t, 300, report.Deals[1].Price)
	// При равной цене сохраняется порядок обнаружения.
	assert.Equal(t, "SpiceJet", report.Deals[0].Airline)
	assert.Equal(t, "Vistara", report.Deals[1].Airline)

	assert.Equal(t, "SpiceJet", report.Cheapest.Airline)
	assert.Equal(t, 300, report.Cheapest.Price)

	// Исходный срез не мутируется.
	assert.Equal(t, 500, deals[0].Price)
}

func TestBuildDealReport_TopLimitAndRemaining(t *testing.T) {
	var deals []Deal
	for i := 0; i < 20; i++ {
		deals = append(deals, dealOn("2026-02-01", 100+i, fmt.Sprintf("A%d", i), 0))
	}

	report := BuildDealReport(deals)

	assert.Len(t, report.Top, TopDealsLimit)
	assert.Equal(t, 5, report.Remaining)
	assert.Len(t, report.Deals, 20)
}

func TestBuildDealReport_AveragePriceIsTruncated(t *testing.T) {
	deals := []Deal{
		dealOn("2026-02-01", 100, "IndiGo", 0),
		dealOn("2026-02-02", 101, "IndiGo", 0),
	}

	report := BuildDealReport(deals)

	// 100.5 усекается до 100, а не округляется до 101.
	assert.Equal(t, 100, report.AveragePrice)
}

func TestBuildDealReport_TopAirlineTiesGoToCheapest(t *testing.T) {
	deals := []Deal{
		dealOn("2026-02-01", 400, "Vistara", 1),
		dealOn("2026-02-02", 300, "IndiGo", 0),
		dealOn("2026-02-03", 200, "Vistara", 0),
		dealOn("2026-02-04", 100, "IndiGo", 1),
	}

	report := BuildDealReport(deals)

	// Частоты равны, побеждает авиакомпания, встреченная раньше в порядке
	// цены: у IndiGo самая дешевая сделка.
	assert.Equal(t, "IndiGo", report.TopAirline)
	assert.Equal(t, 2, report.TopAirlineCount)
}

func TestBuildDealReport_NonStopCount(t *testing.T) {
	deals := []Deal{
		dealOn("2026-02-01", 100, "IndiGo", 0),
		dealOn("2026-02-02", 200, "IndiGo", 1),
		dealOn("2026-02-03", 300, "IndiGo", 0),
	}

	report := BuildDealReport(deals)

	assert.Equal(t, 2, report.NonStopCount)
}
