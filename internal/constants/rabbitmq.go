package constants

// Ключи маршрутизации
const (
	ExchangeName = "flight_monitor_exchange"

	RoutingKeyDealsResults = "flight.deals.results"
)
