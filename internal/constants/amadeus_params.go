package constants

// Параметры внешнего поиска Amadeus.
const (
	// Максимум предложений, запрашиваемых за один вызов поиска.
	AmadeusMaxOffers = 50

	AmadeusTestHost       = "https://test.api.amadeus.com"
	AmadeusProductionHost = "https://api.amadeus.com"
)
