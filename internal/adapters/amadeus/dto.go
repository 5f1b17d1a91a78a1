package amadeus

// DTO ответа Amadeus Flight Offers Search.
// https://developers.amadeus.com/self-service/category/flights

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type flightOffersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	Price       offerPrice  `json:"price"`
	Itineraries []itinerary `json:"itineraries"`
}

type offerPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type itinerary struct {
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	CarrierCode string        `json:"carrierCode"`
	Cabin       string        `json:"cabin"`
	Departure   segmentPoint  `json:"departure"`
	Arrival     segmentPoint  `json:"arrival"`
}

type segmentPoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}
