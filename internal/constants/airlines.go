package constants

// Статический справочник код перевозчика -> отображаемое имя.
// Справочник намеренно маленький: это индийские перевозчики из маршрутов,
// которые мониторит сервис.
var airlineNames = map[string]string{
	"6E": "IndiGo",
	"AI": "Air India",
	"SG": "SpiceJet",
	"UK": "Vistara",
	"QP": "Akasa Air",
	"IX": "Air India Express",
	"9I": "Alliance Air",
	"I5": "AirAsia India",
	"G8": "Go First",
}

// AirlineName возвращает имя авиакомпании по коду перевозчика.
// Для неизвестного кода возвращается сам код — функция тотальна, ошибок нет.
func AirlineName(carrierCode string) string {
	if name, ok := airlineNames[carrierCode]; ok {
		return name
	}
	return carrierCode
}
