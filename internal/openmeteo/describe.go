package openmeteo

// UnknownColor marks points without weather data.
const UnknownColor = "#8c03fc"

// Describe maps a WMO weather code to a display color and label.
func Describe(code *int) (color, description string) {
	if code == nil {
		return UnknownColor, "Desconhecido"
	}
	switch c := *code; {
	case c <= 1:
		return "#f59e0b", "Sol"
	case c <= 3:
		return "#6b7280", "Nublado"
	case c <= 48:
		return "#9ca3af", "Nevoeiro"
	case c <= 67:
		return "#3b82f6", "Chuva"
	case c <= 77:
		return "#06b6d4", "Neve"
	case c <= 82:
		return "#2563eb", "Aguaceiros"
	case c >= 95:
		return "#1e3a8a", "Trovoada"
	}
	return UnknownColor, "Normal"
}
