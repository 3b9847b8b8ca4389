package models

// Condition describes a WMO weather interpretation code
type Condition struct {
	Icon  string
	Label string
}

func (c Condition) String() string {
	if c.Icon == "" {
		return c.Label
	}
	return c.Icon + " " + c.Label
}

// UnknownCondition is returned for codes outside the WMO table
var UnknownCondition = Condition{Label: "Unknown"}

var conditions = map[int]Condition{
	0:  {"☀️", "Clear sky"},
	1:  {"🌤️", "Mainly clear"},
	2:  {"⛅", "Partly cloudy"},
	3:  {"☁️", "Overcast"},
	45: {"🌫️", "Fog"},
	48: {"🌫️", "Depositing rime fog"},
	51: {"🌦️", "Light drizzle"},
	53: {"🌦️", "Moderate drizzle"},
	55: {"🌦️", "Dense drizzle"},
	56: {"🌧️", "Light freezing drizzle"},
	57: {"🌧️", "Dense freezing drizzle"},
	61: {"🌧️", "Rain"},
	63: {"🌧️", "Moderate rain"},
	65: {"🌧️", "Heavy rain"},
	66: {"🌧️", "Light freezing rain"},
	67: {"🌧️", "Heavy freezing rain"},
	71: {"❄️", "Snow"},
	73: {"❄️", "Moderate snow"},
	75: {"❄️", "Heavy snow"},
	77: {"❄️", "Snow grains"},
	80: {"🌦️", "Rain showers"},
	81: {"🌧️", "Moderate rain showers"},
	82: {"⛈️", "Violent rain showers"},
	85: {"🌨️", "Snow showers"},
	86: {"🌨️", "Heavy snow showers"},
	95: {"⛈️", "Thunderstorm"},
	96: {"⛈️", "Thunderstorm with hail"},
	99: {"⛈️", "Thunderstorm with heavy hail"},
}

// ConditionFor looks up the description for a weather code
func ConditionFor(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return UnknownCondition
}
