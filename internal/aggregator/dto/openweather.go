package dto

type OpenWeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type OpenWeatherMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
}

type OpenWeatherWind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

// OpenWeatherPrecipitation carries the volume keyed by window length.
type OpenWeatherPrecipitation struct {
	OneHour   float64 `json:"1h"`
	ThreeHour float64 `json:"3h"`
}

type OpenWeatherCurrentResponse struct {
	Name    string                   `json:"name"`
	Dt      int64                    `json:"dt"`
	Main    OpenWeatherMain          `json:"main"`
	Weather []OpenWeatherCondition   `json:"weather"`
	Wind    OpenWeatherWind          `json:"wind"`
	Rain    OpenWeatherPrecipitation `json:"rain"`
	Snow    OpenWeatherPrecipitation `json:"snow"`
}

type OpenWeatherForecastItem struct {
	Dt      int64                    `json:"dt"`
	Main    OpenWeatherMain          `json:"main"`
	Weather []OpenWeatherCondition   `json:"weather"`
	Wind    OpenWeatherWind          `json:"wind"`
	Pop     float64                  `json:"pop"`
	Rain    OpenWeatherPrecipitation `json:"rain"`
}

type OpenWeatherForecastResponse struct {
	List []OpenWeatherForecastItem `json:"list"`
}

type OpenWeatherGeocodeEntry struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type OpenWeatherAlert struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
}

type OpenWeatherOneCallResponse struct {
	Alerts []OpenWeatherAlert `json:"alerts"`
}
