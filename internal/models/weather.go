package models

import "time"

// WeatherLocation is a named place weather readings are recorded against.
type WeatherLocation struct {
	ID      int64  `db:"id"      json:"id"`
	Name    string `db:"name"    json:"name"`
	Country string `db:"country" json:"country"`
	Admin1  string `db:"admin1"  json:"admin1"` // state / province
}

// WeatherObservation is one current-conditions reading for a location.
type WeatherObservation struct {
	ID          int64     `db:"id"          json:"id"`
	LocationID  int64     `db:"location_id" json:"location_id"`
	Temperature float64   `db:"temperature" json:"temperature"`
	Unit        string    `db:"unit"        json:"unit"` // C or F
	Conditions  string    `db:"conditions"  json:"conditions"`
	ObservedAt  time.Time `db:"observed_at" json:"observed_at"`
}

// WeatherForecastDay is one daily forecast row. Fahrenheit columns are
// preferred when populated; Celsius columns are converted otherwise.
type WeatherForecastDay struct {
	LocationID   int64     `db:"location_id"   json:"location_id"`
	ForecastDate time.Time `db:"forecast_date" json:"forecast_date"`
	HighC        *float64  `db:"high_c"        json:"high_c,omitempty"`
	LowC         *float64  `db:"low_c"         json:"low_c,omitempty"`
	HighF        *float64  `db:"high_f"        json:"high_f,omitempty"`
	LowF         *float64  `db:"low_f"         json:"low_f,omitempty"`
	Conditions   string    `db:"conditions"    json:"conditions"`
}
