package models

// City is a row of the read-only city reference table. Rows are loaded by a
// separate import step and are only ever resolved by foreign key here.
type City struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CityName   string  `gorm:"not null;index" json:"city_name"`
	KoName     string  `json:"ko_name"`
	Country    string  `json:"country"`
	KoCountry  string  `json:"ko_country"`
	IsDomestic bool    `json:"is_domestic"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// TableName keeps the original table name used by the city import tooling.
func (City) TableName() string {
	return "cities"
}
