package seed

import (
	"planit/internal/models"

	"gorm.io/gorm"
)

// cityCatalog is the built-in reference data loaded on first seed. The list
// mixes domestic (Korean) and international destinations.
var cityCatalog = []models.City{
	{CityName: "Seoul", KoName: "서울", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 37.5665, Lon: 126.9780},
	{CityName: "Busan", KoName: "부산", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 35.1796, Lon: 129.0756},
	{CityName: "Jeju", KoName: "제주", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 33.4996, Lon: 126.5312},
	{CityName: "Incheon", KoName: "인천", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 37.4563, Lon: 126.7052},
	{CityName: "Gyeongju", KoName: "경주", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 35.8562, Lon: 129.2247},
	{CityName: "Jeonju", KoName: "전주", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 35.8242, Lon: 127.1480},
	{CityName: "Sokcho", KoName: "속초", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 38.2070, Lon: 128.5918},
	{CityName: "Gangneung", KoName: "강릉", Country: "South Korea", KoCountry: "대한민국", IsDomestic: true, Lat: 37.7519, Lon: 128.8761},
	{CityName: "Tokyo", KoName: "도쿄", Country: "Japan", KoCountry: "일본", IsDomestic: false, Lat: 35.6762, Lon: 139.6503},
	{CityName: "Osaka", KoName: "오사카", Country: "Japan", KoCountry: "일본", IsDomestic: false, Lat: 34.6937, Lon: 135.5023},
	{CityName: "Taipei", KoName: "타이베이", Country: "Taiwan", KoCountry: "대만", IsDomestic: false, Lat: 25.0330, Lon: 121.5654},
	{CityName: "Bangkok", KoName: "방콕", Country: "Thailand", KoCountry: "태국", IsDomestic: false, Lat: 13.7563, Lon: 100.5018},
	{CityName: "Da Nang", KoName: "다낭", Country: "Vietnam", KoCountry: "베트남", IsDomestic: false, Lat: 16.0544, Lon: 108.2022},
	{CityName: "Paris", KoName: "파리", Country: "France", KoCountry: "프랑스", IsDomestic: false, Lat: 48.8566, Lon: 2.3522},
	{CityName: "Barcelona", KoName: "바르셀로나", Country: "Spain", KoCountry: "스페인", IsDomestic: false, Lat: 41.3874, Lon: 2.1686},
	{CityName: "New York", KoName: "뉴욕", Country: "United States", KoCountry: "미국", IsDomestic: false, Lat: 40.7128, Lon: -74.0060},
}

// Cities loads the built-in city catalog if the table is empty. Safe to call
// on every startup.
func Cities(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.City{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.CreateInBatches(cityCatalog, 50).Error
}
