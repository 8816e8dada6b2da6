package catalog

import (
	"route-planner/internal/models"
	"route-planner/internal/planner"
)

var hotels = []models.Hotel{
	{
		ID:           "olive-boutique",
		Name:         "Olive Boutique Hotel",
		Rating:       4.6,
		Location:     "Старе місто",
		Distance:     "0.5 км від центру",
		Price:        2100,
		Currency:     "UAH",
		Amenities:    []string{"Wi-Fi", "Сніданок", "Паркування", "Кондиціонер"},
		Description:  "Затишний готель у центрі старого міста з видом на площу Ринок.",
		Image:        "/placeholder-hotel.jpg",
		Photos:       []string{"/placeholder-hotel.jpg", "/placeholder-hotel-2.jpg"},
		Address:      "вул. Ринок, 12",
		CheckInTime:  "14:00",
		CheckOutTime: "12:00",
		Rooms:        15,
	},
	{
		ID:           "amber-yard",
		Name:         "Amber Yard",
		Rating:       4.4,
		Location:     "Поруч із вокзалом",
		Distance:     "1.2 км від центру",
		Price:        1650,
		Currency:     "UAH",
		Amenities:    []string{"Сніданок", "Wi-Fi", "Цілодобова рецепція"},
		Description:  "Сучасні номери біля вокзалу.",
		Image:        "/placeholder-hotel.jpg",
		Address:      "вул. Городоцька, 45",
		CheckInTime:  "15:00",
		CheckOutTime: "11:00",
		Rooms:        20,
	},
	{
		ID:           "green-patio",
		Name:         "Green Patio Apartments",
		Rating:       4.8,
		Location:     "Тихий район",
		Distance:     "2 км від центру",
		Price:        2450,
		Currency:     "UAH",
		Amenities:    []string{"Кухня", "Пральня", "Тераса", "Wi-Fi", "Паркування"},
		Description:  "Просторі апартаменти з кухнею для сімейного відпочинку.",
		Image:        "/placeholder-hotel.jpg",
		Address:      "вул. Зелена, 8",
		CheckInTime:  "16:00",
		CheckOutTime: "12:00",
		Rooms:        10,
	},
	{
		ID:           "royal-palace",
		Name:         "Royal Palace Hotel",
		Rating:       4.9,
		Location:     "Центр міста",
		Distance:     "0.2 км від центру",
		Price:        3200,
		Currency:     "UAH",
		Amenities:    []string{"Wi-Fi", "Сніданок", "Ресторан", "Спа", "Паркування", "Басейн"},
		Description:  "Готель преміум-класу в самому серці міста.",
		Image:        "/placeholder-hotel.jpg",
		Address:      "пл. Ринок, 1",
		CheckInTime:  "14:00",
		CheckOutTime: "12:00",
		Rooms:        30,
	},
	{
		ID:           "budget-inn",
		Name:         "Budget Inn",
		Rating:       4.0,
		Location:     "Околиці",
		Distance:     "3.5 км від центру",
		Price:        950,
		Currency:     "UAH",
		Amenities:    []string{"Wi-Fi", "Паркування"},
		Description:  "Економний варіант з базовими зручностями.",
		Image:        "/placeholder-hotel.jpg",
		Address:      "вул. Шевченка, 120",
		CheckInTime:  "15:00",
		CheckOutTime: "11:00",
		Rooms:        25,
	},
}

var amenities = []string{
	"Wi-Fi", "Сніданок", "Паркування", "Кондиціонер", "Басейн", "Спа",
	"Ресторан", "Кухня", "Пральня", "Тераса", "Цілодобова рецепція",
}

var transports = []models.Transport{
	{ID: "ic-712", Type: planner.TransportTrain, Name: "IC 712", Route: "Львів → Краків", Departure: "08:45", Arrival: "11:10", Duration: "2 год 25 хв", Amenities: []string{"Без пересадок", "Wi-Fi", "Розетки"}, Price: 980, Currency: "UAH", Carrier: "Укрзалізниця", Class: "2 клас"},
	{ID: "ic-740", Type: planner.TransportTrain, Name: "IC 740", Route: "Львів → Краків", Departure: "10:10", Arrival: "12:45", Duration: "2 год 35 хв", Amenities: []string{"Wi-Fi", "Ресторан"}, Price: 1050, Currency: "UAH", Carrier: "Укрзалізниця", Class: "2 клас"},
	{ID: "regio-1", Type: planner.TransportTrain, Name: "REGIO", Route: "Львів → Перемишль", Departure: "07:30", Arrival: "08:45", Duration: "1 год 15 хв", Transfers: 1, Amenities: []string{"Економ"}, Price: 410, Currency: "UAH", Carrier: "Укрзалізниця", Class: "3 клас"},
	{ID: "ic-750", Type: planner.TransportTrain, Name: "IC 750", Route: "Львів → Варшава", Departure: "14:20", Arrival: "20:15", Duration: "5 год 55 хв", Amenities: []string{"Без пересадок", "Wi-Fi", "Ресторан", "Розетки"}, Price: 1450, Currency: "UAH", Carrier: "Укрзалізниця", Class: "1 клас"},
	{ID: "bus-101", Type: planner.TransportBus, Name: "FlixBus 101", Route: "Львів → Краків", Departure: "09:00", Arrival: "13:30", Duration: "4 год 30 хв", Amenities: []string{"Wi-Fi", "Кондиціонер", "USB"}, Price: 650, Currency: "UAH", Carrier: "FlixBus"},
	{ID: "bus-205", Type: planner.TransportBus, Name: "Ecolines 205", Route: "Львів → Варшава", Departure: "22:00", Arrival: "06:30", Duration: "8 год 30 хв", Amenities: []string{"Wi-Fi", "Туалет", "Кондиціонер"}, Price: 850, Currency: "UAH", Carrier: "Ecolines"},
	{ID: "bus-303", Type: planner.TransportBus, Name: "Autolux 303", Route: "Львів → Будапешт", Departure: "08:00", Arrival: "18:45", Duration: "10 год 45 хв", Transfers: 1, Amenities: []string{"Wi-Fi", "Кондиціонер"}, Price: 1100, Currency: "UAH", Carrier: "Autolux"},
	{ID: "flight-ua101", Type: planner.TransportPlane, Name: "UA 101", Route: "Львів → Варшава", Departure: "06:30", Arrival: "07:45", Duration: "1 год 15 хв", Amenities: []string{"Багаж 20кг", "Харчування"}, Price: 2500, Currency: "UAH", Carrier: "Ukraine International", Class: "Економ"},
	{ID: "flight-lo202", Type: planner.TransportPlane, Name: "LO 202", Route: "Львів → Краків", Departure: "11:20", Arrival: "12:10", Duration: "50 хв", Amenities: []string{"Багаж 23кг", "Харчування", "Wi-Fi"}, Price: 1800, Currency: "UAH", Carrier: "LOT Polish Airlines", Class: "Економ"},
	{ID: "flight-w6303", Type: planner.TransportPlane, Name: "W6 303", Route: "Львів → Будапешт", Departure: "15:40", Arrival: "16:55", Duration: "1 год 15 хв", Amenities: []string{"Ручна поклажа"}, Price: 1200, Currency: "UAH", Carrier: "Wizz Air", Class: "Базовий"},
}

var transportTypes = []models.TransportTypeInfo{
	{Value: planner.TransportTrain, Label: "Потяг"},
	{Value: planner.TransportBus, Label: "Автобус"},
	{Value: planner.TransportPlane, Label: "Літак"},
}

var pois = []models.POI{
	{ID: "poi-1", Name: "Площа Ринок", Description: "Центральна площа Львова з ратушею та кав'ярнями.", Category: "monument", Location: "Львів", Rating: 4.8, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Цілодобово", Currency: "UAH", Duration: "1-2 години", Address: "пл. Ринок, Львів"},
	{ID: "poi-2", Name: "Львівський оперний театр", Description: "Оперний театр у стилі віденського ренесансу.", Category: "entertainment", Location: "Львів", Rating: 4.9, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Вт-Нд 10:00-19:00", TicketPrice: 150, Currency: "UAH", Duration: "1 година (екскурсія)", Website: "opera.lviv.ua", Phone: "+380322355869", Address: "пр. Свободи, 28, Львів"},
	{ID: "poi-3", Name: "Високий замок", Description: "Оглядовий майданчик з панорамою Львова.", Category: "viewpoint", Location: "Львів", Rating: 4.7, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Цілодобово", Currency: "UAH", Duration: "1-2 години", Address: "Високий замок, Львів"},
	{ID: "poi-4", Name: "Вавельський замок", Description: "Королівський замок на пагорбі Вавель.", Category: "castle", Location: "Краків", Rating: 4.8, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Вт-Нд 09:00-17:00", TicketPrice: 120, Currency: "PLN", Duration: "2-3 години", Website: "wawel.krakow.pl", Address: "Wawel 5, Kraków"},
	{ID: "poi-5", Name: "Головна площа Кракова", Description: "Одна з найбільших середньовічних площ Європи.", Category: "monument", Location: "Краків", Rating: 4.9, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Цілодобово", Currency: "PLN", Duration: "1-2 години", Address: "Rynek Główny, Kraków"},
	{ID: "poi-6", Name: "Казимеж", Description: "Історичний єврейський квартал Кракова.", Category: "monument", Location: "Краків", Rating: 4.7, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Цілодобово", Currency: "PLN", Duration: "2-3 години", Address: "Kazimierz, Kraków"},
	{ID: "poi-7", Name: "Собор Святого Юра", Description: "Кафедральний собор у стилі бароко.", Category: "church", Location: "Львів", Rating: 4.6, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Щодня 08:00-18:00", Currency: "UAH", Duration: "30-60 хвилин", Address: "пл. Святого Юра, 5, Львів"},
	{ID: "poi-8", Name: "Стрийський парк", Description: "Найстаріший парк Львова з дендрарієм.", Category: "park", Location: "Львів", Rating: 4.5, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Цілодобово", Currency: "UAH", Duration: "1-2 години", Address: "вул. Стрийська, Львів"},
	{ID: "poi-9", Name: "Кав'ярня Svit Kavy", Description: "Кав'ярня з авторською кавою та десертами.", Category: "cafe", Location: "Львів", Rating: 4.7, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Пн-Нд 08:00-22:00", TicketPrice: 80, Currency: "UAH", Duration: "30-60 хвилин", Phone: "+380322975555", Address: "вул. Катедральна, 6, Львів"},
	{ID: "poi-10", Name: "Замок Барбакан", Description: "Середньовічна фортеця у Кракові.", Category: "castle", Location: "Краків", Rating: 4.5, Photos: []string{"/placeholder-poi.jpg"}, OpeningHours: "Вт-Нд 10:00-18:00", TicketPrice: 40, Currency: "PLN", Duration: "45 хвилин", Address: "ul. Baszta, Kraków"},
}

var categories = []models.Category{
	{Value: "museum", Label: "Музеї"},
	{Value: "monument", Label: "Пам'ятки"},
	{Value: "park", Label: "Парки"},
	{Value: "restaurant", Label: "Ресторани"},
	{Value: "cafe", Label: "Кав'ярні"},
	{Value: "church", Label: "Храми"},
	{Value: "castle", Label: "Замки"},
	{Value: "viewpoint", Label: "Оглядові майданчики"},
	{Value: "shopping", Label: "Шопінг"},
	{Value: "entertainment", Label: "Розваги"},
}
