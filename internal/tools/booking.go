package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Destinations atendidos pelo inventário mock, na ordem de listagem.
var Destinations = []string{"New York", "London", "Paris"}

type FlightOption struct {
	Flight        string  `json:"flight"`
	Destination   string  `json:"destination"`
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
}

type HotelOption struct {
	Hotel       string  `json:"hotel"`
	Destination string  `json:"destination"`
	Date        string  `json:"date"`
	Price       float64 `json:"price"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
}

type FlightOptions struct {
	Options []FlightOption `json:"options"`
}

type HotelOptions struct {
	Options []HotelOption `json:"options"`
}

type SearchArgs struct {
	Date string `json:"date" jsonschema:"travel date such as 2025-01-01" jsonschema_description:"travel date such as 2025-01-01"`
}

type DestinationSearchArgs struct {
	Date        string `json:"date" jsonschema:"travel date such as 2025-01-01" jsonschema_description:"travel date such as 2025-01-01"`
	Destination string `json:"destination" jsonschema:"destination city" jsonschema_description:"destination city"`
}

type BookArgs struct {
	Destination string         `json:"destination" jsonschema:"destination city" jsonschema_description:"destination city"`
	Date        string         `json:"date" jsonschema:"travel date" jsonschema_description:"travel date"`
	Details     map[string]any `json:"details" jsonschema:"the chosen option as returned by the search tool" jsonschema_description:"the chosen option as returned by the search tool"`
}

var flightSlots = []struct {
	flight, departure, arrival string
	price                      float64
}{
	{"Flight A", "08:00", "10:00", 120.0},
	{"Flight B", "12:00", "14:00", 150.0},
	{"Flight C", "18:00", "20:00", 180.0},
}

var hotelSlots = []struct {
	hotel, checkIn, checkOut string
	price                    float64
}{
	{"Hotel Alpha", "15:00", "11:00", 80.0},
	{"Hotel Beta", "16:00", "12:00", 100.0},
	{"Hotel Gamma", "14:00", "10:00", 120.0},
}

// SearchFlightsOptions retorna um voo fixo por destino conhecido. A data é
// devolvida sem validação.
func SearchFlightsOptions(date string) FlightOptions {
	options := make([]FlightOption, len(flightSlots))
	for i, s := range flightSlots {
		options[i] = FlightOption{
			Flight:        s.flight,
			Destination:   Destinations[i],
			Date:          date,
			Price:         s.price,
			DepartureTime: s.departure,
			ArrivalTime:   s.arrival,
		}
	}
	return FlightOptions{Options: options}
}

// SearchBookingsOptions retorna os três voos fixos, todos com destino à
// cidade pedida.
func SearchBookingsOptions(date, destination string) FlightOptions {
	res := SearchFlightsOptions(date)
	for i := range res.Options {
		res.Options[i].Destination = destination
	}
	return res
}

func SearchHotelsOptions(date string) HotelOptions {
	options := make([]HotelOption, len(hotelSlots))
	for i, s := range hotelSlots {
		options[i] = HotelOption{
			Hotel:       s.hotel,
			Destination: Destinations[i],
			Date:        date,
			Price:       s.price,
			CheckIn:     s.checkIn,
			CheckOut:    s.checkOut,
		}
	}
	return HotelOptions{Options: options}
}

// BookFlight não faz reserva nenhuma; apenas confirma o pedido.
func BookFlight(destination, date string, details map[string]any) string {
	return fmt.Sprintf("Flight booked to %s on %s. Details: %s", destination, date, stringify(details))
}

func BookHotel(destination, date string, details map[string]any) string {
	return fmt.Sprintf("Hotel booked in %s on %s. Details: %s", destination, date, stringify(details))
}

// stringify serializa details como JSON compacto com chaves ordenadas.
func stringify(details map[string]any) string {
	if details == nil {
		return "{}"
	}
	b, err := json.Marshal(details)
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return string(b)
}

func searchFlightsTool(_ context.Context, args SearchArgs) (FlightOptions, error) {
	return SearchFlightsOptions(args.Date), nil
}

func searchBookingsTool(_ context.Context, args DestinationSearchArgs) (FlightOptions, error) {
	return SearchBookingsOptions(args.Date, args.Destination), nil
}

func searchHotelsTool(_ context.Context, args SearchArgs) (HotelOptions, error) {
	return SearchHotelsOptions(args.Date), nil
}

func bookFlightTool(_ context.Context, args BookArgs) (string, error) {
	return BookFlight(args.Destination, args.Date, args.Details), nil
}

func bookHotelTool(_ context.Context, args BookArgs) (string, error) {
	return BookHotel(args.Destination, args.Date, args.Details), nil
}
