package tools

const (
	SearchFlightsOptionsName  = "search_flights_options"
	SearchBookingsOptionsName = "search_bookings_options"
	BookFlightName            = "book_flight"
	SearchHotelsOptionsName   = "search_hotels_options"
	BookHotelName             = "book_hotel"
	AddName                   = "add"
	SubtractName              = "subtract"
	MultiplyName              = "multiply"
	DivideName                = "divide"
)

var (
	FlightTools = []string{SearchFlightsOptionsName, SearchBookingsOptionsName, BookFlightName}
	HotelTools  = []string{SearchHotelsOptionsName, BookHotelName}
	MathTools   = []string{AddName, SubtractName, MultiplyName, DivideName}
)

// NewDefaultRegistry registra as ferramentas de voos, hotéis e matemática.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	Register(r, SearchFlightsOptionsName,
		"Searches for available flight options on the specified date. "+
			"Returns several flight options for matching cities.",
		searchFlightsTool)
	Register(r, SearchBookingsOptionsName,
		"Searches for available flight options to the destination on the specified date.",
		searchBookingsTool)
	Register(r, BookFlightName,
		"Books a flight to the destination on the specified date. "+
			"The details are the option object returned by search_flights_options.",
		bookFlightTool)

	Register(r, SearchHotelsOptionsName,
		"Searches for available hotel options on the specified date. "+
			"Returns several hotel options for matching cities.",
		searchHotelsTool)
	Register(r, BookHotelName,
		"Books a hotel in the destination on the specified date. "+
			"The details are the option object returned by search_hotels_options.",
		bookHotelTool)

	Register(r, AddName, "Returns the sum of two numbers.", addTool)
	Register(r, SubtractName, "Returns the difference of two numbers.", subtractTool)
	Register(r, MultiplyName, "Returns the product of two numbers.", multiplyTool)
	Register(r, DivideName,
		"Returns the division of two numbers. If b is 0 the result carries the error 'Error: division by zero'.",
		divideTool)

	return r
}
