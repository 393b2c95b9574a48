package model

// Holds all external facing types and constants. Field names and the
// csv tags are the bit-exact contract with the published feed; don't
// rename them without a feed version bump.

// Values for calendar_dates.txt exception_type.
const (
	ExceptionAdded   int8 = 1
	ExceptionRemoved int8 = 2
)

// GTFS tri-state access values, shared by wheelchair_accessible,
// bikes_allowed and the cars_allowed extension.
const (
	AccessUnknown    int8 = 0
	AccessAllowed    int8 = 1
	AccessNotAllowed int8 = 2
)

// Category tag attached to each raw departure. The vocabulary is
// fixed by the upstream schedule API.
type DepartureType string

const (
	DepartureRegular             DepartureType = "regular"
	DepartureCommercialOnly      DepartureType = "commercial-only"
	DepartureDeliveryPeriod      DepartureType = "delivery-period"
	DepartureDangerousCargo      DepartureType = "dangerous-cargo"
	DepartureAirTransport        DepartureType = "air-transport"
	DepartureReservationRequired DepartureType = "required-reservation"
	DepartureNoticeTide          DepartureType = "notice-tide"
	DepartureFootOnly            DepartureType = "foot-only"
	DeparturePedestriansCyclists DepartureType = "pedestrians-and-cyclists-only"
)

type Trip struct {
	RouteID              string `csv:"route_id"`
	ServiceID            string `csv:"service_id"`
	ID                   string `csv:"trip_id"`
	Headsign             string `csv:"trip_headsign"`
	DirectionID          int8   `csv:"direction_id"`
	WheelchairAccessible int8   `csv:"wheelchair_accessible"`
	BikesAllowed         int8   `csv:"bikes_allowed"`
	CarsAllowed          int8   `csv:"cars_allowed"`
}

type StopTime struct {
	TripID              string `csv:"trip_id"`
	Arrival             string `csv:"arrival_time"`
	Departure           string `csv:"departure_time"`
	StopID              string `csv:"stop_id"`
	StopSequence        uint32 `csv:"stop_sequence"`
	PickupType          int8   `csv:"pickup_type"`
	DropOffType         int8   `csv:"drop_off_type"`
	Timepoint           int8   `csv:"timepoint"`
	PickupBookingRuleID string `csv:"pickup_booking_rule_id"`
}

type Calendar struct {
	ServiceID string `csv:"service_id"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
}

type CalendarDate struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int8   `csv:"exception_type"`
}

type FeedInfo struct {
	PublisherName string `csv:"feed_publisher_name"`
	PublisherURL  string `csv:"feed_publisher_url"`
	Lang          string `csv:"feed_lang"`
	DefaultLang   string `csv:"default_lang"`
	StartDate     string `csv:"feed_start_date"`
	EndDate       string `csv:"feed_end_date"`
	Version       string `csv:"feed_version"`
	ContactURL    string `csv:"feed_contact_url"`
}
