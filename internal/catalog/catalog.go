package catalog

// DefaultDuration is used for any service id that is not in the table.
const DefaultDuration = 45

// Service is a fixed catalog entry offered by the shop.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int    `json:"price_cents"`
	Duration    int    `json:"duration"` // minutes
	Category    string `json:"category"`
}

// Barber is a roster entry. Bookings reference barbers by id without any
// check against this list.
type Barber struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

var services = []Service{
	{ID: "haircut", Name: "Classic Haircut", Description: "Precision cut with consultation, wash and styling.", PriceCents: 3500, Duration: 45, Category: "hair"},
	{ID: "beard", Name: "Beard Trim & Shape", Description: "Beard trim and shaping with hot towel treatment.", PriceCents: 2500, Duration: 30, Category: "beard"},
	{ID: "deluxe", Name: "Deluxe Grooming", Description: "Haircut, beard trim, hot towel shave and facial.", PriceCents: 7500, Duration: 90, Category: "package"},
	{ID: "kids", Name: "Kids Cut", Description: "Friendly haircuts for the little ones.", PriceCents: 2000, Duration: 40, Category: "hair"},
	{ID: "shave", Name: "Head Shave", Description: "Hot towel head shave finished with balm.", PriceCents: 3000, Duration: 50, Category: "shave"},
	{ID: "executive", Name: "Executive Package", Description: "Complete grooming with premium products.", PriceCents: 9500, Duration: 120, Category: "package"},
}

var barbers = []Barber{
	{ID: "tony", Name: "Tony Masters", Specialty: "Classic cuts"},
	{ID: "marcus", Name: "Marcus Chen", Specialty: "Fades"},
	{ID: "james", Name: "James Rivera", Specialty: "Beard sculpting"},
}

var serviceIndex = func() map[string]Service {
	idx := make(map[string]Service, len(services))
	for _, s := range services {
		idx[s.ID] = s
	}
	return idx
}()

// Services returns a copy of the service list in display order.
func Services() []Service {
	return append([]Service(nil), services...)
}

// Barbers returns a copy of the barber roster.
func Barbers() []Barber {
	return append([]Barber(nil), barbers...)
}

// LookupService returns the catalog entry for id.
func LookupService(id string) (Service, bool) {
	s, ok := serviceIndex[id]
	return s, ok
}

// IsService reports whether id names a catalog service.
func IsService(id string) bool {
	_, ok := serviceIndex[id]
	return ok
}

// DurationFor returns the appointment length in minutes for a service id,
// falling back to DefaultDuration for unknown ids.
func DurationFor(id string) int {
	if s, ok := serviceIndex[id]; ok && s.Duration > 0 {
		return s.Duration
	}
	return DefaultDuration
}

// DisplayName returns the human name of a service, or the id itself when unknown.
func DisplayName(id string) string {
	if s, ok := serviceIndex[id]; ok {
		return s.Name
	}
	return id
}
