package share

// collections the record collections the admin export reads, in sheet order.
//
//	contact-us, contact_us  contact form inquiries (both spellings exist in the store)
//	Profile-Table           member profiles
//	profile_photos          uploaded profile photo records
//	annadanam_bookings      annadanam seva bookings
var collections = []string{
	"contact-us",
	"contact_us",
	"Profile-Table",
	"profile_photos",
	"annadanam_bookings",
}

// Collections returns a copy of the fixed collection list
func Collections() []string {
	names := make([]string, len(collections))
	copy(names, collections)
	return names
}
