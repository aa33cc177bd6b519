package doctor

// Doctor describes one entry of the consultancy's doctor directory.
// Availability maps a weekday name to a time range, e.g. "Monday" ->
// "09:00-13:00".
type Doctor struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Hospital     string            `json:"hospital"`
	Speciality   string            `json:"speciality"`
	Availability map[string]string `json:"availability,omitempty"`
	ProfilePhoto string            `json:"profilePhoto,omitempty"`
}

// Seed provides the default directory entries shipped with the demo
// deployment.
func Seed() []Doctor {
	return []Doctor{
		{
			ID:         "D1",
			Name:       "Dr. Sarah Mitchell",
			Hospital:   "City General Hospital",
			Speciality: "Cardiology",
			Availability: map[string]string{
				"Monday":    "09:00-13:00",
				"Wednesday": "09:00-13:00",
				"Friday":    "14:00-18:00",
			},
		},
		{
			ID:         "D2",
			Name:       "Dr. Rajesh Kumar",
			Hospital:   "Sunrise Medical Center",
			Speciality: "Dermatology",
			Availability: map[string]string{
				"Tuesday":  "10:00-16:00",
				"Thursday": "10:00-16:00",
			},
		},
		{
			ID:         "D3",
			Name:       "Dr. Emily Chen",
			Hospital:   "City General Hospital",
			Speciality: "Pediatrics",
			Availability: map[string]string{
				"Monday":   "08:00-12:00",
				"Tuesday":  "08:00-12:00",
				"Saturday": "09:00-12:00",
			},
		},
	}
}
