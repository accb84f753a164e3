package models

// Driver is the directory record for an onboarded driver. The tracking core
// only ever reads it: the display name is denormalized into live location
// entries at write time, the rest is served through the driver endpoints.
type Driver struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Status   string `json:"status"`
}
