package expire_alternatives

import "time"

// Response результат прохода
type Response struct {
	Expired    int       `json:"expired"`
	BookingIDs []int64   `json:"bookingIds"`
	RanAt      time.Time `json:"ranAt"`
}
