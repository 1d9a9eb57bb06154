package request

// SetBan is the request body for the ban endpoint. Status must be one
// of NONE, CLOSE, CRASH, or ILLEGAL.
type SetBan struct {
	Status string `json:"status"`
}

// SetMaxStartSpeed is the request body for the trail speed gate
type SetMaxStartSpeed struct {
	Speed float64 `json:"speed"`
}

// SetStartBike is the request body for the world default bike
type SetStartBike struct {
	Bike string `json:"bike"`
}

// SetMedals is the request body for medal thresholds
type SetMedals struct {
	Rainbow float64 `json:"rainbow"`
	Gold    float64 `json:"gold"`
	Silver  float64 `json:"silver"`
	Bronze  float64 `json:"bronze"`
}
