package transport

// Payload is a report body that can carry the shared credential.
type Payload interface {
	WithCredential(credential string) any
}

// KeypressReport is the body sent to the keypress endpoint.
type KeypressReport struct {
	Password string `json:"password"`
	Keypress uint64 `json:"keypress"`
}

func (r KeypressReport) WithCredential(credential string) any {
	r.Password = credential
	return r
}

// MouseReport is the body sent to the mouse endpoint. MouseTravel is in meters.
type MouseReport struct {
	Password    string  `json:"password"`
	RightClick  uint64  `json:"rightClick"`
	LeftClick   uint64  `json:"leftClick"`
	MouseTravel float64 `json:"mouseTravel"`
}

func (r MouseReport) WithCredential(credential string) any {
	r.Password = credential
	return r
}
