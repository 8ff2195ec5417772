package domain

// PassSubmission is a composed pass sent by the registration client.
type PassSubmission struct {
	ID         string `json:"id,omitempty"` // Set on resubmission
	ImageData  string `json:"imageData"`    // data:image/...;base64,... URL
	Filename   string `json:"filename"`
	Name       string `json:"name"`
	FlatNumber string `json:"flatNumber"`
}
