package shapes

// Snapshot is the serialised form of a shape carried by outbound
// notifications.
type Snapshot struct {
	UUID   string   `json:"uuid"`
	Type   Kind     `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Owners []string `json:"owners"`
	Layer  string   `json:"layer"`

	W float64 `json:"w,omitempty"`
	H float64 `json:"h,omitempty"`

	X2        float64 `json:"x2,omitempty"`
	Y2        float64 `json:"y2,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`

	Text  string  `json:"text,omitempty"`
	Font  string  `json:"font,omitempty"`
	Angle float64 `json:"angle,omitempty"`

	FillColour         string `json:"fillColour,omitempty"`
	StrokeColour       string `json:"strokeColour,omitempty"`
	CompositeOperation string `json:"globalCompositeOperation,omitempty"`

	VisionObstruction   bool `json:"visionObstruction"`
	MovementObstruction bool `json:"movementObstruction"`
}
