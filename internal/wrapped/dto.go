package wrapped

import "github.com/rakshitranga/canvas-wrapped/internal/canvas"

type wrappedResponse struct {
	Success          bool            `json:"success"`
	User             string          `json:"user"`
	Courses          []canvas.Course `json:"courses"`
	TotalCourses     int             `json:"totalCourses"`
	TotalSubmissions int             `json:"totalSubmissions"`
	Metrics          Metrics         `json:"metrics"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
