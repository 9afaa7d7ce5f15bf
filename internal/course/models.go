package course

const (
	SubjectMath    = "math"
	SubjectEnglish = "english"
)

type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"` // math | english
	Level       string `json:"level"`   // e.g. IGCSE
	ImageURL    string `json:"image_url,omitempty"`
	Published   bool   `json:"is_published"`
	CreatedAt   int64  `json:"created_at"`
}

type Lesson struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	OrderIndex  int    `json:"order_index"`
	DurationMin int    `json:"duration_min"`
}

type Enrollment struct {
	UserID   string `json:"user_id"`
	CourseID string `json:"course_id"`
	Active   bool   `json:"is_active"`
}
