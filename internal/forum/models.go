package forum

type Post struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	CourseID   string   `json:"course_id,omitempty"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	Resolved   bool     `json:"is_resolved"`
	CreatedAt  int64    `json:"created_at"`
	Upvotes    int      `json:"upvotes"`
	Downvotes  int      `json:"downvotes"`
	ReplyCount int      `json:"reply_count"`
}

type Reply struct {
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	Accepted  bool   `json:"is_accepted"`
	CreatedAt int64  `json:"created_at"`
}
