package main

import "time"

type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Issue struct {
	ID        int64    `json:"id"`
	ProjectID int64    `json:"project_id"`
	Number    string   `json:"number"`
	Title     string   `json:"title"`
	URL       string   `json:"url,omitempty"`
	Labels    []string `json:"labels"`
	// X and Y are normalized board coordinates in [0,1]; y grows upward
	// (toward "important"), so (0.5, 0.5) is the center of the matrix.
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	// Builtin labels belong to no user and cannot be deleted.
	Builtin bool `json:"builtin,omitempty"`
}

// LabelSnapshot is the {name, color} pair frozen into a shared canvas.
type LabelSnapshot struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SharedCanvas is an immutable public copy of a project taken at share time.
// It carries no back-reference to the live project.
type SharedCanvas struct {
	ID              int64           `json:"-"`
	Token           string          `json:"token"`
	Name            string          `json:"name"`
	OriginalOwnerID int64           `json:"original_owner_id"`
	SharedAt        time.Time       `json:"shared_at"`
	LabelsSnapshot  []LabelSnapshot `json:"labels_snapshot"`
}

// SharedIssue mirrors Issue minus ownership fields.
type SharedIssue struct {
	Number string   `json:"number"`
	Title  string   `json:"title"`
	URL    string   `json:"url,omitempty"`
	Labels []string `json:"labels"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
