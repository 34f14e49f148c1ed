package services

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUser is the signin response shape: the stored user minus the
// credential hash.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type Submission struct {
	ID          string    `json:"id"`
	Phrase      string    `json:"phrase"`
	Language    string    `json:"language,omitempty"`
	Country     string    `json:"country"`
	CountryCode string    `json:"countryCode"`
	Region      string    `json:"region"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Timestamp   time.Time `json:"timestamp"`
	AudioKey    string    `json:"audio_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasAudio reports whether a recording was stored with the submission.
func (s *Submission) HasAudio() bool { return s.AudioKey != "" }
