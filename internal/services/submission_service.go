package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SubmissionStore interface {
	AddSubmission(s *Submission) error
	ListSubmissions() ([]*Submission, error)
}

// AudioStore persists recordings as opaque objects. No transcoding or
// inspection happens server-side.
type AudioStore interface {
	Save(ctx context.Context, key string, r io.Reader) error
}

// SubmissionInput is the parsed multipart payload of one submission.
// Audio is nil when no recording was attached.
type SubmissionInput struct {
	Phrase      string
	Language    string
	Country     string
	CountryCode string
	Region      string
	Lat         float64
	Lng         float64
	Timestamp   time.Time
	Audio       io.Reader
}

type SubmissionService struct {
	store SubmissionStore
	audio AudioStore
	now   func() time.Time
	idGen func() string

	// Publish, when set, is called once per accepted submission so the
	// live feed can push a marker to connected map clients.
	Publish func(s *Submission)
}

func NewSubmissionService(store SubmissionStore, audio AudioStore) *SubmissionService {
	return &SubmissionService{
		store: store,
		audio: audio,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

// Create validates and persists one submission. The phrase is the only
// required field; everything else is stored as sent.
func (s *SubmissionService) Create(ctx context.Context, in *SubmissionInput) (*Submission, error) {
	phrase := strings.TrimSpace(in.Phrase)
	if phrase == "" {
		return nil, NewInvalidError("phrase required")
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	sub := &Submission{
		ID:          s.idGen(),
		Phrase:      phrase,
		Language:    strings.TrimSpace(in.Language),
		Country:     in.Country,
		CountryCode: in.CountryCode,
		Region:      in.Region,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Timestamp:   ts,
		CreatedAt:   s.now(),
	}
	if in.Audio != nil {
		key := s.audioKey()
		if err := s.audio.Save(ctx, key, in.Audio); err != nil {
			return nil, NewInternalError("store audio")
		}
		sub.AudioKey = key
	}
	if err := s.store.AddSubmission(sub); err != nil {
		return nil, NewInternalError("store submission")
	}
	if s.Publish != nil {
		s.Publish(sub)
	}
	return sub, nil
}

// List returns all submissions, oldest first, for marker rendering.
func (s *SubmissionService) List() ([]*Submission, error) {
	subs, err := s.store.ListSubmissions()
	if err != nil {
		return nil, NewInternalError("list submissions")
	}
	return subs, nil
}

func (s *SubmissionService) audioKey() string {
	d := s.now()
	return fmt.Sprintf("submissions/%d/%d/%d/%s.wav", d.Year(), d.Month(), d.Day(), uuid.New())
}
