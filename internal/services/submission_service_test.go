package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

type submissionStubStore struct {
	subs []*Submission
}

func (s *submissionStubStore) AddSubmission(sub *Submission) error {
	copy := *sub
	s.subs = append(s.subs, &copy)
	return nil
}

func (s *submissionStubStore) ListSubmissions() ([]*Submission, error) {
	return s.subs, nil
}

type audioStubStore struct {
	saved map[string][]byte
}

func (s *audioStubStore) Save(ctx context.Context, key string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[key] = b
	return nil
}

func TestSubmissionCreateRejectsEmptyPhrase(t *testing.T) {
	store := &submissionStubStore{}
	audio := &audioStubStore{}
	svc := NewSubmissionService(store, audio)

	for _, phrase := range []string{"", "   ", "\n"} {
		_, err := svc.Create(context.Background(), &SubmissionInput{Phrase: phrase, Country: "France"})
		se, ok := err.(*ServiceError)
		if !ok || se.Code != ErrorInvalid {
			t.Fatalf("phrase %q: expected invalid error, got %v", phrase, err)
		}
	}
	if len(store.subs) != 0 || len(audio.saved) != 0 {
		t.Fatal("rejected submission must not touch any store")
	}
}

func TestSubmissionCreateWithoutAudio(t *testing.T) {
	store := &submissionStubStore{}
	svc := NewSubmissionService(store, &audioStubStore{})
	svc.idGen = func() string { return "s1" }
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	ts := time.Date(2024, 3, 1, 11, 59, 0, 0, time.UTC)
	sub, err := svc.Create(context.Background(), &SubmissionInput{
		Phrase:      " bonjour ",
		Country:     "France",
		CountryCode: "FR",
		Region:      "France",
		Lat:         48.85,
		Lng:         2.35,
		Timestamp:   ts,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sub.Phrase != "bonjour" {
		t.Fatalf("phrase not trimmed: %q", sub.Phrase)
	}
	if sub.HasAudio() {
		t.Fatalf("unexpected audio key %q", sub.AudioKey)
	}
	if !sub.Timestamp.Equal(ts) {
		t.Fatalf("client timestamp not preserved: %v", sub.Timestamp)
	}
	if len(store.subs) != 1 || store.subs[0].ID != "s1" {
		t.Fatalf("submission not stored: %+v", store.subs)
	}
}

func TestSubmissionCreateStoresAudioAndPublishes(t *testing.T) {
	store := &submissionStubStore{}
	audio := &audioStubStore{}
	svc := NewSubmissionService(store, audio)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	var published *Submission
	svc.Publish = func(s *Submission) { published = s }

	sub, err := svc.Create(context.Background(), &SubmissionInput{
		Phrase: "hola",
		Audio:  strings.NewReader("RIFFdata"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !sub.HasAudio() {
		t.Fatal("expected audio key on submission")
	}
	if !strings.HasPrefix(sub.AudioKey, "submissions/2024/3/1/") || !strings.HasSuffix(sub.AudioKey, ".wav") {
		t.Fatalf("unexpected audio key %q", sub.AudioKey)
	}
	if string(audio.saved[sub.AudioKey]) != "RIFFdata" {
		t.Fatalf("audio bytes not saved under %q", sub.AudioKey)
	}
	if published == nil || published.ID != sub.ID {
		t.Fatalf("submission not published: %+v", published)
	}
}
