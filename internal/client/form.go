package client

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lingomap/lingomap/internal/geo"
	"github.com/lingomap/lingomap/internal/services"
)

// SubmissionForm is the panel opened by a country selection. It owns
// the recording session and performs the submission call. Closing the
// form discards all transient state and releases the microphone.
type SubmissionForm struct {
	api    *Client
	source AudioSource
	now    func() time.Time

	open     bool
	country  *geo.Country
	Phrase   string
	Language string
	rec      *RecordingSession
}

func NewSubmissionForm(api *Client, source AudioSource) *SubmissionForm {
	return &SubmissionForm{
		api:    api,
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Open shows the form for the selected country. The selection is copied
// in; the form keeps no reference to map state.
func (f *SubmissionForm) Open(c geo.Country) {
	f.Close()
	country := c
	f.country = &country
	f.rec = NewRecordingSession(f.source)
	f.open = true
}

func (f *SubmissionForm) IsOpen() bool { return f.open }

func (f *SubmissionForm) Country() *geo.Country { return f.country }

// Recorder exposes the recording state machine to the UI controls.
func (f *SubmissionForm) Recorder() *RecordingSession { return f.rec }

// Close discards the form state on any exit path, releasing the
// microphone if a recording is in progress.
func (f *SubmissionForm) Close() {
	if f.rec != nil {
		f.rec.Close()
	}
	f.open = false
	f.country = nil
	f.Phrase = ""
	f.Language = ""
	f.rec = nil
}

// Submit validates locally, POSTs the multipart payload, and on success
// resets and closes the form. On failure the state is left unchanged so
// the user can retry manually.
func (f *SubmissionForm) Submit(ctx context.Context) (*services.Submission, error) {
	if !f.open || f.country == nil {
		return nil, errors.New("no country selected")
	}
	if strings.TrimSpace(f.Phrase) == "" {
		return nil, errors.New("phrase required")
	}
	sub, err := f.api.Submit(ctx, &SubmissionRequest{
		Phrase:    f.Phrase,
		Language:  f.Language,
		Country:   *f.country,
		Timestamp: f.now(),
		Audio:     f.rec.Audio(),
	})
	if err != nil {
		return nil, err
	}
	f.Close()
	return sub, nil
}
