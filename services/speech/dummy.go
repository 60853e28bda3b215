package speechsvc

import (
	"context"
	"errors"
	"sync"

	"github.com/pepschool/obshub/core/observation"
)

var errNoTranscript = errors.New("no transcript configured for audio url")

// dummyService is an in-process Transcriber fed canned transcripts. The real
// speech-to-text service sits outside this module; DEV and tests run against
// this one.
type dummyService struct {
	mu          sync.RWMutex
	transcripts map[string]Transcript
}

type Transcript struct {
	Text       string
	Confidence float64
}

var _ observation.Transcriber = (*dummyService)(nil)

func NewDummyService() *dummyService {
	return &dummyService{transcripts: make(map[string]Transcript)}
}

// SetTranscript registers the canned result returned for audioURL.
func (svc *dummyService) SetTranscript(audioURL, text string, confidence float64) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.transcripts[audioURL] = Transcript{Text: text, Confidence: confidence}
}

func (svc *dummyService) Transcribe(_ context.Context, audioURL string) (string, float64, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	t, ok := svc.transcripts[audioURL]
	if !ok {
		return "", 0, errNoTranscript
	}
	return t.Text, t.Confidence, nil
}
