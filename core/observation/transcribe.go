package observation

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core"
)

// Transcriber is the speech-to-text collaborator. The remote service itself
// lives outside this module; implementations adapt it behind this boundary.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (text string, confidence float64, err error)
}

// TranscriptionWorker periodically picks up voice notes still carrying the
// transcribing placeholder and fills in their transcript. A failed
// transcription marks the note rather than retrying forever.
type TranscriptionWorker struct {
	repo     Repository
	stt      Transcriber
	logger   core.Logger
	interval time.Duration
}

func NewTranscriptionWorker(repo Repository, stt Transcriber, logger core.Logger, interval time.Duration) *TranscriptionWorker {
	return &TranscriptionWorker{
		repo:     repo,
		stt:      stt,
		logger:   logger,
		interval: interval,
	}
}

// Run blocks until ctx is done, sweeping on every tick.
func (w *TranscriptionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				w.logger.Error("transcription sweep failed", err)
			}
		}
	}
}

// Sweep processes every pending voice note once.
func (w *TranscriptionWorker) Sweep(ctx context.Context) error {
	pending, err := w.repo.QueryPendingVoiceObservations(ctx)
	if err != nil {
		return errors.Wrap(err, "querying pending voice observations")
	}
	for i := range pending {
		w.transcribe(ctx, pending[i])
	}
	return nil
}

func (w *TranscriptionWorker) transcribe(ctx context.Context, obs Observation) {
	text, confidence, err := w.stt.Transcribe(ctx, obs.AudioURL)
	if err != nil {
		w.logger.Error("transcribing voice note", errors.Wrap(err, "transcribing voice note "+obs.ID))
		obs.Text = TranscriptionFailedText
	} else {
		obs.Text = text
		obs.STTConfidence = confidence
	}
	obs.UpdatedAt = time.Now().UTC()
	if _, err := w.repo.UpdateObservation(ctx, obs); err != nil {
		w.logger.Error("saving transcript", errors.Wrap(err, "saving transcript for "+obs.ID))
	}
}
