// Package workflow orchestrates the submission state machine: submit
// moves coins and creates a pending submission; approve publishes it to
// the catalog; reject discards it. Approved and rejected are absorbing
// states realized as removal from the registry.
package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kbzala12/Yt2026Ab/internal/catalog"
	"github.com/kbzala12/Yt2026Ab/internal/events"
	"github.com/kbzala12/Yt2026Ab/internal/ledger"
	"github.com/kbzala12/Yt2026Ab/internal/logging"
	"github.com/kbzala12/Yt2026Ab/internal/metrics"
	"github.com/kbzala12/Yt2026Ab/internal/resolver"
	"github.com/kbzala12/Yt2026Ab/internal/store"
	"github.com/kbzala12/Yt2026Ab/internal/youtube"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
)

// Service implements the submission workflow over the ledger, the
// pending registry, and the published catalog. Workflow operations
// serialize behind a single mutex acquired before any collection lock;
// the ledger and catalog locks nest inside it, so lock acquisition
// order is fixed and deadlock-free.
type Service struct {
	ledger      *ledger.Ledger
	catalog     *catalog.Catalog
	submissions store.Collection[models.Submission]
	resolver    resolver.ChannelResolver
	events      events.Publisher
	log         *logging.Logger

	mu  sync.Mutex
	now func() time.Time
}

// New creates a workflow service.
func New(
	l *ledger.Ledger,
	c *catalog.Catalog,
	submissions store.Collection[models.Submission],
	r resolver.ChannelResolver,
	p events.Publisher,
	log *logging.Logger,
) *Service {
	return &Service{
		ledger:      l,
		catalog:     c,
		submissions: submissions,
		resolver:    r,
		events:      p,
		log:         log,
		now:         time.Now,
	}
}

// Submit charges the user and creates a pending submission. Validation
// order is fixed: account exists, submission slots left, balance
// covers the cost, URL parses to a video id; the first failing check
// determines the error and nothing is mutated. After a successful
// debit, a failure to persist the submission leaves the ledger and
// registry inconsistent; that error is surfaced as fatal and requires
// operator reconciliation.
func (s *Service) Submit(ctx context.Context, userID, videoURL, title, botID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	rewards := s.ledger.Rewards()
	if user.SubmissionCount >= rewards.SubmissionLimit {
		metrics.RecordSubmission("limit_reached")
		return nil, ledger.ErrSubmissionLimitReached
	}
	if user.Coins < rewards.SubmissionCost {
		metrics.RecordSubmission("insufficient_funds")
		return nil, ledger.ErrInsufficientFunds
	}

	videoID := youtube.ExtractVideoID(videoURL)
	if videoID == "" {
		metrics.RecordSubmission("invalid_url")
		return nil, fmt.Errorf("%w: %s", ErrInvalidVideoURL, videoURL)
	}

	subs, err := s.submissions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, exists := subs[videoID]; exists {
		metrics.RecordSubmission("duplicate")
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSubmission, videoID)
	}

	user, err = s.ledger.DebitForSubmission(ctx, userID)
	if err != nil {
		return nil, err
	}

	subs[videoID] = models.Submission{
		ID:          videoID,
		VideoURL:    videoURL,
		Title:       title,
		Timestamp:   s.now(),
		Status:      models.SubmissionStatusPending,
		SubmittedBy: user.Username,
		BotID:       botID,
	}

	if err := s.submissions.Replace(ctx, subs); err != nil {
		// The debit already persisted. There is no rollback path here;
		// the operator must reconcile the account manually.
		metrics.RecordError("workflow", "orphaned_debit")
		s.log.WithUserID(userID).WithError(err).
			Errorf("submission %s lost after debit of %d coins, reconciliation required", videoID, rewards.SubmissionCost)
		return nil, fmt.Errorf("submission not persisted after debit, operator reconciliation required: %w", err)
	}

	metrics.RecordSubmission("accepted")
	s.log.LogSubmissionEvent(videoID, "submitted", user.Username)
	s.publish(ctx, events.EventSubmissionCreated, subs[videoID])

	return user, nil
}

// Approve publishes a pending submission. The id is re-derived from the
// stored URL before use. A resolver failure or a duplicate catalog id
// leaves the submission pending, so approval is retryable.
func (s *Service) Approve(ctx context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.submissions.Load(ctx)
	if err != nil {
		return err
	}

	sub, ok := subs[submissionID]
	if !ok {
		return ErrSubmissionNotFound
	}

	videoID := youtube.ExtractVideoID(sub.VideoURL)
	if videoID == "" {
		return fmt.Errorf("%w: stored submission %s", ErrInvalidVideoURL, submissionID)
	}

	channel, err := s.resolveChannel(ctx, sub.VideoURL, sub.Title)
	if err != nil {
		return err
	}

	video := models.ApprovedVideo{
		ID:          videoID,
		Title:       sub.Title,
		Channel:     channel,
		Thumbnail:   youtube.ThumbnailURL(videoID),
		SubmittedBy: sub.SubmittedBy,
		VideoURL:    sub.VideoURL,
		BotID:       sub.BotID,
		AddedAt:     s.now(),
	}

	if err := s.catalog.Add(ctx, video); err != nil {
		return err
	}

	delete(subs, submissionID)
	if err := s.submissions.Replace(ctx, subs); err != nil {
		metrics.RecordError("workflow", "registry_write")
		s.log.WithSubmissionID(submissionID).WithError(err).
			Error("published video but failed to remove submission from registry")
		return fmt.Errorf("remove approved submission %s: %w", submissionID, err)
	}

	metrics.RecordDecision("approved")
	s.log.LogSubmissionEvent(submissionID, "approved", sub.SubmittedBy)
	s.publish(ctx, events.EventSubmissionApproved, video)

	return nil
}

// Reject discards a pending submission. The submission cost is not
// refunded.
func (s *Service) Reject(ctx context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.submissions.Load(ctx)
	if err != nil {
		return err
	}

	sub, ok := subs[submissionID]
	if !ok {
		return ErrSubmissionNotFound
	}

	delete(subs, submissionID)
	if err := s.submissions.Replace(ctx, subs); err != nil {
		return fmt.Errorf("remove rejected submission %s: %w", submissionID, err)
	}

	metrics.RecordDecision("rejected")
	s.log.LogSubmissionEvent(submissionID, "rejected", sub.SubmittedBy)
	s.publish(ctx, events.EventSubmissionRejected, sub)

	return nil
}

// ListPending returns pending submissions, newest first.
func (s *Service) ListPending(ctx context.Context) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.submissions.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Submission, 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	return out, nil
}

// DeleteAllSubmissions clears the pending registry.
func (s *Service) DeleteAllSubmissions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.submissions.Load(ctx)
	if err != nil {
		return err
	}

	if err := s.submissions.Replace(ctx, map[string]models.Submission{}); err != nil {
		return fmt.Errorf("clear submissions: %w", err)
	}

	s.log.Infof("cleared %d pending submissions", len(subs))
	return nil
}

// AdminAddVideo publishes a video directly, bypassing the registry.
// Same URL validation and resolver semantics as Approve.
func (s *Service) AdminAddVideo(ctx context.Context, videoURL, title, submittedBy, botID string) (*models.ApprovedVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	videoID := youtube.ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVideoURL, videoURL)
	}

	channel, err := s.resolveChannel(ctx, videoURL, title)
	if err != nil {
		return nil, err
	}

	video := models.ApprovedVideo{
		ID:          videoID,
		Title:       title,
		Channel:     channel,
		Thumbnail:   youtube.ThumbnailURL(videoID),
		SubmittedBy: submittedBy,
		VideoURL:    videoURL,
		BotID:       botID,
		AddedAt:     s.now(),
	}

	if err := s.catalog.Add(ctx, video); err != nil {
		return nil, err
	}

	s.log.WithVideoID(videoID).Infof("video added directly by operator for %s", submittedBy)
	s.publish(ctx, events.EventVideoAdded, video)

	return &video, nil
}

// RemoveVideo deletes a published video by id.
func (s *Service) RemoveVideo(ctx context.Context, videoID string) error {
	if err := s.catalog.Remove(ctx, videoID); err != nil {
		return err
	}

	s.publish(ctx, events.EventVideoRemoved, map[string]string{"id": videoID})
	return nil
}

func (s *Service) resolveChannel(ctx context.Context, videoURL, title string) (string, error) {
	start := time.Now()
	channel, err := s.resolver.Resolve(ctx, videoURL, title)
	metrics.RecordResolverRequest(err == nil, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordError("resolver", "lookup")
		return "", err
	}

	if channel == "" {
		channel = models.UnknownChannel
	}
	return channel, nil
}

// publish emits an event without failing the operation; delivery is
// best-effort.
func (s *Service) publish(ctx context.Context, eventType string, data interface{}) {
	if err := s.events.Publish(ctx, eventType, data); err != nil {
		s.log.WithError(err).Warnf("failed to publish %s event", eventType)
	}
}
