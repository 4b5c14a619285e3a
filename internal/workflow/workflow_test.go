package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/kbzala12/Yt2026Ab/internal/catalog"
	"github.com/kbzala12/Yt2026Ab/internal/config"
	"github.com/kbzala12/Yt2026Ab/internal/events"
	"github.com/kbzala12/Yt2026Ab/internal/ledger"
	"github.com/kbzala12/Yt2026Ab/internal/logging"
	"github.com/kbzala12/Yt2026Ab/internal/resolver"
	"github.com/kbzala12/Yt2026Ab/internal/store"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	watchURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	watchID  = "dQw4w9WgXcQ"
)

// stubResolver returns a canned channel name, or a canned error, and
// counts calls.
type stubResolver struct {
	channel string
	err     error
	calls   int
}

func (r *stubResolver) Resolve(ctx context.Context, videoURL, title string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.channel, nil
}

type testEnv struct {
	svc         *Service
	ledger      *ledger.Ledger
	catalog     *catalog.Catalog
	users       *store.MemoryCollection[models.User]
	submissions *store.MemoryCollection[models.Submission]
	resolver    *stubResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, err := logging.NewDefaultLogger()
	require.NoError(t, err)

	rewards := config.RewardsConfig{
		DailyCoinLimit:    1500,
		DailyBonusAmount:  10,
		WatchRewardAmount: 30,
		SubmissionLimit:   3,
		SubmissionCost:    1280,
	}

	users := store.NewMemoryCollection[models.User]()
	subs := store.NewMemoryCollection[models.Submission]()
	videos := store.NewMemoryCollection[models.ApprovedVideo]()

	l := ledger.New(users, rewards, "admin", log)
	c := catalog.New(videos, log)
	r := &stubResolver{channel: "Rick Astley"}

	return &testEnv{
		svc:         New(l, c, subs, r, events.NopPublisher{}, log),
		ledger:      l,
		catalog:     c,
		users:       users,
		submissions: subs,
		resolver:    r,
	}
}

// fundedUser creates an account and writes its balance directly into
// the shared users collection. Nothing runs concurrently in tests, so
// the edit is safe.
func (e *testEnv) fundedUser(t *testing.T, username string, coins int) *models.User {
	t.Helper()
	ctx := context.Background()

	user, err := e.ledger.GetOrCreate(ctx, username)
	require.NoError(t, err)

	users, err := e.users.Load(ctx)
	require.NoError(t, err)
	u := users[user.ID]
	u.Coins = coins
	users[user.ID] = u
	require.NoError(t, e.users.Replace(ctx, users))

	funded, err := e.ledger.Get(ctx, user.ID)
	require.NoError(t, err)
	return funded
}

func TestSubmit_HappyPath(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1500)

	updated, err := e.svc.Submit(ctx, user.ID, watchURL, "Never Gonna Give You Up", "bot-1")
	require.NoError(t, err)
	assert.Equal(t, 220, updated.Coins)
	assert.Equal(t, 1, updated.SubmissionCount)

	pending, err := e.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, watchID, pending[0].ID)
	assert.Equal(t, models.SubmissionStatusPending, pending[0].Status)
	assert.Equal(t, "alice", pending[0].SubmittedBy)
	assert.Equal(t, "bot-1", pending[0].BotID)
}

func TestSubmit_UnknownUser(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.Submit(context.Background(), "missing", watchURL, "Title", "")
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestSubmit_ValidationOrder(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	// Broke user with a bad URL: the balance check fires first, so the
	// URL never gets inspected.
	broke := e.fundedUser(t, "broke", 0)
	_, err := e.svc.Submit(ctx, broke.ID, "not a url", "Title", "")
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	// Funded user with a bad URL fails on the URL and keeps the coins.
	rich := e.fundedUser(t, "rich", 2000)
	_, err = e.svc.Submit(ctx, rich.ID, "not a url", "Title", "")
	assert.ErrorIs(t, err, ErrInvalidVideoURL)

	after, err := e.ledger.Get(ctx, rich.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000, after.Coins)
	assert.Equal(t, 0, after.SubmissionCount)
}

func TestSubmit_DuplicatePendingKeepsCoins(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	alice := e.fundedUser(t, "alice", 3000)
	_, err := e.svc.Submit(ctx, alice.ID, watchURL, "Title", "")
	require.NoError(t, err)

	// Same video again, even from another user, is rejected before any
	// debit happens.
	bob := e.fundedUser(t, "bob", 3000)
	_, err = e.svc.Submit(ctx, bob.ID, watchURL, "Other Title", "")
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	after, err := e.ledger.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 3000, after.Coins)
	assert.Equal(t, 0, after.SubmissionCount)
}

func TestSubmit_SlotLimit(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1280*10)

	urls := []string{
		"https://www.youtube.com/watch?v=aaaaaaaaaaa",
		"https://www.youtube.com/watch?v=bbbbbbbbbbb",
		"https://www.youtube.com/watch?v=ccccccccccc",
	}
	for _, u := range urls {
		_, err := e.svc.Submit(ctx, user.ID, u, "Title", "")
		require.NoError(t, err)
	}

	_, err := e.svc.Submit(ctx, user.ID, watchURL, "Title", "")
	assert.ErrorIs(t, err, ledger.ErrSubmissionLimitReached)
}

func TestSubmit_OrphanedDebitSurfaces(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1500)

	// The debit persists, then the registry write fails. The error is
	// surfaced and the coins stay spent.
	e.submissions.ReplaceErr = store.ErrStorage
	_, err := e.svc.Submit(ctx, user.ID, watchURL, "Title", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorage)

	after, err := e.ledger.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 220, after.Coins)
}

func TestApprove_PublishesAndRemoves(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1500)

	_, err := e.svc.Submit(ctx, user.ID, watchURL, "Never Gonna Give You Up", "bot-1")
	require.NoError(t, err)

	require.NoError(t, e.svc.Approve(ctx, watchID))

	pending, err := e.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	published, err := e.catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, watchID, published[0].ID)
	assert.Equal(t, "Never Gonna Give You Up", published[0].Title)
	assert.Equal(t, "Rick Astley", published[0].Channel)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", published[0].Thumbnail)
	assert.Equal(t, "alice", published[0].SubmittedBy)

	// Approving again fails: the submission is gone
	err = e.svc.Approve(ctx, watchID)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestApprove_EmptyChannelFallsBack(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1500)
	e.resolver.channel = ""

	_, err := e.svc.Submit(ctx, user.ID, watchURL, "Title", "")
	require.NoError(t, err)
	require.NoError(t, e.svc.Approve(ctx, watchID))

	published, err := e.catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, models.UnknownChannel, published[0].Channel)
}

func TestApprove_ResolverFailureIsRetryable(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1500)

	_, err := e.svc.Submit(ctx, user.ID, watchURL, "Title", "")
	require.NoError(t, err)

	e.resolver.err = resolver.ErrLookupFailed
	err = e.svc.Approve(ctx, watchID)
	assert.ErrorIs(t, err, resolver.ErrLookupFailed)

	// Still pending, nothing published
	pending, err := e.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	published, err := e.catalog.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)

	// Retry succeeds once the resolver recovers
	e.resolver.err = nil
	require.NoError(t, e.svc.Approve(ctx, watchID))
}

func TestApprove_DuplicateCatalogIDLeavesPending(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1500)

	_, err := e.svc.Submit(ctx, user.ID, watchURL, "Title", "")
	require.NoError(t, err)

	// The same id already published out of band
	_, err = e.svc.AdminAddVideo(ctx, watchURL, "Earlier Copy", "operator", "")
	require.NoError(t, err)

	err = e.svc.Approve(ctx, watchID)
	assert.ErrorIs(t, err, catalog.ErrDuplicateVideo)

	pending, err := e.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestApprove_Missing(t *testing.T) {
	e := newTestEnv(t)

	err := e.svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestReject_NoRefund(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1500)

	_, err := e.svc.Submit(ctx, user.ID, watchURL, "Title", "")
	require.NoError(t, err)

	require.NoError(t, e.svc.Reject(ctx, watchID))

	pending, err := e.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	published, err := e.catalog.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)

	after, err := e.ledger.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 220, after.Coins)
}

func TestReject_Missing(t *testing.T) {
	e := newTestEnv(t)

	err := e.svc.Reject(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestListPending_NewestFirst(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1280*3)

	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	e.svc.now = func() time.Time { return at }
	_, err := e.svc.Submit(ctx, user.ID, "https://youtu.be/aaaaaaaaaaa", "First", "")
	require.NoError(t, err)

	e.svc.now = func() time.Time { return at.Add(time.Minute) }
	_, err = e.svc.Submit(ctx, user.ID, "https://youtu.be/bbbbbbbbbbb", "Second", "")
	require.NoError(t, err)

	pending, err := e.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Second", pending[0].Title)
	assert.Equal(t, "First", pending[1].Title)
}

func TestDeleteAllSubmissions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user := e.fundedUser(t, "alice", 1280*2)

	_, err := e.svc.Submit(ctx, user.ID, "https://youtu.be/aaaaaaaaaaa", "First", "")
	require.NoError(t, err)
	_, err = e.svc.Submit(ctx, user.ID, "https://youtu.be/bbbbbbbbbbb", "Second", "")
	require.NoError(t, err)

	require.NoError(t, e.svc.DeleteAllSubmissions(ctx))

	pending, err := e.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAdminAddVideo(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	video, err := e.svc.AdminAddVideo(ctx, watchURL, "Title", "operator", "bot-9")
	require.NoError(t, err)
	assert.Equal(t, watchID, video.ID)
	assert.Equal(t, "Rick Astley", video.Channel)
	assert.Equal(t, "operator", video.SubmittedBy)

	// Duplicate direct add fails
	_, err = e.svc.AdminAddVideo(ctx, watchURL, "Again", "operator", "")
	assert.ErrorIs(t, err, catalog.ErrDuplicateVideo)

	// Invalid URL never reaches the resolver
	calls := e.resolver.calls
	_, err = e.svc.AdminAddVideo(ctx, "nope", "Title", "operator", "")
	assert.ErrorIs(t, err, ErrInvalidVideoURL)
	assert.Equal(t, calls, e.resolver.calls)
}

func TestRemoveVideo(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.svc.AdminAddVideo(ctx, watchURL, "Title", "operator", "")
	require.NoError(t, err)

	require.NoError(t, e.svc.RemoveVideo(ctx, watchID))
	assert.ErrorIs(t, e.svc.RemoveVideo(ctx, watchID), catalog.ErrVideoNotFound)
}
