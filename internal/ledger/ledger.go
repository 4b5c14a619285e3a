// Package ledger owns user accounts and the coin economy rules: daily
// bonus claims, watch rewards with a daily cap, and submission debits.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kbzala12/Yt2026Ab/internal/config"
	"github.com/kbzala12/Yt2026Ab/internal/logging"
	"github.com/kbzala12/Yt2026Ab/internal/metrics"
	"github.com/kbzala12/Yt2026Ab/internal/store"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
)

// dayFormat is the calendar-day key used for all daily-reset checks.
const dayFormat = "2006-01-02"

// Ledger provides account operations. Every operation is a
// read-modify-write of the users collection serialized behind a single
// mutex; callers observe either the fully updated record or an error
// with no state change.
type Ledger struct {
	users   store.Collection[models.User]
	rewards config.RewardsConfig
	admin   string
	log     *logging.Logger

	mu  sync.Mutex
	now func() time.Time
}

// New creates a ledger over the given users collection. adminUsername
// is the single operator account; it receives the admin role when its
// account is created.
func New(users store.Collection[models.User], rewards config.RewardsConfig, adminUsername string, log *logging.Logger) *Ledger {
	return &Ledger{
		users:   users,
		rewards: rewards,
		admin:   adminUsername,
		log:     log,
		now:     time.Now,
	}
}

// GetOrCreate looks up an account by username, creating it on first
// login. Usernames are case-sensitive. Repeated calls with the same
// username return the same account.
func (l *Ledger) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}

	role := models.UserRoleUser
	if username == l.admin {
		role = models.UserRoleAdmin
	}

	user := models.User{
		ID:            uuid.New().String(),
		Username:      username,
		Role:          role,
		LastClaimDate: l.today(),
	}

	users[user.ID] = user
	if err := l.users.Replace(ctx, users); err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}

	metrics.RecordUserCreated()
	l.log.WithUserID(user.ID).Infof("created account for %q", username)

	return &user, nil
}

// Get retrieves an account by id.
func (l *Ledger) Get(ctx context.Context, id string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	return &user, nil
}

// List returns all accounts sorted by username.
func (l *Ledger) List(ctx context.Context) ([]models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })

	return out, nil
}

// ClaimDailyBonus credits the fixed daily bonus, at most once per
// calendar day per account.
func (l *Ledger) ClaimDailyBonus(ctx context.Context, id string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	today := l.today()
	if user.LastDailyBonusClaimDate == today {
		return nil, ErrAlreadyClaimed
	}

	user.Coins += l.rewards.DailyBonusAmount
	user.LastDailyBonusClaimDate = today

	users[id] = user
	if err := l.users.Replace(ctx, users); err != nil {
		return nil, fmt.Errorf("claim daily bonus for %s: %w", id, err)
	}

	metrics.RecordCoinsAwarded("daily_bonus", l.rewards.DailyBonusAmount)
	l.log.LogLedgerEvent(id, "daily_bonus", l.rewards.DailyBonusAmount, user.Coins)

	return &user, nil
}

// AwardWatchReward credits the watch reward, bounded by the daily coin
// limit. A stale LastClaimDate resets the daily counter first; a reward
// that would cross the limit is rejected whole.
func (l *Ledger) AwardWatchReward(ctx context.Context, id string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	today := l.today()
	if user.LastClaimDate != today {
		user.DailyCoins = 0
		user.LastClaimDate = today
	}

	if user.DailyCoins >= l.rewards.DailyCoinLimit {
		return nil, ErrDailyLimitReached
	}
	if user.DailyCoins+l.rewards.WatchRewardAmount > l.rewards.DailyCoinLimit {
		return nil, ErrWouldExceedLimit
	}

	user.Coins += l.rewards.WatchRewardAmount
	user.DailyCoins += l.rewards.WatchRewardAmount

	users[id] = user
	if err := l.users.Replace(ctx, users); err != nil {
		return nil, fmt.Errorf("award watch reward for %s: %w", id, err)
	}

	metrics.RecordCoinsAwarded("watch_reward", l.rewards.WatchRewardAmount)
	l.log.LogLedgerEvent(id, "watch_reward", l.rewards.WatchRewardAmount, user.Coins)

	return &user, nil
}

// DebitForSubmission charges the submission cost and consumes one
// submission slot. Checks run in a fixed order: slot limit first, then
// balance. The balance never goes negative.
func (l *Ledger) DebitForSubmission(ctx context.Context, id string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if user.SubmissionCount >= l.rewards.SubmissionLimit {
		return nil, ErrSubmissionLimitReached
	}
	if user.Coins < l.rewards.SubmissionCost {
		return nil, ErrInsufficientFunds
	}

	user.Coins -= l.rewards.SubmissionCost
	user.SubmissionCount++

	users[id] = user
	if err := l.users.Replace(ctx, users); err != nil {
		return nil, fmt.Errorf("debit submission cost for %s: %w", id, err)
	}

	metrics.RecordCoinsSpent(l.rewards.SubmissionCost)
	l.log.LogLedgerEvent(id, "submission_debit", -l.rewards.SubmissionCost, user.Coins)

	return &user, nil
}

// Rewards exposes the configured economy limits.
func (l *Ledger) Rewards() config.RewardsConfig {
	return l.rewards
}

func (l *Ledger) today() string {
	return l.now().Format(dayFormat)
}
