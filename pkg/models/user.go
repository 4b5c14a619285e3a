package models

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// User represents a platform account with its coin balance and daily
// earning state. Date fields hold calendar days formatted 2006-01-02;
// an empty LastDailyBonusClaimDate means the bonus was never claimed.
type User struct {
	ID                      string   `json:"id" db:"id"`
	Username                string   `json:"username" db:"username"`
	Role                    UserRole `json:"role" db:"role"`
	Coins                   int      `json:"coins" db:"coins"`
	DailyCoins              int      `json:"daily_coins" db:"daily_coins"`
	LastClaimDate           string   `json:"last_claim_date" db:"last_claim_date"`
	LastDailyBonusClaimDate string   `json:"last_daily_bonus_claim_date" db:"last_daily_bonus_claim_date"`
	SubmissionCount         int      `json:"submission_count" db:"submission_count"`
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// PublicUser is the reduced view exposed by the public user listing.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Coins    int    `json:"coins"`
}

// Public returns the listing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Coins: u.Coins}
}
