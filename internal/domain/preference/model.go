package preference

// Flag names a per-match notification opt-in.
type Flag string

const (
	FlagKickoff Flag = "notifyKickoff"
	FlagResult  Flag = "notifyResult"
)

func (f Flag) Valid() bool {
	return f == FlagKickoff || f == FlagResult
}

// Preference is one user's notification opt-in for one match.
type Preference struct {
	ID            string
	MatchID       string
	UserID        string
	NotifyKickoff bool
	NotifyResult  bool
}

func (p Preference) Enabled(flag Flag) bool {
	switch flag {
	case FlagKickoff:
		return p.NotifyKickoff
	case FlagResult:
		return p.NotifyResult
	default:
		return false
	}
}
