package attendance

// Record is one match a user attended.
type Record struct {
	ID        string
	UserID    string
	League    string
	Stadium   string
	HomeScore *int
	AwayScore *int
}

func (r Record) HasScore() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}
