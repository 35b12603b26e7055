package firestore

import (
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
)

const (
	schedulesCollection            = "schedules"
	notificationSettingsCollection = "notification_settings"
	usersCollection                = "users"
	attendanceRecordsCollection    = "attendance_records"
	jobDispatchesCollection        = "job_dispatches"
)

type scheduleDoc struct {
	League        string    `firestore:"league"`
	HomeTeamID    string    `firestore:"homeTeamId"`
	HomeTeamName  string    `firestore:"homeTeamName"`
	HomeTeamLogo  string    `firestore:"homeTeamLogo"`
	AwayTeamID    string    `firestore:"awayTeamId"`
	AwayTeamName  string    `firestore:"awayTeamName"`
	AwayTeamLogo  string    `firestore:"awayTeamLogo"`
	Kickoff       time.Time `firestore:"kickoff"`
	Stadium       string    `firestore:"stadium"`
	Broadcast     string    `firestore:"broadcast"`
	Status        string    `firestore:"status"`
	HomeScore     *int64    `firestore:"homeScore"`
	AwayScore     *int64    `firestore:"awayScore"`
	FollowedBoost bool      `firestore:"followedBoost"`
	ExternalID    int64     `firestore:"externalId,omitempty"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

type notificationSettingDoc struct {
	MatchID       string `firestore:"matchId"`
	UserID        string `firestore:"userId"`
	NotifyKickoff bool   `firestore:"notifyKickoff"`
	NotifyResult  bool   `firestore:"notifyResult"`
}

type userDoc struct {
	FavoriteTeamIDs []string  `firestore:"favoriteTeamIds"`
	FCMToken        string    `firestore:"fcmToken"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
}

type attendanceRecordDoc struct {
	UserID    string `firestore:"userId"`
	League    string `firestore:"league"`
	Stadium   string `firestore:"stadium"`
	HomeScore *int64 `firestore:"homeScore"`
	AwayScore *int64 `firestore:"awayScore"`
}

type jobDispatchDoc struct {
	JobName      string         `firestore:"jobName"`
	JobPath      string         `firestore:"jobPath"`
	Scope        string         `firestore:"scope"`
	Status       string         `firestore:"status"`
	Payload      map[string]any `firestore:"payload"`
	ErrorMessage string         `firestore:"errorMessage"`
	OccurredAt   time.Time      `firestore:"occurredAt"`
	TraceID      string         `firestore:"traceId"`
	SpanID       string         `firestore:"spanId"`
}

func matchFromDoc(id string, doc scheduleDoc) match.Match {
	return match.Match{
		ID:            id,
		League:        doc.League,
		HomeTeamID:    doc.HomeTeamID,
		HomeTeamName:  doc.HomeTeamName,
		HomeTeamLogo:  doc.HomeTeamLogo,
		AwayTeamID:    doc.AwayTeamID,
		AwayTeamName:  doc.AwayTeamName,
		AwayTeamLogo:  doc.AwayTeamLogo,
		KickoffAt:     doc.Kickoff.UTC(),
		Stadium:       doc.Stadium,
		Broadcast:     doc.Broadcast,
		Status:        match.NormalizeStatus(doc.Status),
		HomeScore:     int64PtrToInt(doc.HomeScore),
		AwayScore:     int64PtrToInt(doc.AwayScore),
		FollowedBoost: doc.FollowedBoost,
		ExternalID:    doc.ExternalID,
		UpdatedAt:     doc.UpdatedAt.UTC(),
	}
}

func scheduleDocFromMatch(item match.Match) scheduleDoc {
	return scheduleDoc{
		League:        item.League,
		HomeTeamID:    item.HomeTeamID,
		HomeTeamName:  item.HomeTeamName,
		HomeTeamLogo:  item.HomeTeamLogo,
		AwayTeamID:    item.AwayTeamID,
		AwayTeamName:  item.AwayTeamName,
		AwayTeamLogo:  item.AwayTeamLogo,
		Kickoff:       item.KickoffAt.UTC(),
		Stadium:       item.Stadium,
		Broadcast:     item.Broadcast,
		Status:        match.NormalizeStatus(item.Status),
		HomeScore:     intPtrToInt64(item.HomeScore),
		AwayScore:     intPtrToInt64(item.AwayScore),
		FollowedBoost: item.FollowedBoost,
		ExternalID:    item.ExternalID,
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func preferenceFromDoc(id string, doc notificationSettingDoc) preference.Preference {
	return preference.Preference{
		ID:            id,
		MatchID:       doc.MatchID,
		UserID:        doc.UserID,
		NotifyKickoff: doc.NotifyKickoff,
		NotifyResult:  doc.NotifyResult,
	}
}

func userFromDoc(id string, doc userDoc) user.User {
	return user.User{
		ID:              id,
		FavoriteTeamIDs: append([]string(nil), doc.FavoriteTeamIDs...),
		DeviceToken:     doc.FCMToken,
		UpdatedAt:       doc.UpdatedAt.UTC(),
	}
}

func recordFromDoc(id string, doc attendanceRecordDoc) attendance.Record {
	return attendance.Record{
		ID:        id,
		UserID:    doc.UserID,
		League:    doc.League,
		Stadium:   doc.Stadium,
		HomeScore: int64PtrToInt(doc.HomeScore),
		AwayScore: int64PtrToInt(doc.AwayScore),
	}
}

// flagField maps a preference flag onto its document field.
func flagField(flag preference.Flag) (string, bool) {
	switch flag {
	case preference.FlagKickoff:
		return "notifyKickoff", true
	case preference.FlagResult:
		return "notifyResult", true
	default:
		return "", false
	}
}

func int64PtrToInt(value *int64) *int {
	if value == nil {
		return nil
	}
	out := int(*value)
	return &out
}

func intPtrToInt64(value *int) *int64 {
	if value == nil {
		return nil
	}
	out := int64(*value)
	return &out
}
