package sportmonks

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

type fixturesEnvelope struct {
	Data       []fixtureItem `json:"data"`
	Pagination pagination    `json:"pagination"`
}

type pagination struct {
	Count       int  `json:"count"`
	PerPage     int  `json:"per_page"`
	CurrentPage int  `json:"current_page"`
	HasMore     bool `json:"has_more"`
}

type fixtureItem struct {
	ID           int64                `json:"id"`
	LeagueID     int64                `json:"league_id"`
	StartingAt   string               `json:"starting_at"`
	StateID      int64                `json:"state_id"`
	ResultInfo   string               `json:"result_info"`
	Participants []fixtureParticipant `json:"participants"`
	Venue        relation[venueRef]   `json:"venue"`
	Scores       []fixtureScoreItem   `json:"scores"`
}

type fixtureParticipant struct {
	ID        int64                  `json:"id"`
	Name      string                 `json:"name"`
	ImagePath string                 `json:"image_path"`
	Meta      fixtureParticipantMeta `json:"meta"`
}

type fixtureParticipantMeta struct {
	Location string `json:"location"`
}

type venueRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type fixtureScoreItem struct {
	ParticipantID int64          `json:"participant_id"`
	Description   string         `json:"description"`
	Score         map[string]any `json:"score"`
	Goals         any            `json:"goals"`
}

func (f fixtureScoreItem) numericScore() (int, bool) {
	for _, candidate := range []any{
		f.Goals,
		lookupMapValue(f.Score, "goals"),
		lookupMapValue(f.Score, "score"),
		lookupMapValue(f.Score, "value"),
	} {
		if candidate == nil {
			continue
		}
		value, ok := asInt(candidate)
		if ok && value >= 0 {
			return value, true
		}
	}
	return 0, false
}

// relation decodes an include that is either wrapped in {"data": ...} or inlined.
type relation[T any] struct {
	Data T
	Set  bool
}

func (r *relation[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Set = false
		return nil
	}

	var wrapped struct {
		Data *T `json:"data"`
	}
	if err := sonic.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Data != nil {
		r.Data = *wrapped.Data
		r.Set = true
		return nil
	}

	var direct T
	if err := sonic.Unmarshal(trimmed, &direct); err != nil {
		return err
	}
	r.Data = direct
	r.Set = true
	return nil
}

func lookupMapValue(src map[string]any, key string) any {
	if src == nil {
		return nil
	}
	return src[key]
}

func asInt(value any) (int, bool) {
	switch typed := value.(type) {
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
