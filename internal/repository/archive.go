package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	archiveKey = "archive:games"

	// Keep the log bounded; old results fall off the tail.
	archiveMaxLen = 1000
)

// GameRecord is one archived terminal outcome. Winner is empty for a draw.
type GameRecord struct {
	RoomCode   string    `json:"room_code"`
	Winner     string    `json:"winner,omitempty"`
	Draw       bool      `json:"draw"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

type GameArchive interface {
	SaveResult(ctx context.Context, roomCode, winner string, draw bool, moves int) error
	Recent(ctx context.Context, n int64) ([]*GameRecord, error)
}

type dbArchive struct {
	client *redis.Client
}

func NewGameArchive(client *redis.Client) GameArchive {
	return &dbArchive{
		client: client,
	}
}

// SaveResult prepends one result to the archive list and trims it to the cap.
func (that *dbArchive) SaveResult(ctx context.Context, roomCode, winner string, draw bool, moves int) error {
	record := GameRecord{
		RoomCode:   roomCode,
		Winner:     winner,
		Draw:       draw,
		Moves:      moves,
		FinishedAt: time.Now().UTC(),
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal game record: %w", err)
	}

	if err = that.client.LPush(ctx, archiveKey, recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to push game record: %w", err)
	}

	if err = that.client.LTrim(ctx, archiveKey, 0, archiveMaxLen-1).Err(); err != nil {
		return fmt.Errorf("failed to trim game archive: %w", err)
	}

	return nil
}

// Recent returns up to n archived results, newest first.
func (that *dbArchive) Recent(ctx context.Context, n int64) ([]*GameRecord, error) {
	rows, err := that.client.LRange(ctx, archiveKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game archive: %w", err)
	}

	records := make([]*GameRecord, 0, len(rows))
	for _, row := range rows {
		var record GameRecord
		if err = json.Unmarshal([]byte(row), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game record: %w", err)
		}

		records = append(records, &record)
	}

	return records, nil
}
