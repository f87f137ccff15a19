// Package history persists finished-game records. It is optional: without a
// DATABASE_URL the server runs with no repository and the game engine never
// notices either way.
package history

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bughouse-gg/backend/internal/room"
)

// MatchRecord is one finished bughouse game.
type MatchRecord struct {
	ID         uint      `gorm:"primaryKey"`
	RoomCode   string    `gorm:"size:6;index"`
	WinnerTeam *string   // nil on a stalemate draw
	Reason     string    `gorm:"size:16"`
	BoardIndex int
	Moves      int
	DurationMS int64
	CreatedAt  time.Time
}

type Repository struct {
	db *gorm.DB
}

func Open(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Save writes the record for one finished game.
func (r *Repository) Save(ctx context.Context, res room.Result) error {
	rec := MatchRecord{
		RoomCode:   res.RoomCode,
		Reason:     res.Reason,
		BoardIndex: res.BoardIndex,
		Moves:      res.Moves,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Winner != nil {
		team := string(*res.Winner)
		rec.WinnerTeam = &team
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}
