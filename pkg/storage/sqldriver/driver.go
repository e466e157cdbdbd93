// Package sqldriver stores key-value entries in the kv_entries table through GORM.
package sqldriver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/restaurant-backend/pkg/db/models"
	"github.com/angelmondragon/restaurant-backend/pkg/storage"
)

type Store struct {
	db *gorm.DB
}

func New(conn *gorm.DB) (*Store, error) {
	if conn == nil {
		return nil, errors.New("gorm connection required")
	}
	return &Store{db: conn}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select kv entry %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert kv entry %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("delete kv entry %s: %w", key, err)
	}
	return nil
}

// PruneOlderThan deletes entries under prefix whose last write is before cutoff.
func (s *Store) PruneOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where(`entry_key LIKE ? ESCAPE '\' AND updated_at < ?`, escapeLike(prefix)+"%", cutoff.UTC()).
		Delete(&models.KVEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune kv entries %s: %w", prefix, res.Error)
	}
	return res.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(v string) string {
	return likeEscaper.Replace(v)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
