// Package database persists the song catalog in SQLite through gorm. The
// catalog is replace-only: a refresh swaps the whole stored set in one
// transaction, so readers never observe a partially rebuilt catalog.
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cantolab/cantomatch/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Song{},
		&entities.SongRef{},
		&entities.CatalogInfo{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReplaceCatalog swaps the stored catalog for the given songs in a single
// transaction and records the refresh time. The previous catalog stays intact
// if anything fails.
func (d *Database) ReplaceCatalog(songs []entities.Song, refreshedAt time.Time) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.SongRef{}).Error; err != nil {
			return fmt.Errorf("failed to clear song references: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Song{}).Error; err != nil {
			return fmt.Errorf("failed to clear songs: %w", err)
		}

		for i := range songs {
			// Insert fresh rows; IDs from a previous snapshot must not leak in.
			songs[i].ID = 0
			for j := range songs[i].Refs {
				songs[i].Refs[j].ID = 0
				songs[i].Refs[j].SongID = 0
			}
			if err := tx.Create(&songs[i]).Error; err != nil {
				return fmt.Errorf("failed to store song %q: %w", songs[i].Title, err)
			}
		}

		info := entities.CatalogInfo{
			ID:          1,
			RefreshedAt: refreshedAt,
			SongCount:   len(songs),
		}
		if err := tx.Save(&info).Error; err != nil {
			return fmt.Errorf("failed to record refresh time: %w", err)
		}
		return nil
	})
}

// GetCatalog returns all stored songs ordered by title, each with its
// references in citation order.
func (d *Database) GetCatalog() ([]entities.Song, error) {
	var songs []entities.Song
	err := d.DB.
		Preload("Refs", func(db *gorm.DB) *gorm.DB {
			return db.Order("song_refs.position ASC")
		}).
		Order("title ASC").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return songs, nil
}

func (d *Database) CountSongs() (int64, error) {
	var count int64
	err := d.DB.Model(&entities.Song{}).Count(&count).Error
	return count, err
}

// LastRefreshedAt returns when the stored catalog was last rebuilt, or nil if
// no refresh has completed yet.
func (d *Database) LastRefreshedAt() (*time.Time, error) {
	var info entities.CatalogInfo
	err := d.DB.First(&info, 1).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := info.RefreshedAt
	return &t, nil
}
