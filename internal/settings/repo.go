// Package settings persists the app store (language and character roster)
// between runs. Character passwords are sealed with an argon2id key derived
// from the configured secret and a salt stored with the settings.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/payb0y/lindo-clean/internal/store"
)

const (
	appKey  = "appStore"
	saltKey = "sealSalt"
)

// Setting is one persisted key/value pair.
type Setting struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time
}

func (Setting) TableName() string { return "lindo_settings" }

// CharacterRow is a persisted roster entry.
type CharacterRow struct {
	ID        string `gorm:"primaryKey;size:64"`
	Account   string `gorm:"size:255"`
	Name      string `gorm:"size:255"`
	Password  []byte
	UpdatedAt time.Time
}

func (CharacterRow) TableName() string { return "lindo_characters" }

type appRecord struct {
	Language string `json:"language"`
}

// Repo reads and writes the persisted app store.
type Repo struct {
	db   *gorm.DB
	seal sealer
}

// NewRepo migrates the schema and returns a repo.
func NewRepo(db *gorm.DB, secret string) (*Repo, error) {
	if err := db.AutoMigrate(&Setting{}, &CharacterRow{}); err != nil {
		return nil, fmt.Errorf("settings: migrate: %w", err)
	}
	salt, err := loadSalt(db)
	if err != nil {
		return nil, err
	}
	return &Repo{db: db, seal: newSealer(secret, salt)}, nil
}

// loadSalt returns the install salt, creating it on a fresh database.
func loadSalt(db *gorm.DB) ([]byte, error) {
	var s Setting
	err := db.Take(&s, Setting{Name: saltKey}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		salt, err := newSalt()
		if err != nil {
			return nil, err
		}
		value, _ := json.Marshal(salt)
		row := Setting{Name: saltKey, Value: value, UpdatedAt: time.Now()}
		// another process may have won the race; read back whichever row stuck
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("settings: store salt: %w", err)
		}
		err = db.Take(&s, Setting{Name: saltKey}).Error
	}
	if err != nil {
		return nil, fmt.Errorf("settings: load salt: %w", err)
	}
	var salt []byte
	if err := json.Unmarshal(s.Value, &salt); err != nil || len(salt) == 0 {
		return nil, fmt.Errorf("settings: corrupt salt")
	}
	return salt, nil
}

// LoadApp returns the persisted app store. found is false on a fresh database.
func (r *Repo) LoadApp(ctx context.Context) (snap store.AppStoreSnapshot, found bool, err error) {
	var s Setting
	err = r.db.WithContext(ctx).Take(&s, Setting{Name: appKey}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.AppStoreSnapshot{Characters: map[string]store.Character{}}, false, nil
	}
	if err != nil {
		return snap, false, err
	}
	var rec appRecord
	if len(s.Value) > 0 {
		if err := json.Unmarshal(s.Value, &rec); err != nil {
			return snap, false, fmt.Errorf("settings: decode app record: %w", err)
		}
	}
	var rows []CharacterRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return snap, false, err
	}
	snap = store.AppStoreSnapshot{Language: rec.Language, Characters: make(map[string]store.Character, len(rows))}
	for _, row := range rows {
		pw, err := r.seal.open(row.Password)
		if err != nil {
			return snap, false, fmt.Errorf("character %s: %w", row.ID, err)
		}
		snap.Characters[row.ID] = store.Character{ID: row.ID, Account: row.Account, Name: row.Name, Password: pw}
	}
	return snap, true, nil
}

// SaveApp replaces the persisted app store with snap.
func (r *Repo) SaveApp(ctx context.Context, snap store.AppStoreSnapshot) error {
	val, err := json.Marshal(appRecord{Language: snap.Language})
	if err != nil {
		return err
	}
	rows := make([]CharacterRow, 0, len(snap.Characters))
	ids := make([]string, 0, len(snap.Characters))
	for id, c := range snap.Characters {
		box, err := r.seal.seal(c.Password)
		if err != nil {
			return err
		}
		rows = append(rows, CharacterRow{ID: id, Account: c.Account, Name: c.Name, Password: box})
		ids = append(ids, id)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := Setting{Name: appKey, Value: datatypes.JSON(val)}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s).Error; err != nil {
			return err
		}
		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&CharacterRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// Wipe deletes everything persisted except the install salt.
func (r *Repo) Wipe(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&CharacterRow{}).Error; err != nil {
			return err
		}
		return all.Where("name <> ?", saltKey).Delete(&Setting{}).Error
	})
}

// Close releases the database.
func (r *Repo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
