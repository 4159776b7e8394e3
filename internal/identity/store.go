package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// maxExternalAttempts bounds retries when two writers race for the same negative id.
const maxExternalAttempts = 5

var (
	// ErrInvalidID is returned for platform profiles without a positive id.
	ErrInvalidID = errors.New("identity: platform id must be positive")
	// ErrEmptyName is returned when an external identity has no name.
	ErrEmptyName = errors.New("identity: external name is empty")
)

// Store persists identities
type Store struct {
	db *gorm.DB
}

// NewStore creates a new identity store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindOrCreate returns the identity of a platform account, creating it on first
// sight. Changed names are written back so quotes show current names.
func (s *Store) FindOrCreate(ctx context.Context, p Profile) (*Identity, error) {
	if p.ID <= 0 {
		return nil, ErrInvalidID
	}

	display := p.DisplayName
	if display == "" {
		display = Unknown
	}
	global := p.GlobalName
	if global == "" {
		global = display
	}

	ident := Identity{}
	err := s.db.WithContext(ctx).
		Where(Identity{ID: p.ID}).
		Assign(Identity{GlobalName: global, DisplayName: display}).
		FirstOrCreate(&ident).Error
	if err != nil {
		return nil, fmt.Errorf("find or create identity %d: %w", p.ID, err)
	}

	return &ident, nil
}

// FindOrCreateExternal returns the external identity with the given display
// name, allocating the next free negative id when it does not exist yet.
func (s *Store) FindOrCreateExternal(ctx context.Context, name string) (*Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var lastErr error
	for attempt := 0; attempt < maxExternalAttempts; attempt++ {
		var ident Identity
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Where("is_external AND display_name = ?", name).First(&ident).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			var lowest int64
			if err := tx.Model(&Identity{}).Select("COALESCE(MIN(id), 0)").Scan(&lowest).Error; err != nil {
				return fmt.Errorf("find lowest id: %w", err)
			}

			ident = Identity{
				ID:          min(lowest, 0) - 1,
				GlobalName:  name,
				DisplayName: name,
				IsExternal:  true,
			}
			return tx.Create(&ident).Error
		})
		if err == nil {
			return &ident, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("find or create external identity %q: %w", name, err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("find or create external identity %q: %w", name, lastErr)
}

// Get returns the identity with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*Identity, error) {
	var ident Identity
	if err := s.db.WithContext(ctx).First(&ident, id).Error; err != nil {
		return nil, err
	}
	return &ident, nil
}
