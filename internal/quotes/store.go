package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/graffic/campusbot/internal/identity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNoMessages is returned when a quote would have no messages.
var ErrNoMessages = errors.New("quotes: a quote needs at least one message")

// NewQuote describes a quote to be stored
type NewQuote struct {
	Reporter identity.Profile
	ChatID   int64
	Comment  string
	Excerpts []Excerpt
}

// Store handles persistence of quotes to the database
type Store struct {
	db *gorm.DB
}

// NewStore creates a new quote store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create stores a quote and all its messages in one transaction. Identities
// for the reporter and every author are created as needed.
func (s *Store) Create(ctx context.Context, nq NewQuote) (*Quote, error) {
	if len(nq.Excerpts) == 0 {
		return nil, ErrNoMessages
	}

	var quoteID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identities := identity.NewStore(tx)

		reporter, err := identities.FindOrCreate(ctx, nq.Reporter)
		if err != nil {
			return fmt.Errorf("reporter: %w", err)
		}

		quote := Quote{
			ReporterID:   reporter.ID,
			ChatID:       nq.ChatID,
			DateReported: time.Now(),
		}
		if comment := strings.TrimSpace(nq.Comment); comment != "" {
			quote.Comment = &comment
		}
		if err := tx.Create(&quote).Error; err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}

		for i, ex := range nq.Excerpts {
			author, err := authorFor(ctx, identities, ex.Author)
			if err != nil {
				return fmt.Errorf("author of message %d: %w", i, err)
			}

			msg := QuoteMessage{
				QuoteID:  quote.ID,
				Position: i,
				Content:  ex.Content,
				AuthorID: author.ID,
				Date:     ex.Date,
				Link:     ex.Link,
			}
			if len(ex.Source) > 0 {
				msg.Source = datatypes.JSON(ex.Source)
			}
			if err := tx.Create(&msg).Error; err != nil {
				return fmt.Errorf("failed to create quote message %d: %w", i, err)
			}
		}

		quoteID = quote.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, quoteID)
}

func authorFor(ctx context.Context, identities *identity.Store, p identity.Profile) (*identity.Identity, error) {
	if p.ID > 0 {
		return identities.FindOrCreate(ctx, p)
	}
	name := p.DisplayName
	if strings.TrimSpace(name) == "" {
		name = identity.Unknown
	}
	return identities.FindOrCreateExternal(ctx, name)
}

func (s *Store) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Messages.Author")
}

// Get returns a quote with its messages, authors and reporter
func (s *Store) Get(ctx context.Context, id uint) (*Quote, error) {
	var quote Quote
	if err := s.withRelations(ctx).First(&quote, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load quote %d: %w", id, err)
	}
	return &quote, nil
}

// All returns every quote with its messages, authors and reporter
func (s *Store) All(ctx context.Context) ([]Quote, error) {
	var quotes []Quote
	if err := s.withRelations(ctx).Order("id ASC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("failed to load quotes: %w", err)
	}
	return quotes, nil
}

// Count returns the number of stored quotes
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Quote{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}
	return count, nil
}

// Random returns one uniformly chosen quote, or ErrEmptyCorpus
func (s *Store) Random(ctx context.Context) (*Quote, error) {
	var quote Quote
	err := s.withRelations(ctx).Order("RANDOM()").Take(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmptyCorpus
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load random quote: %w", err)
	}
	return &quote, nil
}
