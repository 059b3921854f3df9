// Package services composes the history cache, scoring, card generation and
// backtesting into request-level operations.
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/megafacil/internal/domain"
	"github.com/aristath/megafacil/internal/modules/backtest"
	"github.com/aristath/megafacil/internal/modules/cards"
	"github.com/aristath/megafacil/internal/modules/scoring"
	"github.com/aristath/megafacil/internal/rng"
)

// HistorySource provides the current draw history
type HistorySource interface {
	Get() (domain.Dataset, error)
}

// Options are the service defaults and request bounds
type Options struct {
	WindowSize          int
	MaxWindowSize       int
	CombinationsPerCard int
	MaxCards            int
	Seed                *int64 // nil means fresh entropy per request
}

// GenerateRequest asks for a batch of cards
type GenerateRequest struct {
	Cards      int    `json:"cards"`
	WindowSize *int   `json:"window_size,omitempty"`
	Seed       *int64 `json:"seed,omitempty"`
}

// GenerateResult is a generated batch plus the context it was built from
type GenerateResult struct {
	GenerationID string        `json:"generation_id"`
	LastDrawID   int           `json:"last_draw_id"`
	WindowSize   int           `json:"window_size"`
	Seed         int64         `json:"seed"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Cards        []domain.Card `json:"cards"`
}

// BacktestRequest configures an offline replay. Zero values take defaults.
type BacktestRequest struct {
	WindowSize    int    `json:"window_size,omitempty"`
	CardsPerDraw  int    `json:"cards_per_draw,omitempty"`
	CombosPerCard int    `json:"combinations_per_card,omitempty"`
	Draws         int    `json:"draws,omitempty"` // replay only the most recent N draws
	Seed          *int64 `json:"seed,omitempty"`
}

// BacktestResult wraps the statistics with the parameters actually used
type BacktestResult struct {
	WindowSize    int                 `json:"window_size"`
	CardsPerDraw  int                 `json:"cards_per_draw"`
	CombosPerCard int                 `json:"combinations_per_card"`
	Draws         int                 `json:"draws"`
	Seed          int64               `json:"seed"`
	Statistics    backtest.Statistics `json:"statistics"`
}

// GenerationService turns history into cards and backtest reports
type GenerationService struct {
	history HistorySource
	opts    Options
	log     zerolog.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(history HistorySource, opts Options, log zerolog.Logger) *GenerationService {
	return &GenerationService{
		history: history,
		opts:    opts,
		log:     log.With().Str("service", "generation").Logger(),
	}
}

// Generate scores the current history and produces the requested cards.
// Seeds resolve in order: request, configured, fresh entropy.
func (s *GenerationService) Generate(req GenerateRequest) (*GenerateResult, error) {
	if req.Cards < 1 || req.Cards > s.opts.MaxCards {
		return nil, fmt.Errorf("%w: cards must be between 1 and %d, got %d", domain.ErrInvalidRequest, s.opts.MaxCards, req.Cards)
	}
	windowSize, err := s.windowSize(req.WindowSize)
	if err != nil {
		return nil, err
	}

	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}

	seed := rng.ResolveSeed(req.Seed, s.opts.Seed)
	result := scoring.Analyze(dataset, windowSize)

	generated, err := cards.Generate(result.Scores, result.Groups, rng.New(seed), req.Cards, s.opts.CombinationsPerCard)
	if err != nil {
		s.log.Error().Err(err).Int("cards", req.Cards).Int64("seed", seed).Msg("Card generation failed")
		return nil, fmt.Errorf("failed to generate cards: %w", err)
	}

	out := &GenerateResult{
		GenerationID: uuid.NewString(),
		LastDrawID:   dataset.LatestDrawID(),
		WindowSize:   windowSize,
		Seed:         seed,
		GeneratedAt:  time.Now().UTC(),
		Cards:        generated,
	}

	s.log.Info().
		Str("generation_id", out.GenerationID).
		Int("cards", req.Cards).
		Int("window_size", windowSize).
		Int("last_draw_id", out.LastDrawID).
		Msg("Cards generated")

	return out, nil
}

// Analyze returns the current scores and tiers for windowSize (nil = default).
func (s *GenerationService) Analyze(windowSize *int) (scoring.Result, int, error) {
	w, err := s.windowSize(windowSize)
	if err != nil {
		return scoring.Result{}, 0, err
	}
	dataset, err := s.dataset()
	if err != nil {
		return scoring.Result{}, 0, err
	}
	return scoring.Analyze(dataset, w), dataset.LatestDrawID(), nil
}

// Backtest replays the history. progress may be nil.
func (s *GenerationService) Backtest(req BacktestRequest, progress func(backtest.Progress)) (*BacktestResult, error) {
	windowSize := req.WindowSize
	if windowSize == 0 {
		windowSize = s.opts.WindowSize
	}
	if windowSize < 1 || windowSize > s.opts.MaxWindowSize {
		return nil, fmt.Errorf("%w: window size must be between 1 and %d, got %d", domain.ErrInvalidRequest, s.opts.MaxWindowSize, windowSize)
	}
	cardsPerDraw := defaultInt(req.CardsPerDraw, 1)
	combosPerCard := defaultInt(req.CombosPerCard, s.opts.CombinationsPerCard)
	if cardsPerDraw < 1 || cardsPerDraw > s.opts.MaxCards || combosPerCard < 1 || req.Draws < 0 {
		return nil, fmt.Errorf("%w: cards per draw and combinations per card must be positive, draws must not be negative", domain.ErrInvalidRequest)
	}

	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if req.Draws > 0 {
		dataset = dataset.Tail(req.Draws)
	}

	seed := rng.ResolveSeed(req.Seed, s.opts.Seed)
	start := time.Now()

	stats, err := backtest.Run(dataset, backtest.Config{
		WindowSize:    windowSize,
		CardsPerDraw:  cardsPerDraw,
		CombosPerCard: combosPerCard,
		Seed:          seed,
		Progress:      progress,
	})
	if err != nil {
		return nil, fmt.Errorf("backtest failed: %w", err)
	}

	s.log.Info().
		Int("draws", dataset.Len()).
		Int("combinations", stats.TotalCombinations).
		Int64("seed", seed).
		Dur("duration", time.Since(start)).
		Msg("Backtest completed")

	return &BacktestResult{
		WindowSize:    windowSize,
		CardsPerDraw:  cardsPerDraw,
		CombosPerCard: combosPerCard,
		Draws:         dataset.Len(),
		Seed:          seed,
		Statistics:    stats,
	}, nil
}

// LatestDraw returns the most recent draw and the history size.
func (s *GenerationService) LatestDraw() (domain.Draw, int, error) {
	dataset, err := s.dataset()
	if err != nil {
		return domain.Draw{}, 0, err
	}
	return dataset.Draws[dataset.Len()-1], dataset.Len(), nil
}

func (s *GenerationService) dataset() (domain.Dataset, error) {
	dataset, err := s.history.Get()
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to load history: %w", err)
	}
	if dataset.Len() == 0 {
		return domain.Dataset{}, fmt.Errorf("%w: history is empty", domain.ErrDataFormat)
	}
	return dataset, nil
}

func (s *GenerationService) windowSize(requested *int) (int, error) {
	if requested == nil {
		return s.opts.WindowSize, nil
	}
	if *requested < 1 || *requested > s.opts.MaxWindowSize {
		return 0, fmt.Errorf("%w: window size must be between 1 and %d, got %d", domain.ErrInvalidRequest, s.opts.MaxWindowSize, *requested)
	}
	return *requested, nil
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
