package line

import (
	"errors"
	"fmt"
	"sort"

	"slot_backend/internal/model"
)

// Catalog - статический реестр игр. Создается при старте и далее только читается.
type Catalog struct {
	games map[string]*model.GameConfig
	ids   []string
}

// NewCatalog проверяет конфиги и собирает из них каталог
func NewCatalog(games ...model.GameConfig) (*Catalog, error) {
	c := &Catalog{
		games: make(map[string]*model.GameConfig, len(games)),
	}
	for i := range games {
		cfg := games[i]
		if err := Validate(&cfg); err != nil {
			return nil, fmt.Errorf("game %q: %w", cfg.ID, err)
		}
		if _, ok := c.games[cfg.ID]; ok {
			return nil, fmt.Errorf("game %q: duplicate id", cfg.ID)
		}
		c.games[cfg.ID] = &cfg
		c.ids = append(c.ids, cfg.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Resolve возвращает конфиг игры по ее идентификатору
func (c *Catalog) Resolve(gameID string) (*model.GameConfig, error) {
	cfg, ok := c.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownGame, gameID)
	}
	return cfg, nil
}

// List возвращает все игры, отсортированные по id
func (c *Catalog) List() []*model.GameConfig {
	out := make([]*model.GameConfig, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.games[id])
	}
	return out
}

// Validate проверяет целостность конфига игры
func Validate(cfg *model.GameConfig) error {
	if cfg.ID == "" {
		return errors.New("empty id")
	}
	if cfg.ReelsCount < 3 {
		return fmt.Errorf("reels count %d, need at least 3", cfg.ReelsCount)
	}
	if cfg.ReelPositions < 1 {
		return fmt.Errorf("reel positions %d, need at least 1", cfg.ReelPositions)
	}
	if cfg.SymbolsCount < 1 {
		return fmt.Errorf("symbols count %d, need at least 1", cfg.SymbolsCount)
	}
	if len(cfg.Paylines) == 0 {
		return errors.New("no paylines")
	}

	for i, line := range cfg.Paylines {
		if len(line) != cfg.ReelsCount {
			return fmt.Errorf("payline %d: %d reels, want %d", i+1, len(line), cfg.ReelsCount)
		}
		for reel, cells := range line {
			if len(cells) != cfg.RowsPerReel() {
				return fmt.Errorf("payline %d reel %d: %d cells, want %d", i+1, reel, len(cells), cfg.RowsPerReel())
			}
			active := 0
			for _, on := range cells {
				if on {
					active++
				}
			}
			if active != 1 {
				return fmt.Errorf("payline %d reel %d: %d active cells, want exactly 1", i+1, reel, active)
			}
		}
	}

	// Для каждой серии 3..ReelsCount должен быть множитель
	want := cfg.ReelsCount - 2
	for sym := 1; sym <= cfg.SymbolsCount; sym++ {
		row, ok := cfg.PayoutTable[sym]
		if !ok {
			return fmt.Errorf("symbol %d: missing payouts", sym)
		}
		if len(row) != want {
			return fmt.Errorf("symbol %d: %d payouts, want %d", sym, len(row), want)
		}
		for _, m := range row {
			if m.IsNegative() {
				return fmt.Errorf("symbol %d: negative multiplier %s", sym, m)
			}
		}
	}
	for sym := range cfg.PayoutTable {
		if sym < 1 || sym > cfg.SymbolsCount {
			return fmt.Errorf("payout for symbol %d out of range 1..%d", sym, cfg.SymbolsCount)
		}
	}
	return nil
}
