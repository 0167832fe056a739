package env

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"slot_backend/internal/config"
	"slot_backend/internal/model"
)

const (
	gamesConfigEnvName = "GAMES_CONFIG"
	defaultGamesConfig = "games.yaml"
)

type gamesConfig struct {
	path string
}

func NewGamesConfig() (config.GamesConfig, error) {
	path := os.Getenv(gamesConfigEnvName)
	if len(path) == 0 {
		path = defaultGamesConfig
	}
	return &gamesConfig{path: path}, nil
}

func (cfg *gamesConfig) Path() string {
	return cfg.path
}

type gamesFile struct {
	Games []gameEntry `yaml:"games"`
}

type gameEntry struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Reels     int               `yaml:"reels"`
	Positions int               `yaml:"positions"`
	Symbols   int               `yaml:"symbols"`
	Paylines  [][][]int         `yaml:"paylines"`
	Payouts   map[int][]float64 `yaml:"payouts"`
}

// NewGamesFromYAML читает каталог игр из YAML файла.
// Структурная проверка конфигураций делается при построении каталога
func NewGamesFromYAML(path string) ([]model.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read games config: %w", err)
	}
	return ParseGames(data)
}

func ParseGames(data []byte) ([]model.GameConfig, error) {
	var file gamesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse games config: %w", err)
	}
	if len(file.Games) == 0 {
		return nil, fmt.Errorf("games config has no games")
	}

	games := make([]model.GameConfig, 0, len(file.Games))
	for i, e := range file.Games {
		cfg, err := e.toModel()
		if err != nil {
			return nil, fmt.Errorf("game #%d (%q): %w", i, e.ID, err)
		}
		games = append(games, cfg)
	}
	return games, nil
}

func (e gameEntry) toModel() (model.GameConfig, error) {
	paylines := make([]model.Payline, 0, len(e.Paylines))
	for li, raw := range e.Paylines {
		mask := make(model.Payline, len(raw))
		for reel, cells := range raw {
			mask[reel] = make([]bool, len(cells))
			for row, v := range cells {
				switch v {
				case 0:
				case 1:
					mask[reel][row] = true
				default:
					return model.GameConfig{}, fmt.Errorf("payline %d: cell value %d is not 0 or 1", li+1, v)
				}
			}
		}
		paylines = append(paylines, mask)
	}

	payouts := make(map[int][]decimal.Decimal, len(e.Payouts))
	for symbol, mults := range e.Payouts {
		row := make([]decimal.Decimal, len(mults))
		for i, m := range mults {
			row[i] = decimal.NewFromFloat(m)
		}
		payouts[symbol] = row
	}

	return model.GameConfig{
		ID:            e.ID,
		Name:          e.Name,
		ReelsCount:    e.Reels,
		ReelPositions: e.Positions,
		SymbolsCount:  e.Symbols,
		Paylines:      paylines,
		PayoutTable:   payouts,
	}, nil
}
