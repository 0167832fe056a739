package line

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"

	"slot_backend/internal/model"
)

// Generator генерирует матрицу позиций барабанов для игры
type Generator interface {
	Generate(cfg *model.GameConfig) model.Reels
}

type randomGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator создает генератор с ChaCha8, засеянным из crypto/rand
func NewGenerator() Generator {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("failed to seed reel generator: " + err.Error())
	}
	return NewRandomGenerator(rand.New(rand.NewChaCha8(seed)))
}

// NewSeededGenerator - детерминированный генератор для тестов и симуляций
func NewSeededGenerator(seed1, seed2 uint64) Generator {
	return NewRandomGenerator(rand.New(rand.NewPCG(seed1, seed2)))
}

// NewRandomGenerator оборачивает произвольный источник. rand.Rand не потокобезопасен,
// поэтому доступ к нему идет под мьютексом.
func NewRandomGenerator(rnd *rand.Rand) Generator {
	return &randomGenerator{rnd: rnd}
}

// Generate заполняет ReelsCount барабанов по ReelPositions+1 ячеек,
// каждая ячейка независимо и равномерно из [1, SymbolsCount]
func (g *randomGenerator) Generate(cfg *model.GameConfig) model.Reels {
	g.mu.Lock()
	defer g.mu.Unlock()

	reels := make(model.Reels, cfg.ReelsCount)
	for r := range reels {
		column := make([]int, cfg.RowsPerReel())
		for i := range column {
			column[i] = g.rnd.IntN(cfg.SymbolsCount) + 1
		}
		reels[r] = column
	}
	return reels
}
