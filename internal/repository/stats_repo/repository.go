package stats_repo

import (
	"sort"
	"sync"
	"time"

	"slot_backend/internal/model"
)

// DefaultWindowSize - размер окна для RTP по последним спинам
const DefaultWindowSize = 500

// StatsRepo - статистика ставок в памяти процесса, по играм.
// Используется только для наблюдения, на исход спина не влияет
type StatsRepo struct {
	mtx        sync.RWMutex
	games      map[string]*model.GameStats
	windowSize int
	now        func() time.Time
}

// NewStatsRepository Конструктор репозитория статистики
func NewStatsRepository(windowSize int) *StatsRepo {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &StatsRepo{
		games:      make(map[string]*model.GameStats),
		windowSize: windowSize,
		now:        time.Now,
	}
}

// GameStats возвращает копию статистики игры
func (r *StatsRepo) GameStats(gameID string) (model.GameStats, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	st, ok := r.games[gameID]
	if !ok {
		return model.GameStats{}, false
	}
	out := *st
	out.SpinWindow = append([]model.SpinResult(nil), st.SpinWindow...)
	return out, true
}

// Games - id игр, по которым есть статистика
func (r *StatsRepo) Games() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UpdateState Обновление статистики игры после спина
func (r *StatsRepo) UpdateState(gameID string, bet, payout float64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st, ok := r.games[gameID]
	if !ok {
		st = &model.GameStats{
			SpinWindow: make([]model.SpinResult, 0, r.windowSize),
			WindowSize: r.windowSize,
		}
		r.games[gameID] = st
	}

	st.TotalSpins++
	st.TotalBet += bet
	st.TotalPayout += payout
	if st.TotalBet > 0 {
		st.CurrentRTP = st.TotalPayout / st.TotalBet * 100
	}

	// Добавляем спин в окно и поддерживаем его размер
	st.SpinWindow = append(st.SpinWindow, model.SpinResult{Bet: bet, Payout: payout})
	if len(st.SpinWindow) > st.WindowSize {
		st.SpinWindow = st.SpinWindow[1:]
	}

	var windowBet, windowPayout float64
	for _, spin := range st.SpinWindow {
		windowBet += spin.Bet
		windowPayout += spin.Payout
	}
	if windowBet > 0 {
		st.WindowRTP = windowPayout / windowBet * 100
	} else {
		st.WindowRTP = 0
	}

	st.UpdatedAt = r.now()
}
