package line

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
)

// rowLine строит маску, активную в одной и той же строке на всех барабанах
func rowLine(reels, rows, row int) model.Payline {
	line := make(model.Payline, reels)
	for r := range line {
		line[r] = make([]bool, rows)
		line[r][row] = true
	}
	return line
}

// zigzag строит маску по списку строк для каждого барабана
func zigzag(rows int, path ...int) model.Payline {
	line := make(model.Payline, len(path))
	for r, row := range path {
		line[r] = make([]bool, rows)
		line[r][row] = true
	}
	return line
}

func flatPayouts(symbols, reels int, mult string) map[int][]decimal.Decimal {
	table := make(map[int][]decimal.Decimal, symbols)
	for s := 1; s <= symbols; s++ {
		row := make([]decimal.Decimal, reels-2)
		for i := range row {
			row[i] = decimal.RequireFromString(mult)
		}
		table[s] = row
	}
	return table
}

func testThreeReelGame() model.GameConfig {
	payouts := flatPayouts(5, 3, "2")
	payouts[3] = []decimal.Decimal{decimal.NewFromInt(5)}
	return model.GameConfig{
		ID:            "three",
		Name:          "Three Reels",
		ReelsCount:    3,
		ReelPositions: 2,
		SymbolsCount:  5,
		Paylines:      []model.Payline{rowLine(3, 3, 1)},
		PayoutTable:   payouts,
	}
}

func testFiveReelGame() model.GameConfig {
	payouts := flatPayouts(6, 5, "1")
	payouts[2] = []decimal.Decimal{
		decimal.RequireFromString("1.5"),
		decimal.RequireFromString("4"),
		decimal.RequireFromString("10"),
	}
	return model.GameConfig{
		ID:            "five",
		Name:          "Five Reels",
		ReelsCount:    5,
		ReelPositions: 3,
		SymbolsCount:  6,
		Paylines: []model.Payline{
			rowLine(5, 4, 0),
			rowLine(5, 4, 1),
			zigzag(4, 0, 1, 2, 1, 0),
		},
		PayoutTable: payouts,
	}
}

func TestEvaluate_PrefixRunWins(t *testing.T) {
	cfg := testThreeReelGame()
	bet := decimal.RequireFromString("1.00")

	position := model.Reels{{1, 3, 2}, {4, 3, 5}, {2, 3, 1}}
	wins := Evaluate(&cfg, position, bet)
	if len(wins) != 1 {
		t.Fatalf("expected 1 win line, got %d", len(wins))
	}
	w := wins[0]
	if w.LineIndex != 1 || w.Symbol != 3 || w.RunLength != 3 {
		t.Errorf("unexpected win line: %+v", w)
	}
	if !w.Amount.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("amount %s want 5.00", w.Amount)
	}
}

func TestEvaluate_BreakAtSecondReel(t *testing.T) {
	cfg := testThreeReelGame()
	position := model.Reels{{1, 3, 2}, {4, 4, 5}, {2, 3, 1}}
	if wins := Evaluate(&cfg, position, decimal.NewFromInt(1)); len(wins) != 0 {
		t.Fatalf("expected no wins for [3,4,3], got %+v", wins)
	}
}

func TestEvaluate_NoCreditAfterBreak(t *testing.T) {
	cfg := testFiveReelGame()
	bet := decimal.NewFromInt(2)

	tests := []struct {
		name    string
		top     []int // символы строки 0 по барабанам
		wantRun int   // 0 - линия 1 не выигрывает
		wantAmt string
	}{
		{name: "two then resumed", top: []int{2, 2, 4, 2, 2}, wantRun: 0},
		{name: "three", top: []int{2, 2, 2, 4, 2}, wantRun: 3, wantAmt: "3.00"},
		{name: "four", top: []int{2, 2, 2, 2, 5}, wantRun: 4, wantAmt: "8.00"},
		{name: "full", top: []int{2, 2, 2, 2, 2}, wantRun: 5, wantAmt: "20.00"},
		{name: "anchored on first reel", top: []int{4, 2, 2, 2, 2}, wantRun: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			position := make(model.Reels, 5)
			for r := range position {
				// строки 1..3 не дают выигрышей на линиях 2 и 3
				position[r] = []int{tt.top[r], r + 1, (r+2)%6 + 1, 6}
			}

			var line1 *model.WinLine
			wins := Evaluate(&cfg, position, bet)
			for i := range wins {
				if wins[i].LineIndex == 1 {
					line1 = &wins[i]
				}
			}
			if tt.wantRun == 0 {
				if line1 != nil {
					t.Fatalf("line 1 must not win, got %+v", *line1)
				}
				return
			}
			if line1 == nil {
				t.Fatalf("line 1 should win with run %d", tt.wantRun)
			}
			if line1.RunLength != tt.wantRun {
				t.Errorf("run %d want %d", line1.RunLength, tt.wantRun)
			}
			if line1.RunLength > cfg.ReelsCount {
				t.Errorf("run %d exceeds reels count", line1.RunLength)
			}
			if !line1.Amount.Equal(decimal.RequireFromString(tt.wantAmt)) {
				t.Errorf("amount %s want %s", line1.Amount, tt.wantAmt)
			}
		})
	}
}

func TestEvaluate_SeveralLinesInDeclaredOrder(t *testing.T) {
	cfg := testFiveReelGame()
	position := model.Reels{
		{3, 1, 5, 6},
		{3, 1, 5, 6},
		{3, 1, 1, 6},
		{4, 1, 5, 6},
		{5, 4, 5, 6},
	}
	// линия 1 (строка 0): 3,3,3,4,5 -> 3; линия 2 (строка 1): 1,1,1,1,4 -> 4;
	// линия 3 (0,1,2,1,0): 3,1,... -> нет
	wins := Evaluate(&cfg, position, decimal.RequireFromString("0.50"))
	if len(wins) != 2 {
		t.Fatalf("expected 2 wins, got %d: %+v", len(wins), wins)
	}
	if wins[0].LineIndex != 1 || wins[0].Symbol != 3 || wins[0].RunLength != 3 {
		t.Errorf("first win %+v", wins[0])
	}
	if wins[1].LineIndex != 2 || wins[1].Symbol != 1 || wins[1].RunLength != 4 {
		t.Errorf("second win %+v", wins[1])
	}
	if got := TotalWin(wins); !got.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("total %s want 1.00", got)
	}
}

func TestEvaluate_RoundsAmount(t *testing.T) {
	cfg := testFiveReelGame()
	cfg.PayoutTable[2][0] = decimal.RequireFromString("1.333")
	position := model.Reels{{2, 1, 1, 1}, {2, 2, 2, 2}, {2, 3, 3, 3}, {1, 4, 4, 4}, {1, 5, 5, 5}}
	wins := Evaluate(&cfg, position, decimal.RequireFromString("1.00"))
	if len(wins) != 1 {
		t.Fatalf("expected 1 win, got %+v", wins)
	}
	if !wins[0].Amount.Equal(decimal.RequireFromString("1.33")) {
		t.Errorf("amount %s want 1.33", wins[0].Amount)
	}
}

func TestRunLength(t *testing.T) {
	tests := []struct {
		in   []int
		want int
	}{
		{nil, 0},
		{[]int{7}, 1},
		{[]int{1, 2, 1}, 1},
		{[]int{1, 1, 2, 1, 1}, 2},
		{[]int{4, 4, 4, 4}, 4},
	}
	for _, tt := range tests {
		if got := RunLength(tt.in); got != tt.want {
			t.Errorf("RunLength(%v) = %d want %d", tt.in, got, tt.want)
		}
	}
}

func TestGenerate_ShapeAndRange(t *testing.T) {
	cfg := testFiveReelGame()
	g := NewGenerator()
	for i := 0; i < 500; i++ {
		reels := g.Generate(&cfg)
		if len(reels) != cfg.ReelsCount {
			t.Fatalf("got %d reels want %d", len(reels), cfg.ReelsCount)
		}
		for _, column := range reels {
			if len(column) != cfg.ReelPositions+1 {
				t.Fatalf("reel length %d want %d", len(column), cfg.ReelPositions+1)
			}
			for _, sym := range column {
				if sym < 1 || sym > cfg.SymbolsCount {
					t.Fatalf("symbol %d out of range [1,%d]", sym, cfg.SymbolsCount)
				}
			}
		}
	}
}

func TestGenerate_SeededIsDeterministic(t *testing.T) {
	cfg := testFiveReelGame()
	a := NewSeededGenerator(42, 7)
	b := NewSeededGenerator(42, 7)
	for i := 0; i < 20; i++ {
		ra, rb := a.Generate(&cfg), b.Generate(&cfg)
		for r := range ra {
			for k := range ra[r] {
				if ra[r][k] != rb[r][k] {
					t.Fatalf("spin %d differs at [%d][%d]", i, r, k)
				}
			}
		}
	}
}

func TestGenerate_Uniformity(t *testing.T) {
	cfg := testThreeReelGame() // 5 символов, 3x3
	g := NewSeededGenerator(2024, 11)

	const spins = 20_000
	counts := make([]int, cfg.SymbolsCount+1)
	total := 0
	for i := 0; i < spins; i++ {
		for _, column := range g.Generate(&cfg) {
			for _, sym := range column {
				counts[sym]++
				total++
			}
		}
	}

	expected := float64(total) / float64(cfg.SymbolsCount)
	var chi2 float64
	for sym := 1; sym <= cfg.SymbolsCount; sym++ {
		d := float64(counts[sym]) - expected
		chi2 += d * d / expected
	}
	// df=4, p=0.001
	if chi2 > 18.47 {
		t.Errorf("chi-square %.2f too large, counts %v", chi2, counts[1:])
	}
}

func TestGenerate_CellIndependence(t *testing.T) {
	cfg := testThreeReelGame()
	g := NewSeededGenerator(99, 3)

	const spins = 30_000
	n := cfg.SymbolsCount
	pairs := make([]int, n*n)
	for i := 0; i < spins; i++ {
		reels := g.Generate(&cfg)
		// соседние барабаны в одной строке
		a, b := reels[0][1], reels[1][1]
		pairs[(a-1)*n+(b-1)]++
	}

	expected := float64(spins) / float64(n*n)
	var chi2 float64
	for _, c := range pairs {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	// df=24, p=0.001
	if chi2 > 51.18 {
		t.Errorf("pair chi-square %.2f too large", chi2)
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c, err := NewCatalog(testFiveReelGame(), testThreeReelGame())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := c.Resolve("three")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ReelsCount != 3 {
		t.Errorf("resolved wrong game: %+v", cfg)
	}
	if _, err := c.Resolve("missing"); !errors.Is(err, model.ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
	list := c.List()
	if len(list) != 2 || list[0].ID != "five" || list[1].ID != "three" {
		t.Errorf("list not sorted by id: %v, %v", list[0].ID, list[1].ID)
	}
}

func TestCatalog_RejectsInvalidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.GameConfig)
	}{
		{"empty id", func(c *model.GameConfig) { c.ID = "" }},
		{"two reels", func(c *model.GameConfig) { c.ReelsCount = 2 }},
		{"no paylines", func(c *model.GameConfig) { c.Paylines = nil }},
		{"short payline", func(c *model.GameConfig) { c.Paylines[0] = c.Paylines[0][:2] }},
		{"two active cells", func(c *model.GameConfig) { c.Paylines[0][1][0] = true }},
		{"no active cell", func(c *model.GameConfig) { c.Paylines[0][2][1] = false }},
		{"missing payout", func(c *model.GameConfig) { delete(c.PayoutTable, 4) }},
		{"payout length", func(c *model.GameConfig) {
			c.PayoutTable[1] = append(c.PayoutTable[1], decimal.NewFromInt(1))
		}},
		{"negative payout", func(c *model.GameConfig) { c.PayoutTable[2] = []decimal.Decimal{decimal.NewFromInt(-1)} }},
		{"payout out of range", func(c *model.GameConfig) { c.PayoutTable[9] = []decimal.Decimal{decimal.NewFromInt(1)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testThreeReelGame()
			tt.mutate(&cfg)
			if _, err := NewCatalog(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if _, err := NewCatalog(testThreeReelGame(), testThreeReelGame()); err == nil {
		t.Error("expected duplicate id error")
	}
}
