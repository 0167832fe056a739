package game

type GameSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameDescriptor - статическое описание раскладки игры для клиента
type GameDescriptor struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	ReelsCount    int                  `json:"reelsCount"`
	ReelPositions int                  `json:"reelPositions"`
	SymbolsCount  int                  `json:"symbolsCount"`
	Paylines      [][][]int            `json:"paylines"`
	PayoutTable   map[string][]float64 `json:"payoutTable"`
}
