package converter

import (
	"github.com/shopspring/decimal"

	dto "slot_backend/internal/api/dto/ws"
	"slot_backend/internal/model"
)

// StatusLoggedIn - статус успешного входа
const StatusLoggedIn = "logged-in"

func ToLoginResponse(acc *model.Account) dto.LoginResponse {
	return dto.LoginResponse{
		Status:   StatusLoggedIn,
		Key:      acc.Key,
		Username: acc.Username,
		Balance:  money(acc.Balance),
	}
}

func ToBalanceResponse(balance decimal.Decimal) dto.BalanceResponse {
	return dto.BalanceResponse{Value: money(balance)}
}

func ToGameStateResponse(snap *model.GameSnapshot) dto.GameStateResponse {
	return dto.GameStateResponse{
		Balance:   money(snap.Balance),
		Bet:       snap.State.Bet,
		CoinValue: money(snap.State.CoinValue),
		Reels:     toReels(snap.State.Reels),
	}
}

func ToWager(accountID int64, req dto.BetRequest) model.Wager {
	return model.Wager{
		AccountID: accountID,
		GameID:    req.GameID,
		Bet:       req.Bet,
		CoinValue: decimal.NewFromFloat(req.CoinValue),
	}
}

func ToBetResponse(out *model.WagerOutcome) dto.BetResponse {
	return dto.BetResponse{
		Balance: money(out.NewBalance),
		Reels:   toReels(out.Position),
		IsWin:   out.IsWin(),
		Win:     toWinLines(out.WinLines),
	}
}

func toWinLines(wins []model.WinLine) []dto.WinLine {
	result := make([]dto.WinLine, len(wins))
	for i, w := range wins {
		result[i] = dto.WinLine{
			Number: w.LineIndex,
			Symbol: w.Symbol,
			Count:  w.RunLength,
			Map:    ToMask(w.Mask),
			Amount: money(w.Amount),
		}
	}
	return result
}

// ToMask - маска линии в виде 0/1, как в каталоге игр
func ToMask(p model.Payline) [][]int {
	out := make([][]int, len(p))
	for reel, cells := range p {
		out[reel] = make([]int, len(cells))
		for row, active := range cells {
			if active {
				out[reel][row] = 1
			}
		}
	}
	return out
}

func toReels(r model.Reels) [][]int {
	if r == nil {
		return [][]int{}
	}
	return r
}

// money - денежная сумма для клиента, всегда с точностью до центов
func money(d decimal.Decimal) float64 {
	return model.RoundMoney(d).InexactFloat64()
}
