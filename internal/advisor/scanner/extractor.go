package scanner

import (
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"
)

// validOption reports whether a position carries the fields classification
// requires. Malformed positions are excluded and counted, never silently
// merged into the output.
func validOption(p entity.OptionPosition) bool {
	return p.UnderlyingSymbol != "" && p.Strike > 0 && !p.Expiration.IsZero()
}

func accountMatches(a entity.Account, accountID uint) bool {
	return accountID == 0 || a.ID == accountID
}

// ExtractOptionPositions flattens account records into single-option views
// for the given side, attaching a display account name to each. Returns the
// views and the count of malformed positions excluded.
func ExtractOptionPositions(accounts []entity.Account, accountID uint, side string) ([]dto.OptionView, int) {
	var views []dto.OptionView
	excluded := 0

	for _, account := range accounts {
		if !accountMatches(account, accountID) {
			continue
		}
		for _, pos := range account.OptionPositions {
			if side != "" && pos.Side != side {
				continue
			}
			if !validOption(pos) {
				excluded++
				continue
			}
			views = append(views, dto.OptionView{
				Position: pos,
				Account:  account.Name,
			})
		}
	}
	return views, excluded
}

// ExtractPairs joins options of the given type and side with a co-located
// stock holding on the same underlying in the same account. Options with no
// matching stock are emitted standalone, holdings with no matching option are
// emitted as uncovered entries, and (for optionType call) watchlist symbols
// not already represented are appended as watchlist-sourced pairs.
func ExtractPairs(accounts []entity.Account, accountID uint, optionType, side string, watchlist []entity.WatchlistEntry) ([]dto.PairView, int) {
	var pairs []dto.PairView
	excluded := 0
	seenSymbols := make(map[string]bool)

	for _, account := range accounts {
		if !accountMatches(account, accountID) {
			continue
		}

		holdings := make(map[string]*entity.StockHolding, len(account.StockHoldings))
		for i := range account.StockHoldings {
			h := &account.StockHoldings[i]
			if h.Symbol != "" {
				holdings[h.Symbol] = h
			}
		}

		pairedSymbols := make(map[string]bool)
		for i := range account.OptionPositions {
			pos := &account.OptionPositions[i]
			if pos.OptionType != optionType || pos.Side != side {
				continue
			}
			if !validOption(*pos) {
				excluded++
				continue
			}
			pairs = append(pairs, dto.PairView{
				Symbol:  pos.UnderlyingSymbol,
				Account: account.Name,
				Source:  dto.PairSourceHolding,
				Option:  pos,
				Stock:   holdings[pos.UnderlyingSymbol],
			})
			pairedSymbols[pos.UnderlyingSymbol] = true
			seenSymbols[pos.UnderlyingSymbol] = true
		}

		// Holdings with no option of this type are still candidates for
		// opening one.
		for symbol, holding := range holdings {
			if pairedSymbols[symbol] {
				continue
			}
			pairs = append(pairs, dto.PairView{
				Symbol:  symbol,
				Account: account.Name,
				Source:  dto.PairSourceHolding,
				Stock:   holding,
			})
			seenSymbols[symbol] = true
		}
	}

	for i := range watchlist {
		entry := &watchlist[i]
		if entry.Symbol == "" || seenSymbols[entry.Symbol] {
			continue
		}
		pairs = append(pairs, dto.PairView{
			Symbol: entry.Symbol,
			Source: dto.PairSourceWatchlist,
		})
	}

	return pairs, excluded
}

// ExtractCombos groups long calls and puts by account, underlying, and
// expiration into straddle/strangle views. A combo missing one leg is still
// emitted so the classifier can recommend rebuilding it.
func ExtractCombos(accounts []entity.Account, accountID uint) ([]dto.ComboView, int) {
	type comboKey struct {
		symbol     string
		expiration string
	}

	var combos []dto.ComboView
	excluded := 0

	for _, account := range accounts {
		if !accountMatches(account, accountID) {
			continue
		}

		grouped := make(map[comboKey]*dto.ComboView)
		var order []comboKey
		for i := range account.OptionPositions {
			pos := &account.OptionPositions[i]
			if pos.Side != entity.PositionSideLong {
				continue
			}
			if !validOption(*pos) {
				excluded++
				continue
			}
			key := comboKey{
				symbol:     pos.UnderlyingSymbol,
				expiration: pos.Expiration.Format("2006-01-02"),
			}
			combo, ok := grouped[key]
			if !ok {
				combo = &dto.ComboView{
					Symbol:  pos.UnderlyingSymbol,
					Account: account.Name,
				}
				grouped[key] = combo
				order = append(order, key)
			}
			if pos.IsCall() {
				combo.Call = pos
			} else {
				combo.Put = pos
			}
		}

		for _, key := range order {
			combo := grouped[key]
			combo.IsStraddle = combo.IsComplete() && combo.Call.Strike == combo.Put.Strike
			combos = append(combos, *combo)
		}
	}

	return combos, excluded
}
