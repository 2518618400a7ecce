package scanner

import (
	"testing"
	"time"

	"go-options-advisor/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExpiration() time.Time {
	return time.Now().AddDate(0, 1, 0)
}

func testAccounts() []entity.Account {
	exp := testExpiration()
	return []entity.Account{
		{
			ID:   1,
			Name: "main",
			OptionPositions: []entity.OptionPosition{
				{ID: 1, UnderlyingSymbol: "AAPL", Strike: 180, Expiration: exp, OptionType: entity.OptionTypeCall, Side: entity.PositionSideShort, Contracts: 1, Premium: 2},
				{ID: 2, UnderlyingSymbol: "SPY", Strike: 500, Expiration: exp, OptionType: entity.OptionTypePut, Side: entity.PositionSideLong, Contracts: 1, Premium: 8},
				// Malformed: no underlying symbol.
				{ID: 3, Strike: 100, Expiration: exp, OptionType: entity.OptionTypeCall, Side: entity.PositionSideShort},
			},
			StockHoldings: []entity.StockHolding{
				{ID: 1, Symbol: "AAPL", Shares: 100},
				{ID: 2, Symbol: "NVDA", Shares: 200},
			},
		},
		{
			ID:   2,
			Name: "ira",
			OptionPositions: []entity.OptionPosition{
				{ID: 4, UnderlyingSymbol: "TSLA", Strike: 250, Expiration: exp, OptionType: entity.OptionTypeCall, Side: entity.PositionSideLong, Contracts: 1, Premium: 10},
				{ID: 5, UnderlyingSymbol: "TSLA", Strike: 250, Expiration: exp, OptionType: entity.OptionTypePut, Side: entity.PositionSideLong, Contracts: 1, Premium: 8},
			},
		},
	}
}

func TestExtractOptionPositions(t *testing.T) {
	views, excluded := ExtractOptionPositions(testAccounts(), 0, entity.PositionSideShort)

	require.Len(t, views, 1)
	assert.Equal(t, "AAPL", views[0].Position.UnderlyingSymbol)
	assert.Equal(t, "main", views[0].Account)
	assert.Equal(t, 1, excluded)
}

func TestExtractOptionPositions_AccountFilter(t *testing.T) {
	views, _ := ExtractOptionPositions(testAccounts(), 2, "")
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, "ira", v.Account)
	}
}

func TestExtractPairs_CoveredCalls(t *testing.T) {
	watchlist := []entity.WatchlistEntry{
		{Symbol: "AMD"},
		{Symbol: "AAPL"}, // already represented by the option pair
	}

	pairs, excluded := ExtractPairs(testAccounts(), 0, entity.OptionTypeCall, entity.PositionSideShort, watchlist)
	assert.Equal(t, 1, excluded)

	bySymbol := make(map[string]int)
	for _, p := range pairs {
		bySymbol[p.Symbol]++
	}
	assert.Equal(t, 1, bySymbol["AAPL"])
	assert.Equal(t, 1, bySymbol["NVDA"])
	assert.Equal(t, 1, bySymbol["AMD"])

	for _, p := range pairs {
		switch p.Symbol {
		case "AAPL":
			require.True(t, p.HasOption())
			require.True(t, p.HasStock())
		case "NVDA":
			assert.False(t, p.HasOption())
			require.True(t, p.HasStock())
		case "AMD":
			assert.Equal(t, "watchlist", p.Source)
			assert.False(t, p.HasOption())
			assert.False(t, p.HasStock())
		}
	}
}

func TestExtractPairs_ProtectivePuts(t *testing.T) {
	pairs, _ := ExtractPairs(testAccounts(), 1, entity.OptionTypePut, entity.PositionSideLong, nil)

	bySymbol := make(map[string]bool)
	for _, p := range pairs {
		bySymbol[p.Symbol] = true
	}
	// The SPY put has no matching holding; AAPL and NVDA holdings appear
	// unprotected.
	assert.True(t, bySymbol["SPY"])
	assert.True(t, bySymbol["AAPL"])
	assert.True(t, bySymbol["NVDA"])
}

func TestExtractCombos(t *testing.T) {
	combos, excluded := ExtractCombos(testAccounts(), 0)
	assert.Equal(t, 0, excluded)

	var tsla, spy *struct {
		complete   bool
		isStraddle bool
	}
	for _, c := range combos {
		v := &struct {
			complete   bool
			isStraddle bool
		}{c.IsComplete(), c.IsStraddle}
		switch c.Symbol {
		case "TSLA":
			tsla = v
		case "SPY":
			spy = v
		}
	}

	require.NotNil(t, tsla)
	assert.True(t, tsla.complete)
	assert.True(t, tsla.isStraddle)

	// The lone long SPY put surfaces as an incomplete combo.
	require.NotNil(t, spy)
	assert.False(t, spy.complete)
}

func TestExtractCombos_StrangleStrikesDiffer(t *testing.T) {
	exp := testExpiration()
	accounts := []entity.Account{{
		ID:   1,
		Name: "main",
		OptionPositions: []entity.OptionPosition{
			{ID: 1, UnderlyingSymbol: "TSLA", Strike: 260, Expiration: exp, OptionType: entity.OptionTypeCall, Side: entity.PositionSideLong, Premium: 6},
			{ID: 2, UnderlyingSymbol: "TSLA", Strike: 240, Expiration: exp, OptionType: entity.OptionTypePut, Side: entity.PositionSideLong, Premium: 5},
		},
	}}

	combos, _ := ExtractCombos(accounts, 0)
	require.Len(t, combos, 1)
	assert.True(t, combos[0].IsComplete())
	assert.False(t, combos[0].IsStraddle)
}
