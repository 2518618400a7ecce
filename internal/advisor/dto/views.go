package dto

import "go-options-advisor/internal/entity"

// Pair sources for covered-call and protective-put views.
const (
	PairSourceHolding   = "holding"
	PairSourceWatchlist = "watchlist"
)

// OptionView is a single option position flattened out of its account for
// classification.
type OptionView struct {
	Position entity.OptionPosition
	Account  string
}

// PairView joins an option with a co-located stock holding on the same
// underlying within the same account. Options with no matching stock are
// still emitted with Stock == nil so uncovered scenarios are classified, and
// holdings or watchlist symbols with no option appear with Option == nil.
type PairView struct {
	Symbol  string
	Account string
	Source  string
	Option  *entity.OptionPosition
	Stock   *entity.StockHolding
}

// HasOption reports whether the pair carries an option leg.
func (p PairView) HasOption() bool { return p.Option != nil }

// HasStock reports whether the pair carries a share position.
func (p PairView) HasStock() bool { return p.Stock != nil }

// ComboView is a long call and long put on the same underlying and
// expiration within one account. IsStraddle is true when the strikes match.
type ComboView struct {
	Symbol     string
	Account    string
	Call       *entity.OptionPosition
	Put        *entity.OptionPosition
	IsStraddle bool
}

// IsComplete reports whether both legs are present.
func (c ComboView) IsComplete() bool { return c.Call != nil && c.Put != nil }
