package rules

import (
	"go-options-advisor/internal/entity"
)

// Moneyness buckets.
const (
	MoneynessITM = "ITM"
	MoneynessATM = "ATM"
	MoneynessOTM = "OTM"
)

// atmBandPercent is the strike-vs-underlying distance still treated as
// at-the-money.
const atmBandPercent = 1.0

// IntrinsicValue returns the in-the-money portion of an option's price.
// Never negative.
func IntrinsicValue(optionType string, strike, underlying float64) float64 {
	var v float64
	if optionType == entity.OptionTypeCall {
		v = underlying - strike
	} else {
		v = strike - underlying
	}
	if v < 0 {
		return 0
	}
	return v
}

// TimeValue returns price minus intrinsic value. A stale quote can price a
// contract below intrinsic; that is reported as zero rather than negative.
func TimeValue(price, intrinsic float64) float64 {
	tv := price - intrinsic
	if tv < 0 {
		return 0
	}
	return tv
}

// PLPercent computes profit/loss relative to the entry premium with
// side-correct signs: a short position improves as the option price falls, a
// long position improves as it rises. Zero entry premium yields zero.
func PLPercent(side string, entryPremium, currentPrice float64) float64 {
	if entryPremium == 0 {
		return 0
	}
	if side == entity.PositionSideShort {
		return (entryPremium - currentPrice) / entryPremium * 100
	}
	return (currentPrice - entryPremium) / entryPremium * 100
}

// Moneyness classifies strike vs underlying price. Strikes within
// atmBandPercent of the underlying count as ATM.
func Moneyness(optionType string, strike, underlying float64) string {
	if underlying <= 0 || strike <= 0 {
		return MoneynessOTM
	}
	distance := (underlying - strike) / strike * 100
	if optionType == entity.OptionTypePut {
		distance = -distance
	}
	switch {
	case distance > atmBandPercent:
		return MoneynessITM
	case distance < -atmBandPercent:
		return MoneynessOTM
	default:
		return MoneynessATM
	}
}

// ExtrinsicPercent returns the option's remaining time value as a percentage
// of the entry premium.
func ExtrinsicPercent(timeValue, entryPremium float64) float64 {
	if entryPremium == 0 {
		return 0
	}
	return timeValue / entryPremium * 100
}
