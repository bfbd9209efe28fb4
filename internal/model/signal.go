package model

import "time"

// SignalKind is the direction of a crossover event.
type SignalKind string

const (
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
)

// SignalEvent is a Buy or Sell emitted at a moving-average crossover.
type SignalEvent struct {
	Index int
	Date  time.Time
	Price float64
	Kind  SignalKind
}
