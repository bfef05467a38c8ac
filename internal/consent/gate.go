// Package consent decides whether two users may talk to each other. Consent
// is mutual interest: both directed like edges have to exist before a chat
// session or conversation history is handed out.
package consent

import (
	"go.uber.org/zap"
)

// LikeStore is the slice of storage the gate needs.
type LikeStore interface {
	CreateLike(from, to uint) (bool, error)
	MutualLikeExists(a, b uint) (bool, error)
}

// Notifier receives the new-interest event when an edge is first created.
type Notifier interface {
	NewInterest(recipient, sender uint)
}

type Gate struct {
	Store    LikeStore
	Notifier Notifier
	Log      *zap.Logger
}

func NewGate(store LikeStore, notifier Notifier, log *zap.Logger) *Gate {
	return &Gate{Store: store, Notifier: notifier, Log: log}
}

// HasMutualConsent reports whether a and b have liked each other. Symmetric
// in its arguments.
func (g *Gate) HasMutualConsent(a, b uint) (bool, error) {
	return g.Store.MutualLikeExists(a, b)
}

// RecordInterest creates the directed edge from→to if absent. Creating an
// existing edge is a no-op, reported as created=false with no notification,
// so the caller can safely retry.
func (g *Gate) RecordInterest(from, to uint) (bool, error) {
	created, err := g.Store.CreateLike(from, to)
	if err != nil {
		return false, err
	}
	if created {
		g.Log.Info("new interest recorded", zap.Uint("from", from), zap.Uint("to", to))
		g.Notifier.NewInterest(to, from)
	}
	return created, nil
}
