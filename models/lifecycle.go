package models

import "time"

// FactoryState is either Live or Recycled.
type FactoryState interface {
	// Name is "live" or "recycled".
	Name() string
	isFactoryState()
}

// Live factories appear in the regular listings.
type Live struct{}

func (Live) Name() string    { return "live" }
func (Live) isFactoryState() {}

// Recycled factories are soft-deleted and only reachable through the recycle bin.
type Recycled struct {
	DeletedAt time.Time
}

func (Recycled) Name() string    { return "recycled" }
func (Recycled) isFactoryState() {}
