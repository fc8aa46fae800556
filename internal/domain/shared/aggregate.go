package shared

// BaseAggregateRoot extends BaseEntity with a version counter for
// optimistic locking.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// IncrementVersion bumps the optimistic-lock version and the update
// timestamp together
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

// NewBaseAggregateRoot creates a versioned entity starting at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
