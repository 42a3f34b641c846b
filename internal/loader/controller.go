package loader

// Scope is the active query and locale at one generation. The generation
// advances on every change, and a fetch result is applied only while the
// generation it was issued under is still current.
type Scope[Q Query] struct {
	Query      Q
	Locale     string
	Generation uint64
}

// Controller owns the active query and locale. It is not safe for
// concurrent use on its own; Loader serializes access to it.
type Controller[Q Query] struct {
	active     Q
	hasActive  bool
	locale     string
	generation uint64
}

// NewController returns a controller with no active query.
func NewController[Q Query](locale string) *Controller[Q] {
	return &Controller[Q]{locale: locale}
}

// SetQuery makes q the active query. It reports whether the active query
// changed, including transitions to and from "no query". An invalid q
// counts as no query.
func (c *Controller[Q]) SetQuery(q Q) (changed bool) {
	if !q.Valid() {
		if !c.hasActive {
			return false
		}
		var zero Q
		c.active = zero
		c.hasActive = false
		c.generation++
		return true
	}

	if c.hasActive && c.active == q {
		return false
	}
	c.active = q
	c.hasActive = true
	c.generation++
	return true
}

// SetLocale changes the locale. It reports whether the active collection
// must be reloaded, which is only the case when a query is active.
func (c *Controller[Q]) SetLocale(locale string) (reload bool) {
	if locale == c.locale {
		return false
	}
	c.locale = locale
	if !c.hasActive {
		return false
	}
	c.generation++
	return true
}

// Invalidate advances the generation without changing the query, so that
// in-flight results are discarded.
func (c *Controller[Q]) Invalidate() {
	c.generation++
}

// Current returns the active scope. ok is false when no query is active.
func (c *Controller[Q]) Current() (scope Scope[Q], ok bool) {
	return Scope[Q]{
		Query:      c.active,
		Locale:     c.locale,
		Generation: c.generation,
	}, c.hasActive
}

// Locale returns the active locale.
func (c *Controller[Q]) Locale() string {
	return c.locale
}

// IsCurrent reports whether generation is still the active one.
func (c *Controller[Q]) IsCurrent(generation uint64) bool {
	return c.generation == generation
}
