package games

// Toggle is one of the mutually exclusive filter controls.
type Toggle struct {
	ID     FilterType `json:"id"`
	Label  string     `json:"label"`
	Active bool       `json:"active"`
}

// FilterControls models the three filter toggles. Exactly one is active at a time.
type FilterControls struct {
	active   FilterType
	onChange func(FilterType)
}

// NewFilterControls builds the controls with the given active filter and change callback.
func NewFilterControls(active FilterType, onChange func(FilterType)) *FilterControls {
	if !active.Valid() {
		active = FilterLastAdded
	}
	return &FilterControls{active: active, onChange: onChange}
}

// Active reports the currently selected filter.
func (c *FilterControls) Active() FilterType {
	return c.active
}

// Toggles renders the controls in display order.
func (c *FilterControls) Toggles() []Toggle {
	out := make([]Toggle, 0, len(Filters))
	for _, f := range Filters {
		out = append(out, Toggle{ID: f, Label: f.Label(), Active: f == c.active})
	}
	return out
}

// Click activates filter. Clicking the active toggle or an unknown id does nothing.
func (c *FilterControls) Click(filter FilterType) {
	if !filter.Valid() || filter == c.active {
		return
	}
	c.active = filter
	if c.onChange != nil {
		c.onChange(filter)
	}
}
