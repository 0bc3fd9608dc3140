package tail

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/five82/logtrail/internal/filter"
)

// Filter and context mutators. Each one that changes the settings triggers
// exactly one RebuildAll; no-op changes trigger none.

func (c *Controller) AddFilter(p filter.Predicate) filter.ID {
	id := c.filters.Toggles().Add(p)
	c.settingsChanged("add filter " + p.String())
	return id
}

func (c *Controller) RemoveFilter(id filter.ID) bool {
	return c.applyIf(c.filters.Toggles().Remove(id), "remove filter")
}

func (c *Controller) ToggleFilter(id filter.ID) bool {
	return c.applyIf(c.filters.Toggles().Toggle(id), "toggle filter")
}

// ToggleFilterAt flips the filter at a 0-based position in the toggle set.
func (c *Controller) ToggleFilterAt(pos int) bool {
	items := c.filters.Toggles().Items()
	if pos < 0 || pos >= len(items) {
		return false
	}
	return c.ToggleFilter(items[pos].ID)
}

func (c *Controller) AddToExpression(p filter.Predicate) filter.ID {
	id := c.filters.Expression().Add(p)
	c.settingsChanged("narrow " + p.String())
	return id
}

func (c *Controller) RemoveFromExpression(id filter.ID) bool {
	return c.applyIf(c.filters.Expression().Remove(id), "widen expression")
}

// PopExpression removes the most recently added expression predicate.
func (c *Controller) PopExpression() bool {
	items := c.filters.Expression().Items()
	if len(items) == 0 {
		return false
	}
	return c.RemoveFromExpression(items[len(items)-1].ID)
}

// ClearFilters empties both the toggle set and the expression.
func (c *Controller) ClearFilters() bool {
	if c.filters.Toggles().Len() == 0 && c.filters.Expression().IsEmpty() {
		return false
	}
	c.filters.Toggles().Clear()
	c.filters.Expression().Clear()
	c.settingsChanged("clear filters")
	return true
}

func (c *Controller) IncreaseContext() bool {
	return c.applyIf(c.filters.IncreaseContext(), "context up")
}

func (c *Controller) DecreaseContext() bool {
	return c.applyIf(c.filters.DecreaseContext(), "context down")
}

func (c *Controller) SetContextLines(n int) bool {
	return c.applyIf(c.filters.SetContextLines(n), "set context")
}

// ApplyPreset replaces the toggle set and context setting in one step.
func (c *Controller) ApplyPreset(preds []filter.Predicate, contextLines int) {
	c.filters.Toggles().Clear()
	c.filters.Expression().Clear()
	for _, p := range preds {
		c.filters.Toggles().Add(p)
	}
	c.filters.SetContextLines(contextLines)
	c.settingsChanged("apply preset")
}

// PromoteSearch turns the active search into an expression predicate.
func (c *Controller) PromoteSearch() error {
	if c.search == "" {
		return ErrNoSearch
	}
	query := c.search
	c.clearSearch()
	c.AddToExpression(filter.Text(query))
	return nil
}

// NarrowToSelected adds an expression predicate built from the selected
// entry: same logger, same level, after its timestamp or after its frame.
func (c *Controller) NarrowToSelected(kind filter.Kind) error {
	e, ok := c.SelectedEntry()
	if !ok {
		return ErrNoSelection
	}

	var p filter.Predicate
	switch kind {
	case filter.LoggerEquals:
		p = filter.Logger(e.Category)
	case filter.LoggerContains:
		p = filter.LoggerLike(e.Category)
	case filter.LevelEquals:
		if e.Level == "" {
			return fmt.Errorf("level: %w", ErrFieldMissing)
		}
		p = filter.Level(e.Level)
	case filter.TimestampAfter:
		if !e.HasTimestamp() {
			return fmt.Errorf("timestamp: %w", ErrFieldMissing)
		}
		p = filter.After(e.Timestamp)
	case filter.FrameAfter:
		if !e.HasFrame {
			return fmt.Errorf("frame: %w", ErrFieldMissing)
		}
		p = filter.AfterFrame(e.Frame)
	case filter.TextContains:
		p = filter.Text(e.Message)
	default:
		return fmt.Errorf("unsupported filter kind %v", kind)
	}
	c.AddToExpression(p)
	return nil
}

func (c *Controller) applyIf(changed bool, reason string) bool {
	if changed {
		c.settingsChanged(reason)
	}
	return changed
}

// settingsChanged rebuilds the view once and keeps the cursor on the same
// line where possible. While tailing the cursor follows the end instead.
func (c *Controller) settingsChanged(reason string) {
	anchor := c.selectedLine()
	c.engine.RebuildAll()
	c.log.WithFields(logrus.Fields{
		"reason":  reason,
		"visible": c.engine.View().Len(),
		"context": c.filters.ContextLines(),
	}).Debug("rebuilt view")

	if c.state.AutoScrollEnabled {
		c.scrollToEnd(c.now())
		return
	}
	c.restoreSelection(anchor)
}
