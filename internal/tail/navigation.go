package tail

import (
	"strings"
)

// Every navigation action cancels tailing before it moves the cursor.

func (c *Controller) navigate(move func(n int)) {
	c.StopTailing()
	n := c.engine.View().Len()
	if n == 0 {
		c.selected = -1
		c.offset = 0
		return
	}
	move(n)
	c.reveal()
}

func (c *Controller) MoveUp(rows int) {
	c.navigate(func(int) { c.selected = max(0, c.selected-max(1, rows)) })
}

func (c *Controller) MoveDown(rows int) {
	c.navigate(func(n int) { c.selected = min(n-1, c.selected+max(1, rows)) })
}

func (c *Controller) PageUp() { c.MoveUp(c.height) }
func (c *Controller) PageDown() { c.MoveDown(c.height) }
func (c *Controller) HalfPageUp() { c.MoveUp(c.height / 2) }
func (c *Controller) HalfPageDown() { c.MoveDown(c.height / 2) }

func (c *Controller) Top() {
	c.navigate(func(int) { c.selected = 0 })
}

// Bottom selects the last entry without resuming tailing.
func (c *Controller) Bottom() {
	c.navigate(func(n int) { c.selected = n - 1 })
}

// JumpToLine selects the entry for lineNumber, or the nearest shown entry
// when that line is filtered out, and centres it in the window.
func (c *Controller) JumpToLine(lineNumber int) error {
	if !c.open {
		return ErrNoFileOpen
	}
	if c.engine.View().Len() == 0 {
		c.StopTailing()
		return ErrNoSelection
	}
	c.navigate(func(int) {
		c.selected = c.engine.View().Nearest(lineNumber)
		c.offset = max(0, c.selected-c.height/2)
	})
	return nil
}

// Search sets the query and moves to the first hit at or after the cursor,
// wrapping around. It reports whether any entry in the view matches.
func (c *Controller) Search(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		c.clearSearch()
		return false
	}
	c.search = query
	c.searchAt = 0
	return c.seek(0, 1)
}

// NextMatch moves to the next search hit after the cursor.
func (c *Controller) NextMatch() bool { return c.seek(1, 1) }

// PrevMatch moves to the previous search hit before the cursor.
func (c *Controller) PrevMatch() bool { return c.seek(-1, -1) }

func (c *Controller) SearchQuery() string { return c.search }

func (c *Controller) ClearSearch() { c.clearSearch() }

func (c *Controller) clearSearch() {
	c.search = ""
	c.searchCount = 0
	c.searchAt = 0
}

// IsSearchHit reports whether raw contains the active query.
func (c *Controller) IsSearchHit(raw string) bool {
	return c.search != "" && strings.Contains(strings.ToLower(raw), strings.ToLower(c.search))
}

// SearchHits counts view entries matching the query. The count is cached
// until the view changes.
func (c *Controller) SearchHits() int {
	if c.search == "" {
		return 0
	}
	if c.searchAt == c.engine.Version()+1 {
		return c.searchCount
	}
	count := 0
	for _, e := range c.engine.View().Entries() {
		if c.IsSearchHit(e.RawLine) {
			count++
		}
	}
	c.searchCount = count
	c.searchAt = c.engine.Version() + 1
	return count
}

// seek scans from the cursor plus start in direction step, wrapping once.
func (c *Controller) seek(start, step int) bool {
	if c.search == "" {
		return false
	}
	v := c.engine.View()
	n := v.Len()
	if n == 0 {
		return false
	}
	from := max(c.selected, 0) + start
	for i := 0; i < n; i++ {
		idx := ((from+i*step)%n + n) % n
		if c.IsSearchHit(v.At(idx).RawLine) {
			c.navigate(func(int) { c.selected = idx })
			return true
		}
	}
	return false
}
