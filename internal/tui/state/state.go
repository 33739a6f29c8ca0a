package state

// chromeLines is the number of rows the title, toolbar, message panel and
// footer take around the body.
const chromeLines = 6

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// BodyHeight is the number of body rows that fit the terminal.
func BodyHeight(height int, editing bool) int {
	if height <= 0 {
		return 20
	}
	used := chromeLines
	if editing {
		used++
	}
	if h := height - used; h > 3 {
		return h
	}
	return 3
}

func PageStep(height int, editing bool) int {
	return max(1, BodyHeight(height, editing)-2)
}

// ClampTop keeps the scroll offset inside the body.
func ClampTop(top, totalLines, bodyHeight int) int {
	maxTop := totalLines - bodyHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		return maxTop
	}
	if top < 0 {
		return 0
	}
	return top
}

// RevealLine returns the scroll offset that keeps line in view, moving as
// little as possible.
func RevealLine(top, line, bodyHeight int) int {
	if line < 0 || bodyHeight <= 0 {
		return top
	}
	if line < top {
		return line
	}
	if line >= top+bodyHeight {
		return line - bodyHeight + 1
	}
	return top
}

// CycleLink moves the link selection by delta, wrapping around. -1 means no
// link is selected.
func CycleLink(cursor, total, delta int) int {
	if total <= 0 {
		return -1
	}
	if cursor < 0 {
		if delta < 0 {
			return total - 1
		}
		return 0
	}
	next := (cursor + delta) % total
	if next < 0 {
		next += total
	}
	return next
}

// History is the stack of visited fragments; the last entry is the current
// screen.
type History struct {
	entries []string
}

func (h *History) Push(fragment string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == fragment {
		return
	}
	h.entries = append(h.entries, fragment)
}

// Back drops the current screen and returns the one before it.
func (h *History) Back() (string, bool) {
	if len(h.entries) < 2 {
		return "", false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

func (h *History) Len() int {
	return len(h.entries)
}
