package session

import "fmt"

// Navigator is a bounds-checked pointer over the ordered question list.
// Next and Previous clamp at the boundaries: pressing "Next" on the last
// question does nothing rather than failing loudly.
type Navigator struct {
	index int
	count int
}

func NewNavigator(count int) *Navigator {
	return &Navigator{count: count}
}

func (n *Navigator) Index() int {
	return n.index
}

func (n *Navigator) Next() {
	if n.index < n.count-1 {
		n.index++
	}
}

func (n *Navigator) Previous() {
	if n.index > 0 {
		n.index--
	}
}

// JumpTo moves directly to index, failing if it is outside [0, count-1].
func (n *Navigator) JumpTo(index int) error {
	if index < 0 || index >= n.count {
		return fmt.Errorf("index %d not in [0, %d]: %w", index, n.count-1, ErrOutOfRange)
	}
	n.index = index
	return nil
}
