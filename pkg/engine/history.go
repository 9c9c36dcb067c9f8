package engine

import . "github.com/pelicanchess/pelican/pkg/common"

const historyMax = 1 << 14

// mainHistory is indexed by side, from and to square. Each thread owns
// its table, so updates need no synchronization.
type historyTable [2 << 12]int16

func (h *historyTable) Read(side bool, m Move) int {
	return int(h[sideFromToIndex(side, m)])
}

// Update rewards the quiet move that caused a beta cutoff and punishes
// the quiets searched before it.
func (h *historyTable) Update(quietsSearched []Move, bestMove Move, side bool, depth int) {
	var bonus = Min(depth*depth, 400)
	for _, m := range quietsSearched {
		var good = m == bestMove
		updateHistory(&h[sideFromToIndex(side, m)], bonus, good)
		if good {
			break
		}
	}
}

func (h *historyTable) Clear() {
	for i := range h {
		h[i] = 0
	}
}

// Exponential moving average
func updateHistory(v *int16, bonus int, good bool) {
	var newVal int
	if good {
		newVal = historyMax
	} else {
		newVal = -historyMax
	}
	*v += int16((newVal - int(*v)) * bonus / 512)
}

func sideFromToIndex(side bool, move Move) int {
	var result = (move.From() << 6) | move.To()
	if side {
		result |= 1 << 12
	}
	return result
}
