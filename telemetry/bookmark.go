package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFlockFormed     BookmarkType = "flock_formed"
	BookmarkPortalSurge     BookmarkType = "portal_surge"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkCeilingReached  BookmarkType = "ceiling_reached"
	BookmarkSteadyFlock     BookmarkType = "steady_flock"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable windows: the flock snapping into alignment,
// bursts of portal traffic, population crashes, hitting the spawn ceiling, and
// long stretches of steady behaviour.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPeak   int  // peak population in recent history
	ceilingFired bool // ceiling bookmark fires once per stretch of drops
	steadyCount  int  // consecutive windows with stable population and order
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady flock detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkFlockFormed,
			bd.checkPortalSurge,
			bd.checkPopulationCrash,
			bd.checkSteadyFlock,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	// Ceiling needs no history
	if b := bd.checkCeiling(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns past windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkFlockFormed(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Free < 5 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.Order
	}
	avg := total / float64(len(history))

	if stats.Order > 0.8 && avg < 0.5 {
		return &Bookmark{
			Type:        BookmarkFlockFormed,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Order %.2f up from average %.2f", stats.Order, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPortalSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Teleports
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.Teleports) > avg*2.0 && stats.Teleports >= 5 {
		return &Bookmark{
			Type:        BookmarkPortalSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d teleports, %.1fx average (%.1f)", stats.Teleports, float64(stats.Teleports)/max(avg, 1), avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if drop > 0.30 && stats.Population < bd.recentPeak-10 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population fell %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCeiling(stats WindowStats) *Bookmark {
	if stats.Dropped == 0 {
		bd.ceilingFired = false
		return nil
	}
	if bd.ceilingFired {
		return nil
	}
	bd.ceilingFired = true
	return &Bookmark{
		Type:        BookmarkCeilingReached,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d spawn batches dropped at population %d", stats.Dropped, stats.Population),
	}
}

func (bd *BookmarkDetector) checkSteadyFlock(stats WindowStats) *Bookmark {
	if stats.Population < 5 {
		bd.steadyCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var popSum, orderSum float64
	for _, h := range recent {
		popSum += float64(h.Population)
		orderSum += h.Order
	}
	popMean := popSum / 4
	orderMean := orderSum / 4

	var popVar, orderVar float64
	for _, h := range recent {
		dp := float64(h.Population) - popMean
		do := h.Order - orderMean
		popVar += dp * dp
		orderVar += do * do
	}
	popVar /= 4
	orderVar /= 4

	popCV2 := 0.0
	if popMean > 0 {
		popCV2 = popVar / (popMean * popMean)
	}

	if popCV2 < 0.04 && orderVar < 0.01 {
		bd.steadyCount++
	} else {
		bd.steadyCount = 0
	}

	if bd.steadyCount == 5 {
		return &Bookmark{
			Type:        BookmarkSteadyFlock,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady flock of %d with order %.2f over 5+ windows", stats.Population, stats.Order),
		}
	}
	return nil
}
