package detect

import (
	"time"

	"github.com/vanshika/ringtrace/backend/internal/graph"
)

// Smurfing hit roles.
const (
	RoleFanIn  = "fan_in"
	RoleFanOut = "fan_out"
)

const (
	fanPartnerThreshold = 10
	slidingWindow       = 72 * time.Hour
	burstWindow         = 24 * time.Hour
)

// SmurfingHit flags an account funnelling value across many partners.
// MaxWindowCount is the peak transaction count inside any 72h interval,
// BurstCount the peak inside any 24h interval.
type SmurfingHit struct {
	Hub            string
	Role           string
	Partners       []string
	MaxWindowCount int
	BurstCount     int
}

// DetectSmurfing scans non-legitimate accounts for fan-in and fan-out
// hubs. An account reaching the partner threshold in both directions
// yields two hits.
func DetectSmurfing(g *graph.Graph, legitimate map[string]string) []SmurfingHit {
	hits := make([]SmurfingHit, 0)

	for _, id := range g.Accounts {
		if _, ok := legitimate[id]; ok {
			continue
		}
		senders := g.InNeighbors(id)
		receivers := g.OutNeighbors(id)
		if len(senders) < fanPartnerThreshold && len(receivers) < fanPartnerThreshold {
			continue
		}

		stats := g.Stats[id]
		windowCount := maxInWindow(stats.Timestamps, slidingWindow)
		burstCount := maxInWindow(stats.Timestamps, burstWindow)

		if len(senders) >= fanPartnerThreshold {
			hits = append(hits, SmurfingHit{
				Hub:            id,
				Role:           RoleFanIn,
				Partners:       senders,
				MaxWindowCount: windowCount,
				BurstCount:     burstCount,
			})
		}
		if len(receivers) >= fanPartnerThreshold {
			hits = append(hits, SmurfingHit{
				Hub:            id,
				Role:           RoleFanOut,
				Partners:       receivers,
				MaxWindowCount: windowCount,
				BurstCount:     burstCount,
			})
		}
	}

	return hits
}

// maxInWindow computes the largest number of timestamps that fit inside
// any contiguous interval of the given width. Input must be ascending.
func maxInWindow(times []time.Time, window time.Duration) int {
	best := 0
	left := 0
	for right := range times {
		for times[right].Sub(times[left]) > window {
			left++
		}
		if count := right - left + 1; count > best {
			best = count
		}
	}
	return best
}
