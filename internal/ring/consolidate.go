package ring

import (
	"fmt"
	"math"
	"sort"

	"github.com/vanshika/ringtrace/backend/internal/detect"
	"github.com/vanshika/ringtrace/backend/internal/domain"
)

const (
	scoreCap         = 100.0
	headroomDivisor  = 120.0
	overlapThreshold = 0.85
	minEmitScore     = 1.0
	velocityMinBurst = 6
)

// Result is the consolidated output of all three detectors.
type Result struct {
	Accounts []domain.SuspiciousAccount
	Rings    []domain.FraudRing
}

type accountState struct {
	score float64
	tags  map[string]struct{}
}

type candidate struct {
	patternType string
	members     []string
	memberSet   map[string]struct{}
	evidence    domain.RingEvidence
	order       int
	risk        int
}

// Consolidate merges detector hits into rings, scores every implicated
// account with diminishing-returns accumulation, deduplicates rings by
// member overlap, and assigns dense ring identifiers.
func Consolidate(hits Hits, legitimate map[string]string) Result {
	c := &consolidator{
		legitimate: legitimate,
		states:     make(map[string]*accountState),
	}

	c.applyCycles(hits.Cycles)
	c.applySmurfing(hits.Smurfing)
	c.applyShells(hits.Shells)
	c.applyPeripherals()

	rings := c.assembleRings()
	accounts := c.assembleAccounts(rings)

	return Result{Accounts: accounts, Rings: rings}
}

// Hits carries the raw detector outputs into consolidation.
type Hits struct {
	Cycles   []detect.CycleHit
	Smurfing []detect.SmurfingHit
	Shells   []detect.ShellHit
}

type peripheral struct {
	account      string
	tag          string
	contribution float64
}

type consolidator struct {
	legitimate  map[string]string
	states      map[string]*accountState
	candidates  []candidate
	peripherals []peripheral
}

// flag applies one scoring contribution with diminishing returns and
// records the pattern tag. Legitimate accounts are never flagged.
func (c *consolidator) flag(account, tag string, contribution float64) {
	if _, ok := c.legitimate[account]; ok {
		return
	}
	state, ok := c.states[account]
	if !ok {
		state = &accountState{tags: make(map[string]struct{})}
		c.states[account] = state
	}
	state.tags[tag] = struct{}{}
	next := state.score + contribution*(1-state.score/headroomDivisor)
	state.score = math.Min(scoreCap, math.Max(0, next))
}

func (c *consolidator) addCandidate(patternType string, members []string, evidence domain.RingEvidence) {
	unique := make([]string, 0, len(members))
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, ok := c.legitimate[m]; ok {
			continue
		}
		if _, ok := set[m]; ok {
			continue
		}
		set[m] = struct{}{}
		unique = append(unique, m)
	}
	if len(unique) == 0 {
		return
	}
	if patternType != domain.PatternSmurfing && len(unique) < 2 {
		return
	}
	c.candidates = append(c.candidates, candidate{
		patternType: patternType,
		members:     unique,
		memberSet:   set,
		evidence:    evidence,
		order:       len(c.candidates),
	})
}

func cycleBase(length int) float64 {
	switch length {
	case 3:
		return 85
	case 4:
		return 80
	case 5:
		return 75
	default:
		return 70
	}
}

func cycleLengthTag(length int) string {
	switch length {
	case 3:
		return domain.TagCycleLength3
	case 4:
		return domain.TagCycleLength4
	default:
		return domain.TagCycleLength5
	}
}

func (c *consolidator) applyCycles(cycles []detect.CycleHit) {
	for _, cycle := range cycles {
		length := cycle.Length()
		base := cycleBase(length)
		span := cycle.SpanHours()
		decay := cycle.AmountDecay()

		for _, member := range cycle.Members {
			c.flag(member, cycleLengthTag(length), base)
			if span <= 72 {
				c.flag(member, domain.TagTemporalBurst72h, 8)
			} else if span <= 168 {
				c.flag(member, domain.TagTemporalBurstWeek, 4)
			}
			if decay {
				c.flag(member, domain.TagAmountDecay, 6)
			}
		}

		c.addCandidate(domain.PatternCycle, cycle.Members, domain.RingEvidence{
			CycleLength: length,
			SpanHours:   span,
			AmountDecay: decay,
		})
	}
}

func hubScore(partnerCount, windowCount int) float64 {
	score := 40 + float64(partnerCount-10)*3 + float64(windowCount)*2
	return math.Min(scoreCap, score)
}

func (c *consolidator) applySmurfing(hits []detect.SmurfingHit) {
	velocityApplied := make(map[string]struct{})

	for _, hit := range hits {
		score := hubScore(len(hit.Partners), hit.MaxWindowCount)

		hubTag := domain.TagFanInHub
		peripheralTag := domain.TagFanInContributor
		if hit.Role == detect.RoleFanOut {
			hubTag = domain.TagFanOutHub
			peripheralTag = domain.TagFanOutReceiver
		}
		c.flag(hit.Hub, hubTag, score)

		if hit.BurstCount >= velocityMinBurst {
			if _, ok := velocityApplied[hit.Hub]; !ok {
				velocityApplied[hit.Hub] = struct{}{}
				c.flag(hit.Hub, domain.TagHighVelocity, float64(hit.BurstCount)*1.5)
			}
		}

		for _, partner := range hit.Partners {
			if _, ok := c.legitimate[partner]; ok {
				continue
			}
			c.peripherals = append(c.peripherals, peripheral{
				account:      partner,
				tag:          peripheralTag,
				contribution: 0.3 * score,
			})
		}

		c.addCandidate(domain.PatternSmurfing, []string{hit.Hub}, domain.RingEvidence{
			HubAccount:   hit.Hub,
			Role:         hit.Role,
			PartnerCount: len(hit.Partners),
			WindowCount:  hit.MaxWindowCount,
		})
	}
}

func (c *consolidator) applyShells(hits []detect.ShellHit) {
	for _, hit := range hits {
		interiors := len(hit.ShellInteriors)
		hops := hit.HopCount()
		contribution := 0.5 * (55 + 10*float64(interiors) + 2*float64(hops))

		for _, member := range hit.Path {
			c.flag(member, domain.TagShellChainMember, contribution)
		}

		c.addCandidate(domain.PatternShell, hit.Path, domain.RingEvidence{
			Path:           hit.Path,
			ShellInteriors: interiors,
		})
	}
}

func (c *consolidator) applyPeripherals() {
	for _, p := range c.peripherals {
		c.flag(p.account, p.tag, p.contribution)
	}
}

func (c *consolidator) roundedScore(account string) int {
	state, ok := c.states[account]
	if !ok {
		return 0
	}
	return int(math.Round(state.score))
}

// assembleRings computes ring risk, deduplicates by member overlap
// within each pattern type, and renumbers survivors densely.
func (c *consolidator) assembleRings() []domain.FraudRing {
	ordered := make([]candidate, len(c.candidates))
	copy(ordered, c.candidates)
	for i := range ordered {
		risk := 0
		for _, m := range ordered[i].members {
			if s := c.roundedScore(m); s > risk {
				risk = s
			}
		}
		ordered[i].risk = risk
	}

	// Dedup precedence: higher risk wins, then larger member count,
	// then earlier construction.
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].risk != ordered[j].risk {
			return ordered[i].risk > ordered[j].risk
		}
		if len(ordered[i].members) != len(ordered[j].members) {
			return len(ordered[i].members) > len(ordered[j].members)
		}
		return ordered[i].order < ordered[j].order
	})

	var kept []candidate
	for _, cand := range ordered {
		duplicate := false
		for _, existing := range kept {
			if existing.patternType != cand.patternType {
				continue
			}
			if memberOverlap(cand.memberSet, existing.memberSet) > overlapThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, cand)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].risk != kept[j].risk {
			return kept[i].risk > kept[j].risk
		}
		return smallestMember(kept[i].members) < smallestMember(kept[j].members)
	})

	rings := make([]domain.FraudRing, 0, len(kept))
	for i, cand := range kept {
		members := make([]string, len(cand.members))
		copy(members, cand.members)
		sort.Strings(members)
		rings = append(rings, domain.FraudRing{
			RingID:         fmt.Sprintf("R%03d", i+1),
			PatternType:    cand.patternType,
			MemberAccounts: members,
			RiskScore:      cand.risk,
			Evidence:       cand.evidence,
		})
	}
	return rings
}

func (c *consolidator) assembleAccounts(rings []domain.FraudRing) []domain.SuspiciousAccount {
	ringByAccount := make(map[string]string)
	for _, r := range rings {
		for _, m := range r.MemberAccounts {
			if _, ok := ringByAccount[m]; !ok {
				ringByAccount[m] = r.RingID
			}
		}
	}

	accounts := make([]domain.SuspiciousAccount, 0, len(c.states))
	for id, state := range c.states {
		if state.score < minEmitScore {
			continue
		}
		tags := make([]string, 0, len(state.tags))
		for tag := range state.tags {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		var ringID *string
		if rid, ok := ringByAccount[id]; ok {
			assigned := rid
			ringID = &assigned
		}

		accounts = append(accounts, domain.SuspiciousAccount{
			AccountID:        id,
			SuspicionScore:   int(math.Round(state.score)),
			RingID:           ringID,
			DetectedPatterns: tags,
		})
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].SuspicionScore != accounts[j].SuspicionScore {
			return accounts[i].SuspicionScore > accounts[j].SuspicionScore
		}
		return accounts[i].AccountID < accounts[j].AccountID
	})

	return accounts
}

func memberOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	intersection := 0
	for m := range small {
		if _, ok := large[m]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(len(small))
}

func smallestMember(members []string) string {
	smallest := members[0]
	for _, m := range members[1:] {
		if m < smallest {
			smallest = m
		}
	}
	return smallest
}
