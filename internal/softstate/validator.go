package softstate

import (
	"fmt"
	"sort"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
)

// reputationDeltaCap bounds how far reputation may move per matchday.
const reputationDeltaCap = 5

// fieldRule describes one writable field.
type fieldRule struct {
	min, max int
	// deltaCapped limits the per-matchday change to reputationDeltaCap.
	deltaCapped bool
}

var playerFields = map[string]fieldRule{
	"form":       {min: 0, max: 100},
	"morale":     {min: 0, max: 100},
	"fitness":    {min: 0, max: 100},
	"reputation": {min: 1, max: 100, deltaCapped: true},
}

var teamFields = map[string]fieldRule{
	"morale":               {min: 0, max: 100},
	"tactical_familiarity": {min: 0, max: 100},
	"reputation":           {min: 1, max: 100, deltaCapped: true},
}

var ownerFields = map[string]fieldRule{
	"public_approval": {min: 0, max: 100},
}

var staffFields = map[string]fieldRule{
	"team_rapport": {min: 0, max: 100},
}

// derivedFields are never LLM-writable; proposals naming them are dropped.
var derivedFields = map[string]bool{
	"recent_form":  true,
	"head_to_head": true,
}

// Validate clamps and sanity-checks a proposal batch against the world.
//
// Accepted proposals come back as softstate.updated payloads in stable
// (target id, field) order; rejected ones become validation_failed payloads.
// Validation is pure: it reads the world and never mutates it.
func Validate(world *domain.World, phase Phase, proposals []Proposal) ([]*event.SoftStateUpdatedPayload, []*event.ValidationFailedPayload) {
	ordered := make([]Proposal, len(proposals))
	copy(ordered, proposals)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TargetID != ordered[j].TargetID {
			return ordered[i].TargetID < ordered[j].TargetID
		}
		return ordered[i].Field < ordered[j].Field
	})

	var accepted []*event.SoftStateUpdatedPayload
	var rejected []*event.ValidationFailedPayload

	reject := func(p Proposal, reason string) {
		rejected = append(rejected, &event.ValidationFailedPayload{
			TargetKind: p.TargetKind,
			TargetID:   p.TargetID,
			Field:      p.Field,
			Reason:     reason,
		})
	}

	for _, p := range ordered {
		if derivedFields[p.Field] {
			reject(p, fmt.Sprintf("field %s is derived and not writable", p.Field))
			continue
		}

		var (
			rules   map[string]fieldRule
			current int
			found   bool
		)
		switch p.TargetKind {
		case "player":
			rules = playerFields
			if player, ok := world.Player(p.TargetID); ok {
				found = true
				current = playerFieldValue(player, p.Field)
			}
		case "team":
			rules = teamFields
			if team, ok := world.Team(p.TargetID); ok {
				found = true
				current = teamFieldValue(team, p.Field)
			}
		case "owner":
			rules = ownerFields
			if owner, ok := world.Owners[p.TargetID]; ok {
				found = true
				current = owner.PublicApproval
			}
		case "staff":
			rules = staffFields
			if staff, ok := world.Staff[p.TargetID]; ok {
				found = true
				current = staff.TeamRapport
			}
		default:
			reject(p, fmt.Sprintf("unknown target kind %q", p.TargetKind))
			continue
		}

		if !found {
			reject(p, fmt.Sprintf("unknown %s %q", p.TargetKind, p.TargetID))
			continue
		}
		rule, ok := rules[p.Field]
		if !ok {
			reject(p, fmt.Sprintf("field %s is not writable on %s", p.Field, p.TargetKind))
			continue
		}

		value := p.Value
		if rule.deltaCapped {
			if value > current+reputationDeltaCap {
				value = current + reputationDeltaCap
			}
			if value < current-reputationDeltaCap {
				value = current - reputationDeltaCap
			}
		}
		if value < rule.min {
			value = rule.min
		}
		if value > rule.max {
			value = rule.max
		}
		if value != p.Value {
			// The clamped value still applies, but the out-of-bounds proposal
			// leaves a validation record behind.
			reject(p, fmt.Sprintf("value %d outside bounds; clamped to %d", p.Value, value))
		}

		accepted = append(accepted, &event.SoftStateUpdatedPayload{
			TargetKind: p.TargetKind,
			TargetID:   p.TargetID,
			Field:      p.Field,
			Value:      value,
			Proposed:   p.Value,
			Phase:      string(phase),
			Reason:     p.Reason,
		})
	}

	return accepted, rejected
}

func playerFieldValue(p *domain.Player, field string) int {
	switch field {
	case "form":
		return p.Form
	case "morale":
		return p.Morale
	case "fitness":
		return p.Fitness
	case "reputation":
		return p.Reputation
	}
	return 0
}

func teamFieldValue(t *domain.Team, field string) int {
	switch field {
	case "morale":
		return t.Morale
	case "tactical_familiarity":
		return t.TacticalFamiliarity
	case "reputation":
		return t.Reputation
	}
	return 0
}
