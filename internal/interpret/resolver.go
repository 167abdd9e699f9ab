package interpret

import (
	"log"
	"sort"
	"strings"

	"github.com/GasiorMateusz/dietplanner/internal/plan"
)

// ResolveCurrent derives the conversation's current plan from its ordered
// turn sequence. It is a pure function of its inputs: the same turns always
// yield a structurally identical result, and the sequence is never mutated.
//
// In single-day mode only the most recent assistant turn counts. In
// multi-day mode the most recent assistant turn carrying a multi-day payload
// counts; its day fragments are deduplicated by day number (last occurrence
// wins), sorted ascending, and the day count is recomputed from the days
// actually present rather than trusted from the source text.
//
// A nil result means no valid plan exists yet: no assistant turn, nothing
// structured in the relevant turn, or a strict extraction failure. Strict
// failures are logged as diagnostics, never propagated, since the UI hides
// the plan panel instead of erroring.
func ResolveCurrent(turns []plan.ChatTurn, mode Shape) *Outcome {
	if mode == ShapeMultiDay {
		return resolveMulti(turns)
	}
	return resolveSingle(turns, mode)
}

func resolveSingle(turns []plan.ChatTurn, hint Shape) *Outcome {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != plan.RoleAssistant {
			continue
		}
		out, err := Route(turns[i].Content, hint)
		if err != nil {
			log.Printf("interpret: plan extraction failed on latest assistant turn: %v", err)
			return nil
		}
		if out.Multi != nil {
			// The message was multi-day shaped; the structural
			// signature wins over the mode.
			return normalizeMulti(out)
		}
		if out.Day == nil || IsUnstructured(*out.Day, turns[i].Content) {
			return nil
		}
		return &out
	}
	return nil
}

func resolveMulti(turns []plan.ChatTurn) *Outcome {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != plan.RoleAssistant || !hasMultiDayPayload(turns[i].Content) {
			continue
		}
		out, err := Route(turns[i].Content, ShapeMultiDay)
		if err != nil {
			log.Printf("interpret: multi-day extraction failed: %v", err)
			return nil
		}
		if out.Multi == nil || len(out.Multi.Days) == 0 {
			return nil
		}
		return normalizeMulti(out)
	}
	return nil
}

func hasMultiDayPayload(raw string) bool {
	return strings.Contains(raw, `"`+keyMultiDay+`"`) ||
		strings.Contains(raw, "<"+tagMultiDay+">")
}

// normalizeMulti enforces the multi-day presentation invariants on a routed
// outcome: unique day numbers (last occurrence kept), ascending order, and a
// recomputed day count. The averages stay as parsed from the source text.
func normalizeMulti(out Outcome) *Outcome {
	if out.Multi == nil || len(out.Multi.Days) == 0 {
		return nil
	}
	byNumber := make(map[int]plan.Day, len(out.Multi.Days))
	for _, d := range out.Multi.Days {
		byNumber[d.DayNumber] = d
	}
	days := make([]plan.Day, 0, len(byNumber))
	for _, d := range byNumber {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	out.Multi.Days = days
	out.Multi.Summary.NumberOfDays = len(days)
	return &out
}
