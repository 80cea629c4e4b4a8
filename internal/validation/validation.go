package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidInterval     ConflictType = "invalid_interval"
	ConflictDuplicateSlotID     ConflictType = "duplicate_slot_id"
	ConflictOverlappingCategory ConflictType = "overlapping_category"
	ConflictUnknownCategory     ConflictType = "unknown_category"
)

// Conflict represents a detected problem in a set of slots
type Conflict struct {
	Type        ConflictType
	Description string
	SlotIDs     []models.ID
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks slot data reported by an authority
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateSlots reports broken intervals, repeated ids, slots pointing at
// unknown categories and overlapping slots within one category. Categories
// may be nil to skip the category check.
func (v *Validator) ValidateSlots(slots []models.TimeSlot, categories []models.Category) ValidationResult {
	var result ValidationResult

	seen := make(map[models.ID]bool, len(slots))
	for _, s := range slots {
		if !s.Start.Before(s.End) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidInterval,
				Description: fmt.Sprintf("slot %s (%s) ends before it starts", s.ID, s.Title),
				SlotIDs:     []models.ID{s.ID},
			})
		}
		if seen[s.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateSlotID,
				Description: fmt.Sprintf("slot id %s appears more than once", s.ID),
				SlotIDs:     []models.ID{s.ID},
			})
		}
		seen[s.ID] = true
	}

	if categories != nil {
		known := make(map[models.ID]bool, len(categories))
		for _, c := range categories {
			known[c.ID] = true
		}
		for _, s := range slots {
			if !known[s.Category] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictUnknownCategory,
					Description: fmt.Sprintf("slot %s references unknown category %s", s.ID, s.Category),
					SlotIDs:     []models.ID{s.ID},
				})
			}
		}
	}

	result.Conflicts = append(result.Conflicts, v.overlapsByCategory(slots)...)
	return result
}

func (v *Validator) overlapsByCategory(slots []models.TimeSlot) []Conflict {
	byCategory := make(map[models.ID][]models.TimeSlot)
	var order []models.ID
	for _, s := range slots {
		if !s.Start.Before(s.End) {
			continue
		}
		if _, ok := byCategory[s.Category]; !ok {
			order = append(order, s.Category)
		}
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}

	var conflicts []Conflict
	for _, cat := range order {
		group := byCategory[cat]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Start.Before(group[j].Start) })
		for i := 1; i < len(group); i++ {
			prev, cur := group[i-1], group[i]
			if cur.Start.Before(prev.End) {
				conflicts = append(conflicts, Conflict{
					Type: ConflictOverlappingCategory,
					Description: fmt.Sprintf("slots %s and %s overlap in category %s (%s)",
						prev.ID, cur.ID, cat, cur.Start.Format(constants.DateTimeFormat)),
					SlotIDs: []models.ID{prev.ID, cur.ID},
				})
			}
		}
	}
	return conflicts
}
