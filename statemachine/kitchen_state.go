package statemachine

import (
	"fmt"

	"tiffin-market-api/models"
)

// adminTargets are the statuses an admin may move a kitchen into. Transitions
// are re-enterable: an approved kitchen may later be suspended and an
// earlier rejection may be reversed. "pending" is only ever the initial
// state, never a target.
var adminTargets = map[models.KitchenStatus]bool{
	models.KitchenApproved:  true,
	models.KitchenRejected:  true,
	models.KitchenSuspended: true,
}

// CanReview validates an admin approval-state change.
func CanReview(from, to models.KitchenStatus) error {
	if !adminTargets[to] {
		return fmt.Errorf("invalid kitchen status %q: must be approved, rejected or suspended", to)
	}
	if from == to {
		return fmt.Errorf("kitchen is already %s", to)
	}
	return nil
}

// ActivatesKitchen reports whether the target status makes the kitchen
// visible to customers.
func ActivatesKitchen(to models.KitchenStatus) bool {
	return to == models.KitchenApproved
}
