package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
	"github.com/oxygn-cloud-ai/cascade/pkg/ports"
)

// Plan is the ordered execution schedule for a cascade: breadth-first level
// groups below the root, with eligibility already applied. Level 0 holds the
// root's direct children; the root itself is conversation context and never
// a generation target.
type Plan struct {
	RootID domain.NodeID

	// Levels holds only non-empty levels, in depth order. Node order within
	// a level equals the provider's child ordering.
	Levels [][]domain.Node

	// Skipped records every node excluded by eligibility rules, in traversal
	// order. Fixed once planning completes.
	Skipped []domain.SkippedNode

	// TotalNodes is the count of eligible nodes across all levels.
	TotalNodes int
}

// PlanLevels walks the tree breadth-first from rootID and groups eligible
// descendants by depth.
//
// A node flagged exclude_from_cascade is recorded as skipped but its
// children are still traversed: exclusion is per-node, not sub-tree pruning.
// A soft-deleted node is recorded as skipped and pruned, since its sub-tree
// is unreachable through the provider.
func PlanLevels(ctx context.Context, provider ports.TreeProvider, rootID domain.NodeID) (*Plan, error) {
	root, err := provider.GetNode(ctx, rootID)
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRootNotFound, rootID)
		}
		return nil, fmt.Errorf("resolve root %s: %w", rootID, err)
	}
	if root.Deleted {
		return nil, fmt.Errorf("%w: %s is deleted", domain.ErrRootNotFound, rootID)
	}

	plan := &Plan{RootID: rootID}
	frontier := []domain.Node{root}

	for len(frontier) > 0 {
		var level []domain.Node
		var next []domain.Node

		for _, parent := range frontier {
			children, err := provider.ChildrenOf(ctx, parent.ID)
			if err != nil {
				return nil, fmt.Errorf("children of %s: %w", parent.ID, err)
			}
			for _, child := range children {
				if child.Deleted {
					plan.Skipped = append(plan.Skipped, domain.SkippedNode{
						ID: child.ID, Name: child.Name, Reason: domain.SkipReasonSoftDeleted,
					})
					continue
				}
				next = append(next, child)
				if child.ExcludeFromCascade {
					plan.Skipped = append(plan.Skipped, domain.SkippedNode{
						ID: child.ID, Name: child.Name, Reason: domain.SkipReasonExcludedFlag,
					})
					continue
				}
				level = append(level, child)
			}
		}

		if len(level) > 0 {
			plan.Levels = append(plan.Levels, level)
			plan.TotalNodes += len(level)
		}
		frontier = next
	}

	return plan, nil
}
