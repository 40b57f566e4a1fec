package permissions

import (
	"github.com/wasiqzahoor/erp-system/internal/models"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
	"github.com/wasiqzahoor/erp-system/pkg/metrics"
)

// Guard gates administrative actions performed on other users. It is checked
// in addition to the plain permission key: an actor can legitimately hold
// user:update yet still be blocked by rank.

// CanModify reports whether the actor may administratively modify the target.
// The actor must strictly outrank the target; peers and superiors are off
// limits. Modifying one's own record is always permitted here; the
// self-specific carve-outs live in CanSetStatus and CanDelete.
func CanModify(actor, target *Snapshot) error {
	if actor.UserID == target.UserID {
		return nil
	}
	if actor.Rank > target.Rank {
		return nil
	}
	metrics.HierarchyDenials.Inc()
	return apperrors.ErrInsufficientRank
}

// CanSetStatus applies the rank rule plus the anti-lockout safeguard: an
// actor may never set its own status to inactive or terminated.
func CanSetStatus(actor, target *Snapshot, status string) error {
	if actor.UserID == target.UserID {
		if status == models.UserStatusInactive || status == models.UserStatusTerminated {
			return apperrors.ErrSelfLockout
		}
		return nil
	}
	return CanModify(actor, target)
}

// CanDelete applies the rank rule and forbids self-deletion unconditionally.
func CanDelete(actor, target *Snapshot) error {
	if actor.UserID == target.UserID {
		return apperrors.ErrSelfDelete
	}
	return CanModify(actor, target)
}
