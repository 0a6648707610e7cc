package subcommand

import (
	"fmt"

	"github.com/sylverant/psoship/internal/item"
)

// Item-request sub-command ids: a client reports an
// enemy kill or a box open and the server decides, authoritatively,
// whether anything drops.
const (
	SubCmdEnemyDrop byte = 0x60
	SubCmdBoxDrop   byte = 0x5D
)

// EnemyDropRequest is the decoded payload of a SubCmdEnemyDrop sub-command.
type EnemyDropRequest struct {
	EnemyIndex int
	RTIndex    int
	Type       int
	Area       int
}

// BoxDropRequest is the decoded payload of a SubCmdBoxDrop sub-command.
type BoxDropRequest struct {
	BoxIndex int
	Area     int
	Box      item.BoxInfo
}

// ItemRouter dispatches decoded drop requests into a team's DropContext,
// refusing a second drop for an enemy/box that already produced one. The
// caller owns
// already-dropped bookkeeping (internal/mapmodel.Enemy.DropDone);
// HandleEnemyDrop and HandleBoxDrop take it as an input flag and do not
// update it, so this package stays free of a mapmodel import.
type ItemRouter struct {
	DC *item.DropContext
}

// HandleEnemyDrop runs the drop algorithm for one enemy kill report,
// refusing to roll twice for the same enemy.
func (r *ItemRouter) HandleEnemyDrop(req EnemyDropRequest, alreadyDropped bool) (item.Item, bool, error) {
	if r.DC == nil {
		return item.Item{}, false, fmt.Errorf("subcommand: no drop context wired")
	}
	if alreadyDropped {
		return item.Item{}, false, nil
	}
	it, ok := r.DC.GenerateEnemyDrop(item.EnemyInfo{RTIndex: req.RTIndex, Type: req.Type, Area: req.Area})
	return it, ok, nil
}

// HandleBoxDrop runs the drop algorithm for one box-open report.
func (r *ItemRouter) HandleBoxDrop(req BoxDropRequest, alreadyDropped bool) (item.Item, bool, error) {
	if r.DC == nil {
		return item.Item{}, false, fmt.Errorf("subcommand: no drop context wired")
	}
	if alreadyDropped {
		return item.Item{}, false, nil
	}
	it, ok := r.DC.GenerateBoxDrop(req.Box)
	return it, ok, nil
}
