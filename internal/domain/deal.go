package domain

import "time"

// DealStage is the pipeline state of a deal.
type DealStage string

// Pipeline stages. CLOSED and LOST are terminal.
const (
	StageProspect DealStage = "PROSPECT"
	StageActive   DealStage = "ACTIVE"
	StageClosed   DealStage = "CLOSED"
	StageLost     DealStage = "LOST"
)

// DealStages lists every pipeline stage.
var DealStages = []DealStage{StageProspect, StageActive, StageClosed, StageLost}

// ParseDealStage validates a raw stage string.
func ParseDealStage(s string) (DealStage, error) {
	stage := DealStage(s)
	for _, known := range DealStages {
		if stage == known {
			return stage, nil
		}
	}
	return "", ErrValidation("unknown deal stage %q", s)
}

// stageTransitions is the directed edge list of the pipeline state machine.
// A stage missing a target (including itself) has no edge to it.
var stageTransitions = map[DealStage][]DealStage{
	StageProspect: {StageActive, StageLost},
	StageActive:   {StageClosed, StageLost},
	StageClosed:   {},
	StageLost:     {},
}

// ValidateStageTransition checks that requested is reachable from current in
// one step. Self-transitions and transitions out of a terminal stage fail.
func ValidateStageTransition(current, requested DealStage) error {
	for _, allowed := range stageTransitions[current] {
		if requested == allowed {
			return nil
		}
	}
	return ErrValidation("Invalid stage transition from %s to %s", current, requested)
}

// DefaultCommissionRate applies when a deal is created without a rate.
const DefaultCommissionRate = 10

// Deal is a sales opportunity tracked through the pipeline.
type Deal struct {
	ID             string
	OrganizationID string
	OwnerID        *string // earns the commission when set
	Title          string
	Amount         float64
	Stage          DealStage
	CommissionRate float64 // percentage, 0-100
	CloseDate      *time.Time
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DealWithCommission is a deal enriched with its ledger-derived fields.
type DealWithCommission struct {
	Deal
	CommissionAmount float64
	IsClosed         bool
}

// DealFilter narrows deal listings. Nil fields are ignored.
type DealFilter struct {
	Stage         *DealStage
	MinAmount     *float64
	MaxAmount     *float64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// DealUpdate is a partial field update. Stage and close date are excluded:
// they change only through the stage-transition operation.
type DealUpdate struct {
	Title          *string
	Amount         *float64
	CommissionRate *float64
	Description    *string
	OwnerID        *string
}
