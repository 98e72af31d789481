package document

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/guestify/kitstate/model"
)

// RecoveryContext carries what the strategies may consult: the transaction
// that triggered the failure and the document it targets. Either may be nil.
type RecoveryContext struct {
	Transaction *model.Transaction
	State       model.State
}

// recoveryStrategy fixes one class of recoverable error. apply returns the
// adjusted value and whether it acted.
type recoveryStrategy struct {
	name  string
	apply func(v *Validator, err model.FieldError, rc RecoveryContext) (any, bool)
}

func defaultStrategies() []recoveryStrategy {
	return []recoveryStrategy{
		{name: "duplicate-id", apply: recoverDuplicateID},
		{name: "invalid-type", apply: recoverInvalidType},
		{name: "layout-inconsistency", apply: recoverLayoutInconsistency},
	}
}

// AttemptRecovery runs every strategy over every error and returns the last
// adjusted value, or nil when no strategy acted. The input is never mutated.
// When rc.Transaction is unset and data itself is a transaction, it is used
// as the strategy target.
func (v *Validator) AttemptRecovery(data any, errs []model.FieldError, rc RecoveryContext) any {
	if rc.Transaction == nil {
		if tx, ok := data.(model.Transaction); ok {
			cloned := tx.Clone()
			rc.Transaction = &cloned
		}
	}

	var result any
	applied := false
	for _, err := range errs {
		for _, strategy := range v.strategies {
			fixed, ok := strategy.apply(v, err, rc)
			if !ok {
				continue
			}
			v.logger.Warn("recovery strategy applied",
				zap.String("strategy", strategy.name),
				zap.String("kind", err.Kind),
				zap.String("field", err.Field))
			v.metrics.RecordRecovery(strategy.name)
			result = fixed
			applied = true
			break
		}
	}
	if !applied {
		return nil
	}
	return result
}

// recoverDuplicateID renames the component being added so the insert can
// proceed. The suffix is the current epoch millis, mirroring how the builder
// generates fresh component IDs.
func recoverDuplicateID(v *Validator, err model.FieldError, rc RecoveryContext) (any, bool) {
	if err.Kind != model.KindDuplicateID {
		return nil, false
	}
	tx := rc.Transaction
	if tx == nil || tx.Type != model.TxAddComponent {
		return nil, false
	}
	payload := tx.PayloadMap()
	id, _ := payload["id"].(string)
	if id == "" {
		return nil, false
	}

	adjusted := tx.Clone()
	adjusted.PayloadMap()["id"] = fmt.Sprintf("%s_%d", id, time.Now().UnixMilli())
	return adjusted, true
}

// recoverInvalidType accepts unrecognized component types as-is. The known
// type list is advisory, so an unknown type is warned about and waved
// through rather than rejected.
func recoverInvalidType(v *Validator, err model.FieldError, rc RecoveryContext) (any, bool) {
	tx := rc.Transaction
	if tx == nil {
		return nil, false
	}
	typ, _ := tx.PayloadMap()["type"].(string)
	if typ == "" {
		return nil, false
	}
	typeError := err.Kind == model.KindUnknownType ||
		err.Field == "type" ||
		strings.HasSuffix(err.Field, ".type")
	if !typeError {
		return nil, false
	}

	v.logger.Warn("accepting unknown component type", zap.String("component_type", typ))
	return tx.Clone(), true
}

// recoverLayoutInconsistency rebuilds the layout as a bijection with the
// component map: stale and duplicate entries are dropped, components missing
// from the layout are appended in sorted order.
func recoverLayoutInconsistency(v *Validator, err model.FieldError, rc RecoveryContext) (any, bool) {
	if rc.State == nil {
		return nil, false
	}
	layoutError := err.Kind == model.KindLayoutInconsistent ||
		err.Field == "layout" ||
		strings.HasPrefix(err.Field, "layout[")
	if !layoutError {
		return nil, false
	}

	fixed := rc.State.Clone()
	fixed["layout"] = reconcileLayout(rc.State.LayoutIDs(), rc.State.Components())
	return fixed, true
}
