package route

import "errors"

var (
	ErrInvalidTier         = errors.New("invalid tier")
	ErrInvalidServiceModel = errors.New("invalid service model")
	ErrTierWithoutHubLegs  = errors.New("tier has no hub legs")
)

// Tier is the shipment service class. Tier 1 has no hub legs and is out of
// scope for the engine; tiers 2 and 3 determine which service models apply.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

func NewTier(n int) (Tier, error) {
	t := Tier(n)
	if t < Tier1 || t > Tier3 {
		return 0, ErrInvalidTier
	}
	return t, nil
}

func (t Tier) Int() int {
	return int(t)
}

func (t Tier) HasHubLegs() bool {
	return t == Tier2 || t == Tier3
}

type ServiceModel string

const (
	ModelWhiteGloveFull ServiceModel = "wg_full"
	ModelDHLFull        ServiceModel = "dhl_full"
	ModelHybridWGDHL    ServiceModel = "hybrid_wg_dhl"
	ModelHybridDHLWG    ServiceModel = "hybrid_dhl_wg"
)

func (m ServiceModel) String() string {
	return string(m)
}

func (m ServiceModel) IsValid() bool {
	switch m {
	case ModelWhiteGloveFull, ModelDHLFull, ModelHybridWGDHL, ModelHybridDHLWG:
		return true
	default:
		return false
	}
}

func NewServiceModel(s string) (ServiceModel, error) {
	m := ServiceModel(s)
	if !m.IsValid() {
		return "", ErrInvalidServiceModel
	}
	return m, nil
}

// ModelsForTier enumerates the permitted service models per tier. Hybrid is
// a tier-3 privilege; tier 1 never reaches the engine.
func ModelsForTier(t Tier) []ServiceModel {
	switch t {
	case Tier3:
		return []ServiceModel{ModelWhiteGloveFull, ModelHybridWGDHL, ModelHybridDHLWG}
	case Tier2:
		return []ServiceModel{ModelWhiteGloveFull, ModelDHLFull}
	default:
		return nil
	}
}

// ValidateModelForTier rejects a model the tier does not permit, before any
// ledger access happens.
func ValidateModelForTier(t Tier, m ServiceModel) error {
	if !m.IsValid() {
		return ErrInvalidServiceModel
	}
	for _, allowed := range ModelsForTier(t) {
		if allowed == m {
			return nil
		}
	}
	return ErrInvalidServiceModel
}

// LegMode is how one transport segment is carried out. Movement between two
// hubs of the same network is always an internal rollout, never the external
// carrier.
type LegMode string

const (
	LegWhiteGlove      LegMode = "white_glove"
	LegDHL             LegMode = "dhl"
	LegInternalRollout LegMode = "internal_rollout"
)

func (m LegMode) String() string {
	return string(m)
}
