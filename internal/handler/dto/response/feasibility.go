package response

import (
	"time"

	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type FeasibilityResponse struct {
	ShipmentID  uuid.UUID             `json:"shipmentId"`
	Tier        int                   `json:"tier"`
	Day         string                `json:"day"`
	Options     []RouteOptionResponse `json:"options"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

type RouteOptionResponse struct {
	ServiceModel string              `json:"serviceModel"`
	Legs         []LegResponse       `json:"legs"`
	HubFees      []FeeLineResponse   `json:"hubFees"`
	HubFeeTotal  string              `json:"hubFeeTotal"`
	Transport    string              `json:"transport"`
	Margin       string              `json:"margin"`
	TotalCost    string              `json:"totalCost"`
	Feasible     bool                `json:"feasible"`
	Shortfalls   []ShortfallResponse `json:"shortfalls,omitempty"`
}

type LegResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	Mode string `json:"mode"`
	Cost string `json:"cost"`
}

type FeeLineResponse struct {
	HubID   string `json:"hubId"`
	Kind    string `json:"kind"`
	Qty     int    `json:"qty"`
	UnitFee string `json:"unitFee"`
	Amount  string `json:"amount"`
}

type ShortfallResponse struct {
	HubID  uuid.UUID `json:"hubId"`
	Kind   string    `json:"kind"`
	Day    string    `json:"day"`
	Reason string    `json:"reason"`
}

func FromFeasibilityResult(r *queries.FeasibilityResult) *FeasibilityResponse {
	options := make([]RouteOptionResponse, len(r.Options))
	for i, o := range r.Options {
		options[i] = fromRouteOption(o)
	}
	return &FeasibilityResponse{
		ShipmentID:  r.ShipmentID,
		Tier:        int(r.Tier),
		Day:         r.Day.Format("2006-01-02"),
		Options:     options,
		GeneratedAt: r.GeneratedAt,
	}
}

func fromRouteOption(o route.Option) RouteOptionResponse {
	legs := make([]LegResponse, len(o.Legs))
	for i, l := range o.Legs {
		legs[i] = LegResponse{From: l.From, To: l.To, Mode: l.Mode.String(), Cost: l.Cost.StringFixed(2)}
	}
	fees := make([]FeeLineResponse, len(o.HubFees))
	for i, f := range o.HubFees {
		fees[i] = FeeLineResponse{
			HubID:   f.HubID,
			Kind:    f.Kind.String(),
			Qty:     f.Qty,
			UnitFee: f.UnitFee.StringFixed(2),
			Amount:  f.Amount.StringFixed(2),
		}
	}
	var shortfalls []ShortfallResponse
	for _, s := range o.Shortfalls {
		shortfalls = append(shortfalls, ShortfallResponse{
			HubID:  s.HubID,
			Kind:   s.Kind.String(),
			Day:    s.Day.Format("2006-01-02"),
			Reason: s.Reason,
		})
	}
	return RouteOptionResponse{
		ServiceModel: o.Model.String(),
		Legs:         legs,
		HubFees:      fees,
		HubFeeTotal:  o.HubFeeTotal.StringFixed(2),
		Transport:    o.Transport.StringFixed(2),
		Margin:       o.Margin.StringFixed(2),
		TotalCost:    o.TotalCost.StringFixed(2),
		Feasible:     o.Feasible,
		Shortfalls:   shortfalls,
	}
}
