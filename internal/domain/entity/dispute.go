package entity

import (
	"time"
)

// Dispute statuses. A dispute counts as open from the first report until an
// admin resolves it; both_reported only adds admin visibility.
const (
	DisputeNone         = "none"
	DisputeOpen         = "open"
	DisputeBothReported = "both_reported"
	DisputeResolved     = "resolved"
)

const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

const (
	WinnerBuyer  = "buyer"
	WinnerSeller = "seller"
)

// DisputeReport is one party's account of the problem. Each party files at
// most one report per dispute.
type DisputeReport struct {
	Reason      string    `json:"reason" firestore:"reason"`
	Urgency     string    `json:"urgency" firestore:"urgency"`
	EvidenceURL string    `json:"evidence_url,omitempty" firestore:"evidenceUrl,omitempty"`
	ReportedAt  time.Time `json:"reported_at" firestore:"reportedAt"`
}

type AdminDecision struct {
	Winner    string    `json:"winner" firestore:"winner"`
	DecidedAt time.Time `json:"decided_at" firestore:"decidedAt"`
	AdminNote string    `json:"admin_note,omitempty" firestore:"adminNote,omitempty"`
}

// Dispute is embedded in a TradeTransaction. While a dispute is open the
// owning trade's ReleaseAt is cleared, which suspends automatic release
// until an admin resolves it.
type Dispute struct {
	Status       string         `json:"status" firestore:"status"`
	SellerReport *DisputeReport `json:"seller_report,omitempty" firestore:"sellerReport,omitempty"`
	BuyerReport  *DisputeReport `json:"buyer_report,omitempty" firestore:"buyerReport,omitempty"`

	// ExpiresAt is the report deadline, a fixed window from the first
	// report. It is advisory: expiry never auto-resolves a dispute.
	ExpiresAt *time.Time `json:"expires_at,omitempty" firestore:"expiresAt,omitempty"`

	AdminDecision *AdminDecision `json:"admin_decision,omitempty" firestore:"adminDecision,omitempty"`
}

func (d *Dispute) IsOpen() bool {
	return d.Status == DisputeOpen || d.Status == DisputeBothReported
}

func (d *Dispute) Expired(now time.Time) bool {
	return d.IsOpen() && d.ExpiresAt != nil && now.After(*d.ExpiresAt)
}
