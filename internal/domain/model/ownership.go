package model

// Availability classifies how a player can be acquired right now. The
// upstream feed encodes this across several loosely-typed columns
// (0/1/null owner flags); it is resolved into a tagged value exactly once
// at ingestion and never re-derived downstream.
type Availability int

const (
	// OnMarket means the player is freely listed.
	OnMarket Availability = iota
	// OwnedClausulable means owned by a participant and acquirable by
	// paying the buy-out clause.
	OwnedClausulable
	// OwnedLocked means owned and the clause is currently locked.
	OwnedLocked
	// Bank means unowned and not listed; it cannot actually be acquired
	// right now.
	Bank
)

// String returns the wire label for the availability state.
func (a Availability) String() string {
	switch a {
	case OnMarket:
		return "on_market"
	case OwnedClausulable:
		return "owned_clausulable"
	case OwnedLocked:
		return "owned_not_clausulable"
	default:
		return "bank"
	}
}

// ValueSource tags which number PriceToPay was taken from.
type ValueSource string

const (
	// SourceClause means the price is the owner's buy-out clause.
	SourceClause ValueSource = "clause"
	// SourceMarket means the price is the current market value.
	SourceMarket ValueSource = "market"
)

// OwnershipFacts is the availability state derived from a PlayerSnapshot.
type OwnershipFacts struct {
	Availability Availability
	OwnerID      *int64
	PriceToPay   int64
	Source       ValueSource
}

// DeriveOwnership computes the ownership facts for a snapshot.
// Price to pay is the clause value when the player is owned and
// clausulable, the market value otherwise.
func DeriveOwnership(p PlayerSnapshot) OwnershipFacts {
	facts := OwnershipFacts{
		OwnerID:    p.OwnerID,
		PriceToPay: p.MarketValue,
		Source:     SourceMarket,
	}

	switch {
	case p.OwnerID != nil && p.OwnerClausulable:
		facts.Availability = OwnedClausulable
		facts.PriceToPay = p.OwnerClauseValue
		facts.Source = SourceClause
	case p.OwnerID != nil:
		facts.Availability = OwnedLocked
	case p.OnMarket:
		facts.Availability = OnMarket
	default:
		facts.Availability = Bank
	}

	return facts
}

// OwnedBy reports whether the snapshot is owned by the given participant.
func (f OwnershipFacts) OwnedBy(participantID int64) bool {
	return f.OwnerID != nil && *f.OwnerID == participantID
}
