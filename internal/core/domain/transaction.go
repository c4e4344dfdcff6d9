package domain

import "time"

// TransactionType is the kind of money movement recorded by an agent.
type TransactionType string

const (
	TypeDepot     TransactionType = "depot"
	TypeRetrait   TransactionType = "retrait"
	TypeTransfert TransactionType = "transfert"
)

// TransactionState is the lifecycle state of a recorded transaction.
type TransactionState string

const (
	StateReussi TransactionState = "reussi"
	StateAnnule TransactionState = "annule"
)

// validTransitions lists the only state changes a transaction may undergo.
var validTransitions = map[TransactionState][]TransactionState{
	StateReussi: {StateAnnule},
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDepot, TypeRetrait, TypeTransfert:
		return true
	}
	return false
}

// Valid reports whether s is a known transaction state.
func (s TransactionState) Valid() bool {
	return s == StateReussi || s == StateAnnule
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s TransactionState) CanTransitionTo(next TransactionState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transaction is a single ledger entry. It is never deleted; the only
// mutation is reussi -> annule.
type Transaction struct {
	ID                    string           `json:"_id,omitempty"`
	IDTransaction         string           `json:"idTransaction"`
	Type                  TransactionType  `json:"type"`
	Montant               float64          `json:"montant"`
	NumCompteSource       string           `json:"numCompteSource,omitempty"`
	NumCompteDestinataire string           `json:"numCompteDestinataire,omitempty"`
	DateTransaction       time.Time        `json:"dateTransaction"`
	Etat                  TransactionState `json:"etat"`
	CreatedAt             time.Time        `json:"createdAt"`
}

// StatesTransitioningTo returns every state from which a transaction may move
// to target.
func StatesTransitioningTo(target TransactionState) []TransactionState {
	var out []TransactionState
	for from, tos := range validTransitions {
		for _, to := range tos {
			if to == target {
				out = append(out, from)
			}
		}
	}
	return out
}
