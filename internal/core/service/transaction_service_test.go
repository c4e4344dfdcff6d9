package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

func newTxFixture() (*TransactionService, *stubTxRepo, *recordingAudit) {
	repo := &stubTxRepo{}
	audit := &recordingAudit{}
	return NewTransactionService(repo, audit, testLog), repo, audit
}

func depot(at time.Time) ports.CreateTransactionInput {
	return ports.CreateTransactionInput{Type: "depot", Montant: 500, DateTransaction: at, Etat: "reussi"}
}

func TestTransactionService_CreateAndCancel(t *testing.T) {
	svc, _, audit := newTxFixture()
	actor := agent()

	tx, err := svc.Create(context.Background(), actor, depot(time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, tx.IDTransaction)
	assert.Equal(t, domain.StateReussi, tx.Etat)

	require.NoError(t, svc.Cancel(context.Background(), actor, tx.IDTransaction))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StateAnnule, list[0].Etat)

	err = svc.Cancel(context.Background(), actor, tx.IDTransaction)
	assert.ErrorIs(t, err, domain.ErrTransactionNotCancellable)

	assert.Equal(t, []domain.AuditAction{domain.AuditTransactionCreated, domain.AuditTransactionCancelled}, audit.actions())
}

func TestTransactionService_Cancel_Unknown(t *testing.T) {
	svc, _, _ := newTxFixture()

	assert.ErrorIs(t, svc.Cancel(context.Background(), agent(), "nope"), domain.ErrTransactionNotCancellable)
	assert.ErrorIs(t, svc.Cancel(context.Background(), agent(), "  "), domain.ErrValidation)
}

func TestTransactionService_Create_KeepsSuppliedID(t *testing.T) {
	svc, _, _ := newTxFixture()

	in := depot(time.Now())
	in.IDTransaction = "c6f0d3a2-client"
	tx, err := svc.Create(context.Background(), agent(), in)
	require.NoError(t, err)
	assert.Equal(t, "c6f0d3a2-client", tx.IDTransaction)

	_, err = svc.Create(context.Background(), agent(), in)
	assert.ErrorIs(t, err, domain.ErrTransactionExists)
}

func TestTransactionService_Create_AcceptsCancelledInitialState(t *testing.T) {
	svc, _, _ := newTxFixture()

	in := depot(time.Now())
	in.Etat = "annule"
	tx, err := svc.Create(context.Background(), agent(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAnnule, tx.Etat)

	assert.ErrorIs(t, svc.Cancel(context.Background(), agent(), tx.IDTransaction), domain.ErrTransactionNotCancellable)
}

func TestTransactionService_Create_Validation(t *testing.T) {
	svc, _, _ := newTxFixture()
	now := time.Now()

	cases := map[string]ports.CreateTransactionInput{
		"missing type":  {Montant: 1, DateTransaction: now, Etat: "reussi"},
		"bad type":      {Type: "pret", Montant: 1, DateTransaction: now, Etat: "reussi"},
		"bad state":     {Type: "depot", Montant: 1, DateTransaction: now, Etat: "en_cours"},
		"zero amount":   {Type: "depot", DateTransaction: now, Etat: "reussi"},
		"negative":      {Type: "retrait", Montant: -5, DateTransaction: now, Etat: "reussi"},
		"missing date":  {Type: "transfert", Montant: 5, Etat: "reussi"},
		"missing state": {Type: "transfert", Montant: 5, DateTransaction: now},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), agent(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTransactionService_List_NewestFirst(t *testing.T) {
	svc, _, _ := newTxFixture()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{2, 0, 5, 1} {
		_, err := svc.Create(context.Background(), agent(), depot(base.AddDate(0, 0, offset)))
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].DateTransaction.After(list[i-1].DateTransaction), "list must be sorted newest first")
	}
}

func TestTransactionStateMachine(t *testing.T) {
	assert.True(t, domain.StateReussi.CanTransitionTo(domain.StateAnnule))
	assert.False(t, domain.StateAnnule.CanTransitionTo(domain.StateReussi))
	assert.False(t, domain.StateAnnule.CanTransitionTo(domain.StateAnnule))
	assert.Equal(t, []domain.TransactionState{domain.StateReussi}, domain.StatesTransitioningTo(domain.StateAnnule))
}
