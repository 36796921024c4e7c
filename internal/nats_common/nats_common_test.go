package nats_common

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/spendr-go/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSubject(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    bool
	}{
		{"spendr.ledger.transaction.created", "spendr.ledger.transaction.created", true},
		{"spendr.ledger.>", "spendr.ledger.transaction.created", true},
		{"spendr.ledger.>", "spendr.ledger", false},
		{"spendr.ledger.transaction.*", "spendr.ledger.transaction.deleted", true},
		{"spendr.ledger.transaction.*", "spendr.ledger.transfer.completed", false},
		{"spendr.*.wallet.balance", "spendr.ledger.wallet.balance", true},
		{"spendr.ledger.*", "spendr.ledger.wallet.balance", false},
		{">", "anything.at.all", true},
		{"other.>", "spendr.ledger.wallet.balance", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchSubject(tt.pattern, tt.subject))
		})
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "spendr.ledger.transfer.completed", Subject("spendr", interfaces.EventTypeTransferCompleted))
	assert.Equal(t, "acme.ledger.wallet.balance", Subject("acme.", interfaces.EventTypeWalletBalance))
	assert.Equal(t, "ledger.transaction.created", Subject("", interfaces.EventTypeTransactionCreated))
}

func TestMemoryPublisher(t *testing.T) {
	pub := NewMemoryPublisher("spendr")
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, interfaces.NewEvent(interfaces.EventTypeTransactionCreated, "test", "alice")))
	require.NoError(t, pub.Publish(ctx, interfaces.NewEvent(interfaces.EventTypeWalletBalance, "test", "alice").WithData("balance", "10.00")))
	require.NoError(t, pub.Publish(ctx, interfaces.NewEvent(interfaces.EventTypeWalletBalance, "test", "alice")))

	assert.Len(t, pub.Messages("spendr.>"), 3)

	balances := pub.Messages("spendr.ledger.wallet.balance")
	require.Len(t, balances, 2)
	assert.Equal(t, "10.00", balances[0].Event.Data["balance"])

	pub.Reset()
	assert.Empty(t, pub.Messages(">"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, pub.Publish(cancelled, interfaces.NewEvent(interfaces.EventTypeTransactionDeleted, "test", "alice")), context.Canceled)
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), interfaces.NewEvent(interfaces.EventTypeTransactionCreated, "test", "alice")))
	assert.NoError(t, pub.Close())
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher(NATSConfig{ServerURL: "nats://127.0.0.1:1", ClientID: "spendr-test"})
	assert.Error(t, err)
}
