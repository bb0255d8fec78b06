package notification

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGateway struct {
	sent int
}

func (g *countingGateway) Send(ctx context.Context, msg Message) error {
	g.sent++
	return nil
}

func TestRateLimited_DropsBeyondBurst(t *testing.T) {
	inner := &countingGateway{}
	// 1 msg/s, burst 3: the 4th immediate send must be dropped.
	g := NewRateLimited(inner, 1, 3)

	msg := Message{Kind: KindOrderConfirmation, Recipient: "a@b.c", OrderID: 1}

	var throttled int
	for i := 0; i < 5; i++ {
		if err := g.Send(context.Background(), msg); err != nil {
			assert.ErrorIs(t, err, ErrThrottled)
			throttled++
		}
	}

	assert.Equal(t, 3, inner.sent)
	assert.Equal(t, 2, throttled)
}

func TestSMTPGateway_RendersConfirmation(t *testing.T) {
	var gotTo []string
	var gotMsg []byte

	g := &SMTPGateway{
		addr:   "localhost:25",
		sender: "shop@livrerjardiner.fr",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotTo = to
			gotMsg = msg
			return nil
		},
	}

	err := g.Send(context.Background(), Message{
		Kind:        KindOrderConfirmation,
		Recipient:   "client@example.com",
		OrderID:     42,
		TotalAmount: decimal.RequireFromString("37.50"),
		Lines: []LineSummary{
			{SKU: "ROSE-RED-1L", Name: "Rosier rouge", Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"client@example.com"}, gotTo)
	body := string(gotMsg)
	assert.Contains(t, body, "Confirmation de commande #42")
	assert.Contains(t, body, "3 x Rosier rouge (ROSE-RED-1L) - 12.50")
	assert.Contains(t, body, "Total: 37.50")
}

func TestSMTPGateway_StatusChange(t *testing.T) {
	var gotMsg []byte
	g := &SMTPGateway{
		sender: "shop@livrerjardiner.fr",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotMsg = msg
			return nil
		},
	}

	err := g.Send(context.Background(), Message{
		Kind:      KindOrderStatusChange,
		Recipient: "client@example.com",
		OrderID:   42,
		Status:    "shipped",
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(gotMsg), "est maintenant: shipped"))
}

func TestSMTPGateway_CancelledContext(t *testing.T) {
	g := &SMTPGateway{
		send: func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send should not be called")
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Send(ctx, Message{Recipient: "client@example.com"})
	assert.Error(t, err)
}
