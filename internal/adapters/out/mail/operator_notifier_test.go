package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	from, to, subject, body string
}

type fakeEmailClient struct {
	sent []sentMail
	err  error
}

func (f *fakeEmailClient) Send(ctx context.Context, from, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{from, to, subject, body})
	return f.err
}

func TestOperatorNotifier_NotifyMinted(t *testing.T) {
	c := &fakeEmailClient{}
	n := NewOperatorNotifier(c, "from@example.com", " ops@example.com ", "https://explorer.solana.com/tx/%s?cluster=devnet")

	require.NoError(t, n.NotifyMinted(context.Background(), "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", "SIG123", 76))
	require.Len(t, c.sent, 1)
	m := c.sent[0]
	assert.Equal(t, "from@example.com", m.from)
	assert.Equal(t, "ops@example.com", m.to)
	assert.Contains(t, m.subject, "76 remaining")
	assert.Contains(t, m.body, "9xQe...VFin")
	assert.Contains(t, m.body, "https://explorer.solana.com/tx/SIG123?cluster=devnet")
}

func TestOperatorNotifier_NotifySoldOut(t *testing.T) {
	c := &fakeEmailClient{err: errors.New("sendgrid down")}
	n := NewOperatorNotifier(c, "from@example.com", "ops@example.com", "")

	err := n.NotifySoldOut(context.Background(), "CM1", 777)
	assert.EqualError(t, err, "sendgrid down")
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0].body, "All 777 items")
}

func TestTxURL(t *testing.T) {
	assert.Equal(t, "S", (&OperatorNotifier{}).txURL("S"))
	assert.Equal(t, "https://x/tx/S", (&OperatorNotifier{explorerURL: "https://x/tx/"}).txURL("S"))
}

func TestNewOperatorNotifierWithSendGrid_Unconfigured(t *testing.T) {
	n := NewOperatorNotifierWithSendGrid("", "from@example.com", "ops@example.com", "")
	assert.IsType(t, NopNotifier{}, n)
	assert.NoError(t, n.NotifyMinted(context.Background(), "w", "s", 1))
	assert.NoError(t, n.NotifySoldOut(context.Background(), "cm", 1))

	_, ok := NewOperatorNotifierWithSendGrid("SG.key", "from@example.com", "ops@example.com", "").(*OperatorNotifier)
	assert.True(t, ok)
}

func TestSendGridClient_Validation(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, NewSendGridClient("").Send(ctx, "a@b", "c@d", "s", "b"))
	assert.Error(t, NewSendGridClient("k").Send(ctx, "", "c@d", "s", "b"))
	assert.Error(t, NewSendGridClient("k").Send(ctx, "a@b", "", "s", "b"))
}

func TestBuildMessage(t *testing.T) {
	m := buildMessage("from@example.com", "ops@example.com", "subj", "<b>x</b>")
	assert.Equal(t, "subj", m.Subject)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "<pre>&lt;b&gt;x&lt;/b&gt;</pre>", m.Content[1].Value)
}
