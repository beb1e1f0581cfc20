package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignment_Validate(t *testing.T) {
	tests := []struct {
		name string
		a    Assignment
		want error
	}{
		{name: "ok pending", a: Assignment{Status: StatusPending, PaymentAmount: 40}},
		{name: "helper while pending", a: Assignment{Status: StatusPending, PaymentAmount: 40, Helper: Ref("h")}, want: ErrHelperWhilePending},
		{name: "zero payout", a: Assignment{Status: StatusAccepted, PaymentAmount: 40, HelperPayout: Float(0)}, want: ErrNonPositivePayout},
		{name: "zero amount", a: Assignment{Status: StatusAccepted}, want: ErrNonPositiveAmount},
		{name: "accepted with helper", a: Assignment{Status: StatusAccepted, PaymentAmount: 40, Helper: Ref("h"), HelperPayout: Float(25)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.a.Validate(), tt.want)
		})
	}
}

func TestAssignment_PayoutSet(t *testing.T) {
	a := Assignment{}
	assert.False(t, a.PayoutSet())
	assert.Zero(t, a.Payout())

	a.HelperPayout = Float(25)
	assert.True(t, a.PayoutSet())
	assert.Equal(t, 25.0, a.Payout())
}

func TestDecode_AssignmentDefaultsAndRefs(t *testing.T) {
	body := `{
		"_id": "a-1",
		"ownerId": {"_id": "o-1", "username": "owner"},
		"helperId": null,
		"title": "Essay",
		"category": "Essay Writing",
		"deadline": "2024-05-01T10:00:00.000Z",
		"paymentAmount": 50,
		"status": "pending",
		"createdAt": "2024-04-01T10:00:00Z",
		"updatedAt": "2024-04-01T10:00:00Z"
	}`

	var a Assignment
	require.NoError(t, Decode(strings.NewReader(body), &a))

	assert.Equal(t, "o-1", a.Owner.ID)
	assert.Equal(t, "owner", a.Owner.Name())
	assert.True(t, a.Helper.Empty())
	assert.NotNil(t, a.Attachments)
	assert.NotNil(t, a.CompletedWorkAttachments)
	assert.NotNil(t, a.Owner.User.Roles)
	assert.Nil(t, a.HelperPayout)
}

func TestDecode_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>`},
		{name: "unknown status", body: `{"_id":"a","status":"archived"}`},
		{name: "missing id", body: `{"status":"pending"}`},
		{name: "negative amount", body: `{"_id":"a","status":"pending","paymentAmount":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Assignment
			assert.ErrorIs(t, Decode(strings.NewReader(tt.body), &a), ErrMalformedResponse)
		})
	}
}

func TestDecode_EnvelopeDivesIntoItems(t *testing.T) {
	var env struct {
		Users []User `json:"users" validate:"dive"`
	}
	require.NoError(t, Decode(strings.NewReader(`{"users":[{"_id":"u","username":"x"}]}`), &env))
	require.Len(t, env.Users, 1)
	assert.NotNil(t, env.Users[0].Roles)

	var missing struct {
		Users []User `json:"users" validate:"dive"`
	}
	err := Decode(strings.NewReader(`{"users":[{"_id":"u"}]}`), &missing)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestStatus_LabelAndTerminal(t *testing.T) {
	assert.Equal(t, "Pending Client Review", StatusPendingClientReview.Label())
	assert.True(t, StatusPaid.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusReadyForPayout.Terminal())
	assert.False(t, Status("archived").Valid())
}
