package classifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethicheck/societal-debt/internal/classifier"
	"ethicheck/societal-debt/internal/engineerror"
	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/models"
)

// stubClient returns a canned response or error and records how often it was
// called.
type stubClient struct {
	response *classifier.RawResponse
	err      error
	calls    int
}

func (s *stubClient) Classify(ctx context.Context, transactions []models.Transaction) (*classifier.RawResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func pendingAcme() []models.Transaction {
	return []models.Transaction{{
		Date:   "2024-01-01",
		Name:   "Acme",
		Amount: decimal.NewFromInt(50),
	}}
}

func TestClassifyScenario(t *testing.T) {
	client := &stubClient{response: &classifier.RawResponse{Text: strictResponse}}
	invoker := classifier.NewInvoker(client, logging.NewMockLogger())

	out, _, err := invoker.Classify(context.Background(), pendingAcme(), nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := out[0]
	assert.True(t, got.Analyzed)
	assert.True(t, got.PracticeDebts["High Emissions"].Equal(decimal.NewFromInt(20)), "50 * 40%% = 20, got %s", got.PracticeDebts["High Emissions"])
	assert.True(t, got.SocietalDebt.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 1, client.calls, "one request per invocation, never per transaction")
}

func TestClassifyFallbackTotality(t *testing.T) {
	client := &stubClient{response: &classifier.RawResponse{Text: "%%% this is not JSON at all %%%"}}
	log := logging.NewMockLogger()
	invoker := classifier.NewInvoker(client, log)

	pending := []models.Transaction{
		{Date: "2024-01-01", Name: "Acme", Amount: decimal.NewFromInt(50)},
		{Date: "2024-01-02", Name: "Globex", Amount: decimal.NewFromInt(75)},
	}

	out, _, err := invoker.Classify(context.Background(), pending, nil)
	require.NoError(t, err, "parse failures must never surface as hard errors")
	require.Len(t, out, len(pending), "one fallback entry per pending transaction")

	for _, tx := range out {
		assert.True(t, tx.Analyzed)
		assert.True(t, tx.SocietalDebt.IsZero())
		assert.Empty(t, tx.UnethicalPractices)
		assert.Empty(t, tx.EthicalPractices)
		assert.NotEmpty(t, tx.Information[models.ErrorInfoKey])
	}
	assert.NotEmpty(t, log.EntriesByLevel("WARN"))
}

func TestClassifyTransportErrorPropagates(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	invoker := classifier.NewInvoker(client, logging.NewMockLogger())

	out, _, err := invoker.Classify(context.Background(), pendingAcme(), nil)
	assert.Nil(t, out)

	var transportErr *engineerror.TransportError
	require.True(t, errors.As(err, &transportErr), "transport failures must be typed, got %T", err)
}

func TestClassifyOmittedTransactionGetsFallback(t *testing.T) {
	// Response covers Acme but not Globex.
	client := &stubClient{response: &classifier.RawResponse{Text: strictResponse}}
	invoker := classifier.NewInvoker(client, logging.NewMockLogger())

	pending := []models.Transaction{
		{Date: "2024-01-01", Name: "Acme", Amount: decimal.NewFromInt(50)},
		{Date: "2024-01-02", Name: "Globex", Amount: decimal.NewFromInt(75)},
	}

	out, _, err := invoker.Classify(context.Background(), pending, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].SocietalDebt.Equal(decimal.NewFromInt(20)))
	assert.True(t, out[1].SocietalDebt.IsZero())
	assert.NotEmpty(t, out[1].Information[models.ErrorInfoKey])
	assert.True(t, out[1].Analyzed)
}

func TestClassifyEmptyPendingSkipsClient(t *testing.T) {
	client := &stubClient{}
	invoker := classifier.NewInvoker(client, logging.NewMockLogger())

	out, _, err := invoker.Classify(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.Zero(t, client.calls)
}

func TestClassifyResolvesCitations(t *testing.T) {
	response := `{"transactions":[{"date":"2024-01-01","name":"Acme","amount":50,` +
		`"unethicalPractices":["High Emissions"],` +
		`"information":{"High Emissions":"diesel fleet [1]"}}]}`
	client := &stubClient{response: &classifier.RawResponse{
		Text:        response,
		Annotations: []classifier.Annotation{{Token: "[1]", URL: "https://example.org/fleet"}},
	}}
	invoker := classifier.NewInvoker(client, logging.NewMockLogger())

	out, citations, err := invoker.Classify(context.Background(), pendingAcme(), nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "diesel fleet [1](https://example.org/fleet)", out[0].Information["High Emissions"])
	assert.Equal(t, "https://example.org/fleet", citations["[1]"])
}

func TestClassifyWarnsOnDualListedPractice(t *testing.T) {
	response := `{"transactions":[{"date":"2024-01-01","name":"Acme","amount":50,` +
		`"unethicalPractices":["A"],"ethicalPractices":["A"]}]}`
	client := &stubClient{response: &classifier.RawResponse{Text: response}}
	log := logging.NewMockLogger()
	invoker := classifier.NewInvoker(client, log)

	out, _, err := invoker.Classify(context.Background(), pendingAcme(), nil)
	require.NoError(t, err)

	// Both signed contributions apply; with the default weight they cancel.
	assert.True(t, out[0].SocietalDebt.IsZero())
	assert.True(t, log.HasEntry("WARN", "Practice listed as both ethical and unethical"))
}
