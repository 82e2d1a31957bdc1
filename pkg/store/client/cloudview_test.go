package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/de-tools/cloudview-alerts/pkg/models/api"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCredentials = domain.Credentials{Username: "api-user", Password: "s3cret"}

func newTestClient(t *testing.T, baseURL string, creds domain.Credentials) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:     baseURL,
		Credentials: creds,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestClient_ListEvaluations(t *testing.T) {
	fake := testutil.NewFakeCloudView(t, testCredentials.Username, testCredentials.Password)
	fake.AddEvaluationPages("aws", "111",
		api.EvaluationPage{
			Content: []api.Control{
				{ControlID: "1", ControlName: "S3 Public Access", FailedResources: 2},
			},
			Last:       false,
			TotalPages: 2,
		},
		api.EvaluationPage{
			Content: []api.Control{
				{ControlID: "CID-9", ControlName: "IAM Root MFA", FailedResources: 0},
			},
			Last:       true,
			TotalPages: 2,
		},
	)
	c := newTestClient(t, fake.URL(), testCredentials)

	page, err := c.ListEvaluations(testContext(t), "aws", "111", 1)

	require.NoError(t, err)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 1)
	assert.Equal(t, api.ID("CID-9"), page.Content[0].ControlID)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, testutil.RecordedRequest{
		Endpoint:  "evaluations",
		Cloud:     "aws",
		AccountID: "111",
		PageNo:    1,
		PageSize:  DefaultPageSize,
		Filter:    DefaultWindow,
	}, requests[0])
}

func TestClient_ListControlResources(t *testing.T) {
	fake := testutil.NewFakeCloudView(t, testCredentials.Username, testCredentials.Password)
	fake.AddResourcePages("azure", "sub-1", "42", api.ResourcePage{
		Content: []api.Resource{
			{ResourceID: "vm-1", Result: "FAIL"},
			{ResourceID: "vm-2", Result: "PASS"},
		},
		Last: true,
	})
	c := newTestClient(t, fake.URL()+"/", testCredentials)

	page, err := c.ListControlResources(testContext(t), "azure", "sub-1", "42", 0)

	require.NoError(t, err)
	assert.True(t, page.Last)
	assert.Len(t, page.Content, 2)

	requests := fake.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "resources", requests[0].Endpoint)
	assert.Equal(t, "42", requests[0].ControlID)
}

func TestClient_UpstreamErrors(t *testing.T) {
	fake := testutil.NewFakeCloudView(t, testCredentials.Username, testCredentials.Password)
	fake.FailEvaluations("aws", "111", 0, http.StatusInternalServerError)
	fake.FailResources("aws", "111", "7", 3, http.StatusBadGateway)

	t.Run("evaluation status", func(t *testing.T) {
		c := newTestClient(t, fake.URL(), testCredentials)

		_, err := c.ListEvaluations(testContext(t), "aws", "111", 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		var upstream *domain.UpstreamRequestError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
		assert.Equal(t, EndpointEvaluations, upstream.Endpoint)
		assert.Equal(t, "111", upstream.AccountID)
		assert.Empty(t, upstream.ControlID)
	})

	t.Run("resource status", func(t *testing.T) {
		c := newTestClient(t, fake.URL(), testCredentials)

		_, err := c.ListControlResources(testContext(t), "aws", "111", "7", 3)

		var upstream *domain.UpstreamRequestError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
		assert.Equal(t, "7", upstream.ControlID)
		assert.Equal(t, 3, upstream.Page)
	})

	t.Run("unauthorized", func(t *testing.T) {
		c := newTestClient(t, fake.URL(), domain.Credentials{Username: "api-user", Password: "wrong"})

		_, err := c.ListEvaluations(testContext(t), "aws", "111", 0)

		var upstream *domain.UpstreamRequestError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	})

	t.Run("unparsable body", func(t *testing.T) {
		srv := testutil.NewStaticServer(t, http.StatusOK, "not json")
		c := newTestClient(t, srv, testCredentials)

		_, err := c.ListEvaluations(testContext(t), "aws", "111", 0)

		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "failed to parse response")
	})
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		target error
	}{
		{
			name:   "missing base url",
			cfg:    Config{Credentials: testCredentials},
			target: domain.ErrConfig,
		},
		{
			name:   "relative base url",
			cfg:    Config{BaseURL: "qualys.example", Credentials: testCredentials},
			target: domain.ErrConfig,
		},
		{
			name:   "missing password",
			cfg:    Config{BaseURL: "https://qualys.example", Credentials: domain.Credentials{Username: "u"}},
			target: domain.ErrAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestID_UnmarshalNumericControlID(t *testing.T) {
	srv := testutil.NewStaticServer(t, http.StatusOK,
		`{"content":[{"controlId":17,"controlName":"x","failedResources":1}],"last":true,"totalPages":1}`)
	c := newTestClient(t, srv, testCredentials)

	page, err := c.ListEvaluations(testContext(t), "aws", "111", 0)

	require.NoError(t, err)
	assert.Equal(t, api.ID("17"), page.Content[0].ControlID)
}

func TestExcerpt_KeepsRuneBoundary(t *testing.T) {
	// one ASCII byte shifts every three-byte rune across the size limit
	body := []byte("x" + strings.Repeat("€", maxErrorBodySize))

	got := excerpt(body)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), maxErrorBodySize+len("..."))
}

func TestExcerpt_ShortBodyUnchanged(t *testing.T) {
	assert.Equal(t, `{"message":"boom"}`, excerpt([]byte("  {\"message\":\"boom\"}\n")))
}
