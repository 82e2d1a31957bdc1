package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExplorer struct {
	mock.Mock
}

func (m *MockExplorer) ListFailingControls(ctx context.Context, account domain.Account) ([]domain.Control, error) {
	args := m.Called(ctx, account)
	controls, _ := args.Get(0).([]domain.Control)
	return controls, args.Error(1)
}

func (m *MockExplorer) ListFailedResources(ctx context.Context, account domain.Account, control domain.Control) ([]string, error) {
	args := m.Called(ctx, account, control)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

var testAccount = domain.Account{Cloud: "aws", AccountID: "111", BU: "fin", Webhook: "https://hook/a"}

func TestRemediationLink(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		expected string
	}{
		{"default base", "", "https://www.qualys.com/cloudview/controls/cid-42.html"},
		{"custom base", "https://docs.example.com", "https://docs.example.com/cloudview/controls/cid-42.html"},
		{"trailing slash", "https://docs.example.com/", "https://docs.example.com/cloudview/controls/cid-42.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemediationLink(tt.base, "42"))
		})
	}
}

func TestBuildAccountReport(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("one record per failing control", func(t *testing.T) {
		explorer := new(MockExplorer)
		c1 := domain.Control{ID: "1", Name: "S3 Public", FailedResources: 2}
		explorer.On("ListFailingControls", ctx, testAccount).Return([]domain.Control{c1}, nil)
		explorer.On("ListFailedResources", ctx, testAccount, c1).Return([]string{"r1", "r3"}, nil)

		b := &builder{explorer: explorer, now: func() time.Time { return fixed }}
		report, err := b.BuildAccountReport(ctx, testAccount)

		require.NoError(t, err)
		assert.Equal(t, fixed, report.GeneratedAt)
		assert.Equal(t, []domain.FailureRecord{{
			AccountID:       "111",
			ControlID:       "1",
			ControlName:     "S3 Public",
			FailedResources: 2,
			ResourceIDs:     []string{"r1", "r3"},
			RemediationLink: "https://www.qualys.com/cloudview/controls/cid-1.html",
		}}, report.Records)
	})

	t.Run("resource failure marks the record incomplete and continues", func(t *testing.T) {
		explorer := new(MockExplorer)
		c1 := domain.Control{ID: "1", Name: "one", FailedResources: 3}
		c2 := domain.Control{ID: "2", Name: "two", FailedResources: 1}
		explorer.On("ListFailingControls", ctx, testAccount).Return([]domain.Control{c1, c2}, nil)
		explorer.On("ListFailedResources", ctx, testAccount, c1).Return([]string{"a"}, errors.New("boom"))
		explorer.On("ListFailedResources", ctx, testAccount, c2).Return([]string{"b"}, nil)

		report, err := NewBuilder(explorer, "").BuildAccountReport(ctx, testAccount)

		require.NoError(t, err)
		require.Len(t, report.Records, 2)
		assert.True(t, report.Records[0].Incomplete)
		assert.Equal(t, 3, report.Records[0].FailedResources)
		assert.Equal(t, []string{"a"}, report.Records[0].ResourceIDs)
		assert.False(t, report.Records[1].Incomplete)
		assert.Equal(t, 1, report.IncompleteCount())
	})

	t.Run("failure on the first resource page yields an empty list", func(t *testing.T) {
		explorer := new(MockExplorer)
		c1 := domain.Control{ID: "1", FailedResources: 1}
		explorer.On("ListFailingControls", ctx, testAccount).Return([]domain.Control{c1}, nil)
		explorer.On("ListFailedResources", ctx, testAccount, c1).Return(nil, errors.New("boom"))

		report, err := NewBuilder(explorer, "").BuildAccountReport(ctx, testAccount)

		require.NoError(t, err)
		assert.Equal(t, []string{}, report.Records[0].ResourceIDs)
		assert.True(t, report.Records[0].Incomplete)
	})

	t.Run("no failing controls", func(t *testing.T) {
		explorer := new(MockExplorer)
		explorer.On("ListFailingControls", ctx, testAccount).Return([]domain.Control{}, nil)

		report, err := NewBuilder(explorer, "").BuildAccountReport(ctx, testAccount)

		require.NoError(t, err)
		assert.Empty(t, report.Records)
		explorer.AssertNotCalled(t, "ListFailedResources", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("evaluation failure fails the account", func(t *testing.T) {
		explorer := new(MockExplorer)
		upstream := &domain.UpstreamRequestError{Endpoint: "evaluations", AccountID: "111", StatusCode: 500}
		explorer.On("ListFailingControls", ctx, testAccount).Return(nil, upstream)

		report, err := NewBuilder(explorer, "").BuildAccountReport(ctx, testAccount)

		assert.Nil(t, report)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}
