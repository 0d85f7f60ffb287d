package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/domain"
)

func TestCommissionRepo_ListScopedToOrg(t *testing.T) {
	tr := newTestRepos(t)
	orgA := tr.createOrg(t, "org-a")
	orgB := tr.createOrg(t, "org-b")
	userA := tr.createUser(t, orgA.ID, "alice", "alice@a.test")
	userB := tr.createUser(t, orgB.ID, "bob", "bob@b.test")
	dealA := tr.createDeal(t, orgA.ID, "deal-a", 10000, 20, domain.StageClosed)
	dealB := tr.createDeal(t, orgB.ID, "deal-b", 5000, 10, domain.StageClosed)

	ctx := context.Background()
	_, err := tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: dealA.ID, UserID: userA.ID, Amount: 2000})
	require.NoError(t, err)
	_, err = tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: dealB.ID, UserID: userB.ID, Amount: 500})
	require.NoError(t, err)

	entries, total, err := tr.commissions.List(ctx, orgA.ID, domain.CommissionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "deal-a", entries[0].DealTitle)
	assert.Equal(t, "alice", entries[0].UserName)
	assert.Equal(t, 2000.0, entries[0].Amount)
	assert.Equal(t, 20.0, entries[0].CommissionRate)
}

func TestCommissionRepo_ListFilters(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	alice := tr.createUser(t, org.ID, "alice", "alice@acme.test")
	bob := tr.createUser(t, org.ID, "bob", "bob@acme.test")
	deal := tr.createDeal(t, org.ID, "deal", 10000, 20, domain.StageClosed)

	ctx := context.Background()
	_, err := tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: deal.ID, UserID: alice.ID, Amount: 2000})
	require.NoError(t, err)
	_, err = tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: deal.ID, UserID: bob.ID, Amount: 300})
	require.NoError(t, err)

	entries, total, err := tr.commissions.List(ctx, org.ID, domain.CommissionFilter{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, alice.ID, entries[0].UserID)

	entries, total, err = tr.commissions.List(ctx, org.ID, domain.CommissionFilter{DealID: &deal.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, entries, 2)
}

func TestCommissionRepo_Summary(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	user := tr.createUser(t, org.ID, "alice", "alice@acme.test")
	deal := tr.createDeal(t, org.ID, "deal", 50000, 15, domain.StageClosed)
	tr.createDeal(t, org.ID, "open", 1000, 5, domain.StageProspect)

	ctx := context.Background()
	_, err := tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: deal.ID, UserID: user.ID, Amount: 7500})
	require.NoError(t, err)

	s, err := tr.commissions.Summary(ctx, org.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 7500.0, s.TotalCommissions)
	assert.Equal(t, int64(2), s.TotalDeals)
	assert.Equal(t, 10.0, s.AverageCommissionRate)
	assert.Equal(t, 7500.0, s.CommissionsThisMonth)
	assert.Equal(t, 7500.0, s.CommissionsThisYear)
}

func TestCommissionRepo_ByUser_IncludesUsersWithoutEntries(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	alice := tr.createUser(t, org.ID, "alice", "alice@acme.test")
	tr.createUser(t, org.ID, "bob", "bob@acme.test")
	deal := tr.createDeal(t, org.ID, "deal", 10000, 20, domain.StageClosed)

	ctx := context.Background()
	_, err := tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: deal.ID, UserID: alice.ID, Amount: 2000})
	require.NoError(t, err)

	byUser, err := tr.commissions.ByUser(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	assert.Equal(t, "alice", byUser[0].UserName)
	assert.Equal(t, 2000.0, byUser[0].TotalCommissions)
	assert.Equal(t, int64(1), byUser[0].TotalDeals)
	assert.Equal(t, 20.0, byUser[0].AverageCommissionRate)

	assert.Equal(t, "bob", byUser[1].UserName)
	assert.Equal(t, 0.0, byUser[1].TotalCommissions)
	assert.Equal(t, int64(0), byUser[1].TotalDeals)
}

func TestCommissionRepo_ListPagination(t *testing.T) {
	tr := newTestRepos(t)
	org := tr.createOrg(t, "acme")
	user := tr.createUser(t, org.ID, "alice", "alice@acme.test")
	deal := tr.createDeal(t, org.ID, "deal", 10000, 20, domain.StageClosed)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := tr.commissions.Insert(ctx, &domain.CommissionEntry{DealID: deal.ID, UserID: user.ID, Amount: float64(100 * (i + 1))})
		require.NoError(t, err)
	}

	page := domain.PageRequest{MaxResults: 2}
	seen := 0
	for {
		entries, total, err := tr.commissions.List(ctx, org.ID, domain.CommissionFilter{Page: page})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		seen += len(entries)

		next := domain.NextPageToken(page.Offset(), page.Limit(), total)
		if next == "" {
			assert.Len(t, entries, 1, "last page holds the remainder")
			break
		}
		assert.Len(t, entries, 2)
		page.PageToken = next
	}
	assert.Equal(t, 5, seen)
}
