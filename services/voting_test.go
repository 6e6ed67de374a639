package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cofondo-backend/models"
	"cofondo-backend/services"
)

func testGroup(memberWallets ...string) *models.Group {
	g := &models.Group{ID: 1, Name: "Alpha Investment Group", Status: models.GroupActive}
	for _, w := range memberWallets {
		g.Members = append(g.Members, models.GroupMember{GroupID: 1, Wallet: w})
	}
	return g
}

func addVote(p *models.Proposal, voter string, choice models.VoteChoice) {
	p.Votes = append(p.Votes, models.VoteRecord{ProposalID: p.ID, Voter: voter, Choice: choice})
}

func TestRequiredVotes(t *testing.T) {
	tests := []struct {
		members int
		want    int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{7, 4},
		{10, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, services.RequiredVotes(tt.members), "members=%d", tt.members)
	}
}

func TestNewInviteProposal_SeedsInitiatorYes(t *testing.T) {
	group := testGroup("0xaaa1", "0xbbb2", "0xccc3", "0xddd4")
	now := time.Now()

	p := services.NewInviteProposal(group, "0xAAA1", "0x1234567890abcdef1234567890abcdef1234abcd", "Welcome!", now)

	require.Len(t, p.Votes, 1)
	assert.Equal(t, "0xaaa1", p.Votes[0].Voter)
	assert.Equal(t, models.VoteYes, p.Votes[0].Choice)
	assert.Equal(t, 2, p.RequiredVotes)
	assert.Equal(t, now.Add(services.VotingWindow), p.Deadline)
	assert.Equal(t, models.ProposalInvite, p.Kind)
	assert.True(t, services.HasVoted(p, "0xaaa1"))

	tally := services.TallyVotes(p)
	assert.Equal(t, 1, tally.Yes)
	assert.Equal(t, 0, tally.No)

	// the initiator is already counted and may not vote again
	assert.False(t, services.CanVote(p, "0xaaa1", group, now))
}

func TestNewFundRequestProposal(t *testing.T) {
	group := testGroup("0xaaa1", "0xbbb2", "0xccc3")
	now := time.Now()

	p := services.NewFundRequestProposal(group, "0xbbb2", models.FundProposalRequest{
		Amount:      1.5,
		Purpose:     "medical expenses",
		Destination: "0x1234567890abcdef1234567890abcdef1234abcd",
		Description: "Emergency withdrawal",
	}, now)

	assert.Equal(t, models.ProposalFundRequest, p.Kind)
	assert.Equal(t, 2, p.RequiredVotes)
	assert.Equal(t, 1.5, p.Amount)
	assert.Equal(t, "0xbbb2", p.InitiatedBy)
	require.Len(t, p.Votes, 1)
	assert.Equal(t, models.VoteYes, p.Votes[0].Choice)
}

func TestApproval_FourMemberGroup(t *testing.T) {
	group := testGroup("0xaaa1", "0xbbb2", "0xccc3", "0xddd4")
	now := time.Now()

	p := services.NewFundRequestProposal(group, "0xaaa1", models.FundProposalRequest{
		Amount: 1, Purpose: "test", Destination: "0x1234567890abcdef1234567890abcdef1234abcd",
	}, now)
	require.Equal(t, 2, p.RequiredVotes)

	// initiator auto-yes alone is not enough
	assert.False(t, services.IsApproved(p))
	assert.False(t, services.IsRejected(p, len(group.Members)))

	// one more yes reaches the threshold
	addVote(p, "0xbbb2", models.VoteYes)
	assert.True(t, services.IsApproved(p))
	assert.False(t, services.IsRejected(p, len(group.Members)))

	// approval is independent of elapsed time
	assert.True(t, services.IsApproved(p))
	assert.True(t, services.IsExpired(p, now.Add(48*time.Hour)))
}

func TestRejection_FourMemberGroup(t *testing.T) {
	group := testGroup("0xaaa1", "0xbbb2", "0xccc3", "0xddd4")
	now := time.Now()

	p := services.NewFundRequestProposal(group, "0xaaa1", models.FundProposalRequest{
		Amount: 1, Purpose: "test", Destination: "0x1234567890abcdef1234567890abcdef1234abcd",
	}, now)

	// two no votes: one member could still push yes to 2, not rejected yet
	addVote(p, "0xbbb2", models.VoteNo)
	addVote(p, "0xccc3", models.VoteNo)
	assert.False(t, services.IsRejected(p, len(group.Members)))
	assert.False(t, services.IsApproved(p))

	// last member votes no: 1 yes + 0 remaining < 2 required
	addVote(p, "0xddd4", models.VoteNo)
	assert.True(t, services.IsRejected(p, len(group.Members)))
	assert.False(t, services.IsApproved(p))
}

func TestApprovedAndRejectedAreExclusive(t *testing.T) {
	group := testGroup("0xaaa1", "0xbbb2", "0xccc3", "0xddd4", "0xeee5")
	now := time.Now()

	p := services.NewInviteProposal(group, "0xaaa1", "0x1234567890abcdef1234567890abcdef1234abcd", "", now)

	voters := []string{"0xbbb2", "0xccc3", "0xddd4", "0xeee5"}
	choices := []models.VoteChoice{models.VoteNo, models.VoteYes, models.VoteNo, models.VoteYes}
	for i, v := range voters {
		assert.False(t, services.IsApproved(p) && services.IsRejected(p, len(group.Members)))
		addVote(p, v, choices[i])
	}
	assert.False(t, services.IsApproved(p) && services.IsRejected(p, len(group.Members)))
}

func TestProgressPercent(t *testing.T) {
	p := &models.Proposal{RequiredVotes: 2}
	assert.Equal(t, 0.0, services.ProgressPercent(p))

	addVote(p, "0xaaa1", models.VoteYes)
	assert.Equal(t, 50.0, services.ProgressPercent(p))

	addVote(p, "0xbbb2", models.VoteNo)
	assert.Equal(t, 50.0, services.ProgressPercent(p))

	addVote(p, "0xccc3", models.VoteYes)
	addVote(p, "0xddd4", models.VoteYes)
	assert.Equal(t, 100.0, services.ProgressPercent(p), "capped at 100")
}

func TestTimeRemaining(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	// the stored deadline is deliberately wrong: the countdown must
	// recompute from DateInitiated
	p := &models.Proposal{DateInitiated: start, Deadline: start.Add(72 * time.Hour)}

	tests := []struct {
		name string
		now  time.Time
		want models.Countdown
	}{
		{"just created", start, models.Countdown{Hours: 24, Minutes: 0}},
		{"half hour left", start.Add(23*time.Hour + 30*time.Minute), models.Countdown{Hours: 0, Minutes: 30}},
		{"ten hours left", start.Add(13*time.Hour + 15*time.Minute), models.Countdown{Hours: 10, Minutes: 45}},
		{"exactly 24h", start.Add(24 * time.Hour), models.Countdown{Expired: true}},
		{"long past", start.Add(25 * time.Hour), models.Countdown{Expired: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.TimeRemaining(p, tt.now))
			assert.Equal(t, tt.want.Expired, services.IsExpired(p, tt.now))
		})
	}
}

func TestCanVote(t *testing.T) {
	group := testGroup("0xaaa1", "0xbbb2", "0xccc3", "0xddd4")
	now := time.Now()

	fresh := func() *models.Proposal {
		return services.NewInviteProposal(group, "0xaaa1", "0x1234567890abcdef1234567890abcdef1234abcd", "", now)
	}

	t.Run("eligible member", func(t *testing.T) {
		assert.True(t, services.CanVote(fresh(), "0xbbb2", group, now))
	})

	t.Run("case-insensitive wallet", func(t *testing.T) {
		assert.True(t, services.CanVote(fresh(), "0xBBB2", group, now))
	})

	t.Run("non-member", func(t *testing.T) {
		assert.False(t, services.CanVote(fresh(), "0xffff", group, now))
	})

	t.Run("initiator", func(t *testing.T) {
		assert.False(t, services.CanVote(fresh(), "0xaaa1", group, now))
	})

	t.Run("already voted", func(t *testing.T) {
		p := fresh()
		addVote(p, "0xbbb2", models.VoteNo)
		assert.False(t, services.CanVote(p, "0xbbb2", group, now))
	})

	t.Run("approved proposal is closed", func(t *testing.T) {
		p := fresh()
		addVote(p, "0xbbb2", models.VoteYes)
		require.True(t, services.IsApproved(p))
		assert.False(t, services.CanVote(p, "0xccc3", group, now))
	})

	t.Run("rejected proposal is closed", func(t *testing.T) {
		five := testGroup("0xaaa1", "0xbbb2", "0xccc3", "0xddd4", "0xeee5")
		p := services.NewInviteProposal(five, "0xaaa1", "0x1234567890abcdef1234567890abcdef1234abcd", "", now)
		addVote(p, "0xbbb2", models.VoteNo)
		addVote(p, "0xccc3", models.VoteNo)
		addVote(p, "0xddd4", models.VoteNo)
		require.True(t, services.IsRejected(p, len(five.Members)))
		assert.False(t, services.CanVote(p, "0xeee5", five, now))
	})

	t.Run("expired proposal is closed", func(t *testing.T) {
		assert.False(t, services.CanVote(fresh(), "0xbbb2", group, now.Add(24*time.Hour)))
	})
}

func TestVoteOf(t *testing.T) {
	p := &models.Proposal{RequiredVotes: 2}
	addVote(p, "0xaaa1", models.VoteNo)

	choice, ok := services.VoteOf(p, "0xAAA1")
	require.True(t, ok)
	assert.Equal(t, models.VoteNo, choice)

	_, ok = services.VoteOf(p, "0xbbb2")
	assert.False(t, ok)
}
