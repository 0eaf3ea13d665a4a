package bounty

import (
	"context"
	"log/slog"

	"github.com/nextlevelbuilder/bountyclaw/internal/api"
)

// Default list paging.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Service issues bounty domain calls through the API gateway.
type Service struct {
	api *api.Client
}

// NewService creates a bounty service on top of the given API client.
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// FetchBounties lists bounties, then batch-fetches engagement stats for the
// returned IDs and left-merges them onto each record. A failing stats call
// degrades to the unmerged list instead of failing the whole query; an empty
// list never issues the stats call.
func (s *Service) FetchBounties(ctx context.Context, params FetchParams) ([]Bounty, error) {
	input := map[string]interface{}{
		"page":  params.Page,
		"limit": params.Limit,
	}
	if params.Page <= 0 {
		input["page"] = DefaultPage
	}
	if params.Limit <= 0 {
		input["limit"] = DefaultLimit
	}
	if params.Status != "" {
		input["status"] = params.Status
	}
	if params.Difficulty != "" {
		input["difficulty"] = params.Difficulty
	}

	var listResp struct {
		Data []Bounty `json:"data"`
	}
	if err := s.api.Call(ctx, "bounties.fetchAllBounties", input, false, &listResp); err != nil {
		return nil, err
	}

	bounties := listResp.Data
	if len(bounties) == 0 {
		return bounties, nil
	}

	ids := make([]string, len(bounties))
	for i, b := range bounties {
		ids[i] = b.ID
	}

	var statsResp struct {
		Stats []bountyStats `json:"stats"`
	}
	err := s.api.Call(ctx, "bounties.getBountyStatsMany",
		map[string]interface{}{"bountyIds": ids}, false, &statsResp)
	if err != nil {
		// Degraded but non-fatal: the list still renders without counts.
		slog.Warn("bounty stats fetch failed, returning unmerged list", "error", err)
		return bounties, nil
	}

	byID := make(map[string]bountyStats, len(statsResp.Stats))
	for _, st := range statsResp.Stats {
		byID[st.BountyID] = st
	}
	for i := range bounties {
		st, ok := byID[bounties[i].ID]
		if !ok {
			continue
		}
		bounties[i].CommentCount = st.CommentCount
		bounties[i].VoteCount = st.VoteCount
		bounties[i].IsVoted = st.IsVoted
		bounties[i].Bookmarked = st.Bookmarked
	}

	return bounties, nil
}

// FetchBountyByID returns the full detail for one bounty.
func (s *Service) FetchBountyByID(ctx context.Context, id string) (*BountyDetail, error) {
	var detail BountyDetail
	err := s.api.Call(ctx, "bounties.getBountyDetail",
		map[string]string{"id": id}, false, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Stats returns the aggregate bounty stats for the current user.
func (s *Service) Stats(ctx context.Context) (map[string]interface{}, error) {
	var stats map[string]interface{}
	err := s.api.Call(ctx, "bounties.getBountyStats",
		map[string]interface{}{}, false, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ToggleVote flips the caller's vote on a bounty and returns the
// server-confirmed state verbatim.
func (s *Service) ToggleVote(ctx context.Context, bountyID string) (*VoteResult, error) {
	var result VoteResult
	err := s.api.Call(ctx, "bounties.voteBounty",
		map[string]string{"bountyId": bountyID}, true, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleBookmark flips the caller's bookmark on a bounty.
func (s *Service) ToggleBookmark(ctx context.Context, bountyID string) (*BookmarkResult, error) {
	var result BookmarkResult
	err := s.api.Call(ctx, "bounties.toggleBountyBookmark",
		map[string]string{"bountyId": bountyID}, true, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleCommentLike flips the caller's like on a comment.
func (s *Service) ToggleCommentLike(ctx context.Context, commentID string) (*LikeResult, error) {
	var result LikeResult
	err := s.api.Call(ctx, "bounties.toggleCommentLike",
		map[string]string{"commentId": commentID}, true, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
