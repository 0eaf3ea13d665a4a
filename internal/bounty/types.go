// Package bounty implements the domain calls against the bounty.new API:
// listing, detail, and the server-confirmed vote/bookmark/like toggles.
package bounty

// BountyStatus enumerates the lifecycle states a bounty can be in.
type BountyStatus string

const (
	StatusDraft      BountyStatus = "draft"
	StatusOpen       BountyStatus = "open"
	StatusInProgress BountyStatus = "in_progress"
	StatusCompleted  BountyStatus = "completed"
	StatusCancelled  BountyStatus = "cancelled"
)

// BountyDifficulty enumerates the difficulty tiers.
type BountyDifficulty string

const (
	DifficultyBeginner     BountyDifficulty = "beginner"
	DifficultyIntermediate BountyDifficulty = "intermediate"
	DifficultyAdvanced     BountyDifficulty = "advanced"
	DifficultyExpert       BountyDifficulty = "expert"
)

// Creator identifies the user who posted a bounty.
type Creator struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// Bounty is a read-only projection of remote state. The engagement fields
// (CommentCount, VoteCount, IsVoted, Bookmarked) are merged in from the
// batched stats call; they are never computed locally.
type Bounty struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   *string          `json:"description"`
	Status        BountyStatus     `json:"status"`
	Difficulty    BountyDifficulty `json:"difficulty"`
	Amount        *float64         `json:"amount"`
	Currency      *string          `json:"currency"`
	Deadline      *string          `json:"deadline"`
	Tags          []string         `json:"tags"`
	RepositoryURL *string          `json:"repositoryUrl"`
	CreatedAt     string           `json:"createdAt"`
	UpdatedAt     string           `json:"updatedAt"`
	Creator       Creator          `json:"creator"`

	CommentCount int  `json:"commentCount"`
	VoteCount    int  `json:"voteCount"`
	IsVoted      bool `json:"isVoted"`
	Bookmarked   bool `json:"bookmarked"`
}

// Comment is one comment on a bounty detail page.
type Comment struct {
	ID              string  `json:"id"`
	Content         string  `json:"content"`
	OriginalContent *string `json:"originalContent"`
	ParentID        *string `json:"parentId"`
	CreatedAt       string  `json:"createdAt"`
	EditCount       int     `json:"editCount"`
	LikeCount       int     `json:"likeCount"`
	IsLiked         bool    `json:"isLiked"`
	User            Creator `json:"user"`
}

// VoteState is the vote tally on a bounty detail.
type VoteState struct {
	Count   int  `json:"count"`
	IsVoted bool `json:"isVoted"`
}

// BountyDetail is the full view of a single bounty.
type BountyDetail struct {
	Bounty     Bounty    `json:"bounty"`
	Votes      VoteState `json:"votes"`
	Bookmarked bool      `json:"bookmarked"`
	Comments   []Comment `json:"comments"`
}

// FetchParams filters a list query. Zero values fall back to the defaults
// (page 1, limit 20, no status/difficulty filter).
type FetchParams struct {
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Status     string `json:"status,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// VoteResult is the server-confirmed state after a vote toggle.
type VoteResult struct {
	Voted bool `json:"voted"`
	Count int  `json:"count"`
}

// BookmarkResult is the server-confirmed state after a bookmark toggle.
type BookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
}

// LikeResult is the server-confirmed state after a comment-like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

// bountyStats is one entry of the batched engagement-stats response.
type bountyStats struct {
	BountyID     string `json:"bountyId"`
	CommentCount int    `json:"commentCount"`
	VoteCount    int    `json:"voteCount"`
	IsVoted      bool   `json:"isVoted"`
	Bookmarked   bool   `json:"bookmarked"`
}
