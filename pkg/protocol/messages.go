// Package protocol defines the wire format exchanged between the bountyclaw
// host and the sandboxed UI surface (editor webview or browser panel).
// This package is importable by UI clients.
package protocol

import "encoding/json"

// Inbound message types (UI → host).
const (
	TypeLogin             = "login"
	TypeLogout            = "logout"
	TypeFetchBounties     = "fetchBounties"
	TypeFetchBountyDetail = "fetchBountyDetail"
	TypeToggleVote        = "toggleVote"
	TypeToggleBookmark    = "toggleBookmark"
	TypeToggleCommentLike = "toggleCommentLike"
	TypeOpenBounty        = "openBounty"
	TypeRefresh           = "refresh"
)

// Outbound message types (host → UI).
const (
	TypeLoginStarted       = "loginStarted"
	TypeLoginError         = "loginError"
	TypeBountiesLoaded     = "bountiesLoaded"
	TypeBountyDetailLoaded = "bountyDetailLoaded"
	TypeVoteToggled        = "voteToggled"
	TypeBookmarkToggled    = "bookmarkToggled"
	TypeCommentLikeToggled = "commentLikeToggled"
	TypeViewState          = "viewState"
	TypeError              = "error"
)

// View names carried by viewState messages.
const (
	ViewLogin    = "login"
	ViewBounties = "bounties"
)

// FetchParams filters a bounty list query.
type FetchParams struct {
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Status     string `json:"status,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Message is the single envelope flowing in both directions. Type selects
// which payload fields are meaningful; all others are omitted on the wire.
type Message struct {
	Type string `json:"type"`

	// Inbound payloads
	Params    *FetchParams `json:"params,omitempty"`
	BountyID  string       `json:"bountyId,omitempty"`
	CommentID string       `json:"commentId,omitempty"`

	// Outbound payloads
	Message      string      `json:"message,omitempty"`
	View         string      `json:"view,omitempty"`
	Bounties     interface{} `json:"bounties,omitempty"`
	BountyDetail interface{} `json:"bountyDetail,omitempty"`
	Voted        *bool       `json:"voted,omitempty"`
	Bookmarked   *bool       `json:"bookmarked,omitempty"`
	Liked        *bool       `json:"liked,omitempty"`
	Count        *int        `json:"count,omitempty"`
}

// ParseType extracts the message type from raw JSON bytes without decoding
// the full payload.
func ParseType(data []byte) (string, error) {
	var raw struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", err
	}
	return raw.Type, nil
}

// NewLoginStarted signals that a device-flow login began.
func NewLoginStarted() *Message {
	return &Message{Type: TypeLoginStarted}
}

// NewLoginError reports a terminal login failure.
func NewLoginError(message string) *Message {
	return &Message{Type: TypeLoginError, Message: message}
}

// NewBountiesLoaded carries a bounty list result.
func NewBountiesLoaded(bounties interface{}) *Message {
	return &Message{Type: TypeBountiesLoaded, Bounties: bounties}
}

// NewBountyDetailLoaded carries a bounty detail result.
func NewBountyDetailLoaded(detail interface{}) *Message {
	return &Message{Type: TypeBountyDetailLoaded, BountyDetail: detail}
}

// NewVoteToggled carries the server-confirmed vote state for a bounty.
// Values are relayed verbatim; the host never recomputes them.
func NewVoteToggled(bountyID string, voted bool, count int) *Message {
	return &Message{Type: TypeVoteToggled, BountyID: bountyID, Voted: &voted, Count: &count}
}

// NewBookmarkToggled carries the server-confirmed bookmark state for a bounty.
func NewBookmarkToggled(bountyID string, bookmarked bool) *Message {
	return &Message{Type: TypeBookmarkToggled, BountyID: bountyID, Bookmarked: &bookmarked}
}

// NewCommentLikeToggled carries the server-confirmed like state for a comment.
func NewCommentLikeToggled(commentID string, liked bool, count int) *Message {
	return &Message{Type: TypeCommentLikeToggled, CommentID: commentID, Liked: &liked, Count: &count}
}

// NewViewState tells the UI surface which top-level view to render.
func NewViewState(view string) *Message {
	return &Message{Type: TypeViewState, View: view}
}

// NewError reports a handler failure. Every inbound message whose handler
// fails produces exactly one of these, so the UI always receives a terminal
// signal.
func NewError(message string) *Message {
	return &Message{Type: TypeError, Message: message}
}
