// Package gateway is the UI boundary of the host: it serves the WebSocket
// endpoint UI surfaces connect to, routes their typed intents to the auth
// engine and the bounty service, and pushes typed results back. Any handler
// failure becomes exactly one outbound error message; the UI never hangs
// waiting for a reply that will not come.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nextlevelbuilder/bountyclaw/internal/auth"
	"github.com/nextlevelbuilder/bountyclaw/internal/bounty"
	"github.com/nextlevelbuilder/bountyclaw/internal/config"
	"github.com/nextlevelbuilder/bountyclaw/internal/session"
	"github.com/nextlevelbuilder/bountyclaw/pkg/protocol"
)

// Handler processes one inbound message for one client.
type Handler func(ctx context.Context, client *Client, msg *protocol.Message) error

// Router maps inbound message types to handlers and owns the per-view render
// lifecycle (login view vs. authenticated view).
type Router struct {
	cfg      *config.Config
	sessions *session.Manager
	engine   *auth.Engine
	bounties *bounty.Service
	openURL  func(url string) error

	handlers map[string]Handler
}

// NewRouter wires the dispatch table.
func NewRouter(cfg *config.Config, sessions *session.Manager, engine *auth.Engine, bounties *bounty.Service, openURL func(string) error) *Router {
	r := &Router{
		cfg:      cfg,
		sessions: sessions,
		engine:   engine,
		bounties: bounties,
		openURL:  openURL,
	}
	r.handlers = map[string]Handler{
		protocol.TypeLogin:             r.handleLogin,
		protocol.TypeLogout:            r.handleLogout,
		protocol.TypeFetchBounties:     r.handleFetchBounties,
		protocol.TypeFetchBountyDetail: r.handleFetchBountyDetail,
		protocol.TypeToggleVote:        r.handleToggleVote,
		protocol.TypeToggleBookmark:    r.handleToggleBookmark,
		protocol.TypeToggleCommentLike: r.handleToggleCommentLike,
		protocol.TypeOpenBounty:        r.handleOpenBounty,
		protocol.TypeRefresh:           r.handleRefresh,
	}
	return r
}

// Dispatch routes one inbound message. Unknown types are logged and dropped
// without a reply; a failing or panicking handler produces exactly one
// outbound error message.
func (r *Router) Dispatch(ctx context.Context, client *Client, msg *protocol.Message) {
	handler, ok := r.handlers[msg.Type]
	if !ok {
		slog.Warn("unknown message type", "type", msg.Type, "client", client.ID())
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("handler panicked", "type", msg.Type, "client", client.ID(), "panic", rec)
			client.Send(protocol.NewError(fmt.Sprintf("internal error handling %s", msg.Type)))
		}
	}()

	slog.Debug("handling message", "type", msg.Type, "client", client.ID())
	if err := handler(ctx, client, msg); err != nil {
		slog.Warn("handler failed", "type", msg.Type, "client", client.ID(), "error", err)
		client.Send(protocol.NewError(err.Error()))
	}
}

// RenderView pushes the view matching the current session state. A valid
// session selects the bounties view and immediately kicks off the initial
// list fetch; otherwise the login view is shown.
func (r *Router) RenderView(ctx context.Context, client *Client) {
	if r.sessions.IsAuthenticated() {
		client.Send(protocol.NewViewState(protocol.ViewBounties))
		if err := r.handleFetchBounties(ctx, client, &protocol.Message{Type: protocol.TypeFetchBounties}); err != nil {
			client.Send(protocol.NewError(err.Error()))
		}
	} else {
		client.Send(protocol.NewViewState(protocol.ViewLogin))
	}
}

func (r *Router) handleLogin(ctx context.Context, client *Client, _ *protocol.Message) error {
	client.Send(protocol.NewLoginStarted())

	err := r.engine.InitiateLogin(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrLoginInFlight) {
			client.Send(protocol.NewLoginError("a login attempt is already in progress"))
			return nil
		}
		client.Send(protocol.NewLoginError(err.Error()))
		return nil
	}

	r.RenderView(ctx, client)
	return nil
}

func (r *Router) handleLogout(ctx context.Context, client *Client, _ *protocol.Message) error {
	if err := r.sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	slog.Info("logged out", "client", client.ID())
	r.RenderView(ctx, client)
	return nil
}

func (r *Router) handleFetchBounties(ctx context.Context, client *Client, msg *protocol.Message) error {
	params := bounty.FetchParams{}
	if msg.Params != nil {
		params = bounty.FetchParams{
			Page:       msg.Params.Page,
			Limit:      msg.Params.Limit,
			Status:     msg.Params.Status,
			Difficulty: msg.Params.Difficulty,
		}
	}

	bounties, err := r.bounties.FetchBounties(ctx, params)
	if err != nil {
		return fmt.Errorf("fetch bounties: %w", err)
	}
	client.Send(protocol.NewBountiesLoaded(bounties))
	return nil
}

func (r *Router) handleFetchBountyDetail(ctx context.Context, client *Client, msg *protocol.Message) error {
	if msg.BountyID == "" {
		return errors.New("fetchBountyDetail requires bountyId")
	}
	detail, err := r.bounties.FetchBountyByID(ctx, msg.BountyID)
	if err != nil {
		return fmt.Errorf("fetch bounty detail: %w", err)
	}
	client.Send(protocol.NewBountyDetailLoaded(detail))
	return nil
}

func (r *Router) handleToggleVote(ctx context.Context, client *Client, msg *protocol.Message) error {
	if msg.BountyID == "" {
		return errors.New("toggleVote requires bountyId")
	}
	result, err := r.bounties.ToggleVote(ctx, msg.BountyID)
	if err != nil {
		return fmt.Errorf("toggle vote: %w", err)
	}
	client.Send(protocol.NewVoteToggled(msg.BountyID, result.Voted, result.Count))
	return nil
}

func (r *Router) handleToggleBookmark(ctx context.Context, client *Client, msg *protocol.Message) error {
	if msg.BountyID == "" {
		return errors.New("toggleBookmark requires bountyId")
	}
	result, err := r.bounties.ToggleBookmark(ctx, msg.BountyID)
	if err != nil {
		return fmt.Errorf("toggle bookmark: %w", err)
	}
	client.Send(protocol.NewBookmarkToggled(msg.BountyID, result.Bookmarked))
	return nil
}

func (r *Router) handleToggleCommentLike(ctx context.Context, client *Client, msg *protocol.Message) error {
	if msg.CommentID == "" {
		return errors.New("toggleCommentLike requires commentId")
	}
	result, err := r.bounties.ToggleCommentLike(ctx, msg.CommentID)
	if err != nil {
		return fmt.Errorf("toggle comment like: %w", err)
	}
	client.Send(protocol.NewCommentLikeToggled(msg.CommentID, result.Liked, result.Count))
	return nil
}

// handleOpenBounty opens the bounty's web page externally. It sends no reply
// on success; a failed browser launch still surfaces as an error message.
func (r *Router) handleOpenBounty(_ context.Context, _ *Client, msg *protocol.Message) error {
	if msg.BountyID == "" {
		return errors.New("openBounty requires bountyId")
	}
	url := r.cfg.BountyURL(msg.BountyID)
	if err := r.openURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func (r *Router) handleRefresh(ctx context.Context, client *Client, _ *protocol.Message) error {
	r.RenderView(ctx, client)
	return nil
}
