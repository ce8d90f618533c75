package google

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/azuracommerce/go-storefront/gateway"
	"github.com/goliatone/go-router"
)

// BridgeState tracks where a credential is in the sign-in flow. The
// browser half (script loading, prompting, credential capture) happens
// client side; the bridge picks up once the credential is posted and moves
// it through Exchanging into Accepted or FallbackAccepted.
type BridgeState string

const (
	StateExchanging       BridgeState = "exchanging"
	StateAccepted         BridgeState = "accepted"
	StateFallbackAccepted BridgeState = "fallback_accepted"
)

// Exchanger is the slice of the gateway the bridge needs.
type Exchanger interface {
	GoogleLogin(ctx context.Context, req gateway.GoogleLoginRequest) (string, error)
}

// Bridge completes Google sign-in server side: decode the posted
// credential, try the upstream exchange, and when the upstream refuses,
// fall back to a locally synthesized session so the user still gets in.
//
// The fallback is a deliberate availability trade: the session it creates
// was never confirmed by the upstream. Every engagement is logged at Error
// level and recorded through the activity sink.
type Bridge struct {
	exchanger Exchanger
	store     storefront.SessionStore
	cfg       storefront.Config
	machine   *storefront.SessionStateMachine
	activity  storefront.ActivitySink
	Logger    storefront.Logger
}

type BridgeOption func(*Bridge)

func WithBridgeLogger(logger storefront.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.Logger = logger
		}
	}
}

func WithBridgeStateMachine(machine *storefront.SessionStateMachine) BridgeOption {
	return func(b *Bridge) {
		b.machine = machine
	}
}

func WithBridgeActivitySink(sink storefront.ActivitySink) BridgeOption {
	return func(b *Bridge) {
		if sink != nil {
			b.activity = sink
		}
	}
}

func NewBridge(exchanger Exchanger, store storefront.SessionStore, cfg storefront.Config, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		exchanger: exchanger,
		store:     store,
		cfg:       cfg,
		Logger:    storefront.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	return b
}

// HandleCredential runs CredentialReceived through Accepted or
// FallbackAccepted and navigates to the landing route either way. Only a
// malformed credential errors out; an upstream rejection does not.
func (b *Bridge) HandleCredential(c router.Context, credential string) error {
	payload, err := DecodeCredential(credential)
	if err != nil {
		b.Logger.Error("google credential rejected: %s", err)
		return err
	}

	b.transition(c.Context(), storefront.SessionStateAuthenticating, string(StateExchanging))

	token, err := b.exchanger.GoogleLogin(c.Context(), gateway.GoogleLoginRequest{
		Email:       payload.Email,
		Password:    SyntheticPassword(payload.ID),
		Provider:    ProviderName,
		GoogleToken: credential,
	})

	state := StateAccepted
	if err != nil {
		state = StateFallbackAccepted
		token = storefront.FallbackToken(credential)

		b.Logger.Error("google exchange rejected, engaging local fallback: %s", err)

		serialized, merr := json.Marshal(payload)
		if merr != nil {
			b.Logger.Error("unable to serialize identity payload: %s", merr)
		} else {
			b.store.SetIdentity(c, string(serialized))
		}
	}

	b.store.Set(c, token)
	b.transition(c.Context(), storefront.SessionStateAuthenticated, string(state))
	b.recordOutcome(c.Context(), payload, state)

	return b.navigateLanding(c)
}

// navigateLanding redirects to the landing route; when the redirect cannot
// be written it degrades to a script driven location change, the session
// cookie is already set either way.
func (b *Bridge) navigateLanding(c router.Context) error {
	landing := b.cfg.GetLandingRoute()
	if err := c.Redirect(landing, http.StatusSeeOther); err != nil {
		b.Logger.Warn("redirect failed, falling back to location change: %s", err)
		return c.Status(http.StatusOK).
			SendString(`<script>window.location.replace(` + strconv.Quote(landing) + `)</script>`)
	}
	return nil
}

func (b *Bridge) transition(ctx context.Context, target storefront.SessionState, reason string) {
	if b.machine == nil {
		return
	}
	if err := b.machine.Transition(ctx, storefront.ActorRef{Type: "oauth_bridge"}, target,
		storefront.WithTransitionReason(reason),
	); err != nil {
		b.Logger.Debug("state transition skipped: %v", err)
	}
}

func (b *Bridge) recordOutcome(ctx context.Context, payload *IdentityPayload, state BridgeState) {
	eventType := storefront.ActivityEventSocialLogin
	if state == StateFallbackAccepted {
		eventType = storefront.ActivityEventSocialFallback
	}

	if b.activity == nil {
		return
	}

	if err := b.activity.Record(ctx, storefront.ActivityEvent{
		EventType: eventType,
		Actor:     storefront.ActorRef{ID: payload.Email, Type: "user"},
		UserID:    payload.ID,
		Metadata: map[string]any{
			"provider": ProviderName,
			"state":    string(state),
		},
	}); err != nil {
		b.Logger.Warn("activity sink error: %v", err)
	}
}
