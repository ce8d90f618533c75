package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SessionState models the lifecycle of the browser session.
type SessionState string

const (
	SessionStateAnonymous      SessionState = "anonymous"
	SessionStateAuthenticating SessionState = "authenticating"
	SessionStateAuthenticated  SessionState = "authenticated"
	SessionStateExpired        SessionState = "expired"
)

// TransitionMetadata captures extra context for a transition.
type TransitionMetadata struct {
	Reason   string
	Metadata map[string]any
}

// TransitionContext is passed into hooks for additional processing.
type TransitionContext struct {
	Actor ActorRef
	From  SessionState
	To    SessionState
	Meta  TransitionMetadata
}

// TransitionHook is executed before or after a transition.
type TransitionHook func(ctx context.Context, tc TransitionContext) error

// TransitionHookPhase identifies whether a hook ran before or after the
// state change was applied.
type TransitionHookPhase string

const (
	HookPhaseBefore TransitionHookPhase = "before_transition"
	HookPhaseAfter  TransitionHookPhase = "after_transition"
)

// TransitionOption customizes a single transition.
type TransitionOption func(*transitionOptions)

// HookErrorHandler handles errors surfaced by transition hooks.
type HookErrorHandler func(ctx context.Context, phase TransitionHookPhase, err error, tc TransitionContext) error

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*SessionStateMachine)

// WithStateMachineClock injects a custom clock (useful for tests).
func WithStateMachineClock(clock func() time.Time) StateMachineOption {
	return func(sm *SessionStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithStateMachineActivitySink sets the ActivitySink used to publish
// lifecycle events.
func WithStateMachineActivitySink(sink ActivitySink) StateMachineOption {
	return func(sm *SessionStateMachine) {
		sm.activitySink = normalizeActivitySink(sink)
	}
}

// WithStateMachineHookErrorHandler overrides how hook failures are
// propagated. The default handler panics with guidance for developers.
func WithStateMachineHookErrorHandler(handler HookErrorHandler) StateMachineOption {
	return func(sm *SessionStateMachine) {
		if handler != nil {
			sm.hookErrorHandler = handler
		}
	}
}

// WithStateMachineLogger overrides the logger used for sink failures.
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *SessionStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// WithTransitionReason sets the human-readable reason for the transition.
func WithTransitionReason(reason string) TransitionOption {
	return func(opts *transitionOptions) {
		opts.metadata.Reason = reason
	}
}

// WithTransitionMetadata merges metadata into the transition context.
func WithTransitionMetadata(metadata map[string]any) TransitionOption {
	return func(opts *transitionOptions) {
		if len(metadata) == 0 {
			return
		}
		if opts.metadata.Metadata == nil {
			opts.metadata.Metadata = make(map[string]any, len(metadata))
		}
		for k, v := range metadata {
			opts.metadata.Metadata[k] = v
		}
	}
}

// WithForceTransition bypasses validation rules (use sparingly).
func WithForceTransition() TransitionOption {
	return func(opts *transitionOptions) {
		opts.force = true
	}
}

// WithBeforeTransitionHook adds a hook executed before the state update.
func WithBeforeTransitionHook(h TransitionHook) TransitionOption {
	return func(opts *transitionOptions) {
		if h != nil {
			opts.beforeHooks = append(opts.beforeHooks, h)
		}
	}
}

// WithAfterTransitionHook adds a hook executed after the state update.
func WithAfterTransitionHook(h TransitionHook) TransitionOption {
	return func(opts *transitionOptions) {
		if h != nil {
			opts.afterHooks = append(opts.afterHooks, h)
		}
	}
}

// NewSessionStateMachine returns a machine starting at anonymous.
//
// Allowed transitions:
//
//	anonymous      -> authenticating, authenticated
//	authenticating -> authenticated, anonymous
//	authenticated  -> expired, anonymous
//	expired        -> anonymous, authenticating
//
// anonymous -> authenticated covers bootstrap restores where a stored
// cookie is trusted or verified without a credential exchange.
func NewSessionStateMachine(opts ...StateMachineOption) *SessionStateMachine {
	sm := &SessionStateMachine{
		state: SessionStateAnonymous,
		transitions: map[SessionState]map[SessionState]struct{}{
			SessionStateAnonymous: {
				SessionStateAuthenticating: {},
				SessionStateAuthenticated:  {},
			},
			SessionStateAuthenticating: {
				SessionStateAuthenticated: {},
				SessionStateAnonymous:     {},
			},
			SessionStateAuthenticated: {
				SessionStateExpired:   {},
				SessionStateAnonymous: {},
			},
			SessionStateExpired: {
				SessionStateAnonymous:      {},
				SessionStateAuthenticating: {},
			},
		},
		now:          time.Now,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
		hookErrorHandler: func(ctx context.Context, phase TransitionHookPhase, err error, tc TransitionContext) error {
			return defaultHookErrorHandler(ctx, phase, err, tc)
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

// SessionStateMachine tracks the single session lifecycle of the
// storefront process.
type SessionStateMachine struct {
	mu               sync.Mutex
	state            SessionState
	transitions      map[SessionState]map[SessionState]struct{}
	now              func() time.Time
	activitySink     ActivitySink
	logger           Logger
	hookErrorHandler HookErrorHandler
}

type transitionOptions struct {
	metadata    TransitionMetadata
	force       bool
	beforeHooks []TransitionHook
	afterHooks  []TransitionHook
}

func (o *transitionOptions) cloneMetadata() TransitionMetadata {
	var cloned map[string]any
	if len(o.metadata.Metadata) > 0 {
		cloned = make(map[string]any, len(o.metadata.Metadata))
		for k, v := range o.metadata.Metadata {
			cloned[k] = v
		}
	}

	return TransitionMetadata{
		Reason:   o.metadata.Reason,
		Metadata: cloned,
	}
}

// Current returns the present session state.
func (sm *SessionStateMachine) Current() SessionState {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.state
}

// Transition moves the session to the target state when the transition
// table allows it. A transition to the current state is a no-op.
func (sm *SessionStateMachine) Transition(ctx context.Context, actor ActorRef, target SessionState, opts ...TransitionOption) error {
	if target == "" {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "target state is empty",
		})
	}

	options := sm.buildTransitionOptions(opts...)

	sm.mu.Lock()
	from := sm.state
	if from == target {
		sm.mu.Unlock()
		return nil
	}

	if !options.force && !sm.canTransition(from, target) {
		sm.mu.Unlock()
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}
	sm.mu.Unlock()

	ctxData := TransitionContext{
		Actor: actor,
		From:  from,
		To:    target,
		Meta:  options.cloneMetadata(),
	}

	if err := sm.runHooks(ctx, options.beforeHooks, ctxData, HookPhaseBefore); err != nil {
		return err
	}

	sm.mu.Lock()
	sm.state = target
	sm.mu.Unlock()

	if err := sm.runHooks(ctx, options.afterHooks, ctxData, HookPhaseAfter); err != nil {
		return err
	}

	sm.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventSessionStateChanged,
		Actor:     actor,
		FromState: from,
		ToState:   target,
		Metadata:  sm.transitionMetadata(ctxData.Meta),
	})

	return nil
}

func (sm *SessionStateMachine) runHooks(ctx context.Context, hooks []TransitionHook, data TransitionContext, phase TransitionHookPhase) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, data); err != nil {
			if sm.hookErrorHandler == nil {
				return err
			}
			return sm.hookErrorHandler(ctx, phase, err, data)
		}
	}
	return nil
}

func (sm *SessionStateMachine) canTransition(from, to SessionState) bool {
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func (sm *SessionStateMachine) buildTransitionOptions(opts ...TransitionOption) *transitionOptions {
	options := &transitionOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

func defaultHookErrorHandler(_ context.Context, phase TransitionHookPhase, err error, tc TransitionContext) error {
	panic(fmt.Sprintf(
		"storefront: %s transition hook failed: %v\nfrom=%s to=%s reason=%s\nProvide storefront.WithStateMachineHookErrorHandler to customize error handling in production.",
		phase,
		err,
		tc.From,
		tc.To,
		tc.Meta.Reason,
	))
}

func (sm *SessionStateMachine) recordActivity(ctx context.Context, event ActivityEvent) {
	stampActivityEvent(&event, sm.now)

	sink := normalizeActivitySink(sm.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		sm.logger.Warn("state machine activity sink error: %v", err)
	}
}

func (sm *SessionStateMachine) transitionMetadata(meta TransitionMetadata) map[string]any {
	if meta.Reason == "" && len(meta.Metadata) == 0 {
		return nil
	}

	result := map[string]any{}
	if meta.Reason != "" {
		result["reason"] = meta.Reason
	}
	for k, v := range meta.Metadata {
		result[k] = v
	}
	return result
}
