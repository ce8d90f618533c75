package server

import (
	"encoding/json"
	"net/http"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/azuracommerce/go-storefront/gateway"
	"github.com/azuracommerce/go-storefront/social/google"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// Controller is the JSON surface the SPA talks to. Auth handlers respond
// inline with the upstream's message on failure; feature handlers let
// errors flow to the reactive logout interceptor.
type Controller struct {
	manager *storefront.SessionManager
	gw      *gateway.Client
	bridge  *google.Bridge
	store   storefront.SessionStore
	cfg     storefront.Config
	Logger  storefront.Logger
}

type ControllerOption func(*Controller)

func WithControllerLogger(logger storefront.Logger) ControllerOption {
	return func(ct *Controller) {
		if logger != nil {
			ct.Logger = logger
		}
	}
}

func NewController(
	manager *storefront.SessionManager,
	gw *gateway.Client,
	bridge *google.Bridge,
	store storefront.SessionStore,
	cfg storefront.Config,
	opts ...ControllerOption,
) *Controller {
	ct := &Controller{
		manager: manager,
		gw:      gw,
		bridge:  bridge,
		store:   store,
		cfg:     cfg,
		Logger:  storefront.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ct)
		}
	}

	return ct
}

// RegisterRoutes mounts the storefront surface. anonymous keeps signed-in
// sessions off the auth forms, protected requires a token cookie.
func (ct *Controller) RegisterRoutes(r RouteRegistrar, anonymous, protected router.MiddlewareFunc) {
	r.Post("/auth/signup", ct.SignUp, anonymous)
	r.Post("/auth/signin", ct.SignIn, anonymous)
	r.Post("/auth/signout", ct.SignOut)
	r.Post("/auth/forgot-password", ct.ForgotPassword, anonymous)
	r.Post("/auth/verify-code", ct.VerifyCode, anonymous)
	r.Put("/auth/reset-password", ct.ResetPassword, anonymous)
	r.Post("/auth/google/callback", ct.GoogleCallback)
	r.Get("/auth/bootstrap", ct.Bootstrap)

	r.Put("/account/me", ct.UpdateProfile, protected)
	r.Put("/account/password", ct.ChangePassword, protected)

	r.Post("/cart", ct.AddToCart, protected)
	r.Get("/cart", ct.GetCart, protected)
	r.Put("/cart/:id", ct.UpdateCartItem, protected)
	r.Delete("/cart/:id", ct.RemoveCartItem, protected)
	r.Delete("/cart", ct.ClearCart, protected)

	r.Post("/wishlist", ct.AddToWishlist, protected)
	r.Get("/wishlist", ct.GetWishlist, protected)
	r.Delete("/wishlist/:id", ct.RemoveFromWishlist, protected)

	r.Post("/orders/:cartId", ct.CreateCashOrder, protected)
	r.Post("/orders/checkout-session/:cartId", ct.CreateCheckoutSession, protected)
	r.Get("/orders", ct.GetUserOrders, protected)

	r.Get("/products", ct.GetProducts)
	r.Get("/products/:id", ct.GetProduct)
	r.Get("/brands", ct.GetBrands)
	r.Get("/categories", ct.GetCategories)
}

// SignUp registers an account upstream. No session is created, the SPA
// sends the user to the sign-in form on success.
func (ct *Controller) SignUp(c router.Context) error {
	payload := new(SignUpPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	if err := ct.gw.SignUp(c.Context(), gateway.SignUpRequest{
		Name:       payload.Name,
		Email:      payload.Email,
		Password:   payload.Password,
		RePassword: payload.RePassword,
		Phone:      payload.Phone,
	}); err != nil {
		return ct.inlineError(c, err)
	}

	return c.JSON(router.StatusOK, map[string]any{
		"message": "success",
	})
}

// SignIn exchanges credentials for a session. Failures answer inline with
// the upstream's own message and never store a token.
func (ct *Controller) SignIn(c router.Context) error {
	payload := new(SignInPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	if err := ct.manager.SignIn(c, payload.Email, payload.Password); err != nil {
		return ct.inlineError(c, err)
	}

	return c.JSON(router.StatusOK, map[string]any{
		"message":  "success",
		"redirect": ct.manager.GetRedirect(c, ct.cfg.GetLandingRoute()),
	})
}

// SignOut clears the session locally.
func (ct *Controller) SignOut(c router.Context) error {
	ct.manager.SignOut(c)
	return c.JSON(router.StatusOK, map[string]any{
		"message":  "success",
		"redirect": ct.cfg.GetLoginRoute(),
	})
}

// ForgotPassword mails a reset code.
func (ct *Controller) ForgotPassword(c router.Context) error {
	payload := new(ForgotPasswordPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	if err := ct.gw.ForgotPassword(c.Context(), payload.Email); err != nil {
		return ct.inlineError(c, err)
	}

	return c.JSON(router.StatusOK, map[string]any{
		"statusMsg": "success",
	})
}

// VerifyCode confirms a mailed reset code.
func (ct *Controller) VerifyCode(c router.Context) error {
	payload := new(VerifyCodePayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	if err := ct.gw.VerifyResetCode(c.Context(), payload.ResetCode); err != nil {
		return ct.inlineError(c, err)
	}

	return c.JSON(router.StatusOK, map[string]any{
		"status": "Success",
	})
}

// ResetPassword sets the new password. The fresh upstream token is
// discarded, the user signs in again like the original flow.
func (ct *Controller) ResetPassword(c router.Context) error {
	payload := new(ResetPasswordPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	if _, err := ct.gw.ResetPassword(c.Context(), payload.Email, payload.NewPassword); err != nil {
		return ct.inlineError(c, err)
	}

	return c.JSON(router.StatusOK, map[string]any{
		"statusMsg": "success",
		"redirect":  ct.cfg.GetLoginRoute(),
	})
}

// GoogleCallback receives the ID token posted by the Google script and
// hands it to the bridge. Only a malformed credential errors out here.
func (ct *Controller) GoogleCallback(c router.Context) error {
	payload := new(GoogleCallbackPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	if err := ct.bridge.HandleCredential(c, payload.Credential); err != nil {
		return ct.inlineError(c, err)
	}

	return nil
}

// Bootstrap runs the stored-token check the SPA performs on load.
func (ct *Controller) Bootstrap(c router.Context) error {
	if ct.manager.Bootstrap(c) {
		return c.JSON(router.StatusOK, map[string]any{
			"authenticated": true,
			"redirect":      ct.cfg.GetLandingRoute(),
		})
	}
	return c.JSON(router.StatusOK, map[string]any{
		"authenticated": false,
		"redirect":      ct.cfg.GetLoginRoute(),
	})
}

// UpdateProfile rewrites the profile upstream.
func (ct *Controller) UpdateProfile(c router.Context) error {
	payload := new(UpdateProfilePayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	user, err := ct.gw.UpdateProfile(c.Context(), ct.store.Get(c), gateway.UpdateProfileRequest{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(router.StatusOK, map[string]any{
		"message": "success",
		"user":    user,
	})
}

// ChangePassword rotates the password and swaps the session cookie for
// the fresh token the upstream issues.
func (ct *Controller) ChangePassword(c router.Context) error {
	payload := new(ChangePasswordPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	token, err := ct.gw.ChangePassword(c.Context(), ct.store.Get(c), gateway.ChangePasswordRequest{
		CurrentPassword: payload.CurrentPassword,
		Password:        payload.Password,
		RePassword:      payload.RePassword,
	})
	if err != nil {
		return err
	}

	if token != "" {
		ct.store.Set(c, token)
	}

	return c.JSON(router.StatusOK, map[string]any{
		"message": "success",
	})
}

func (ct *Controller) AddToCart(c router.Context) error {
	payload := new(CartItemPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	out, err := ct.gw.AddToCart(c.Context(), ct.store.Get(c), payload.ProductID)
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) GetCart(c router.Context) error {
	out, err := ct.gw.GetCart(c.Context(), ct.store.Get(c))
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) UpdateCartItem(c router.Context) error {
	payload := new(CartCountPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	out, err := ct.gw.UpdateCartItem(c.Context(), ct.store.Get(c), c.Param("id"), payload.Count)
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) RemoveCartItem(c router.Context) error {
	out, err := ct.gw.RemoveCartItem(c.Context(), ct.store.Get(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) ClearCart(c router.Context) error {
	out, err := ct.gw.ClearCart(c.Context(), ct.store.Get(c))
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) AddToWishlist(c router.Context) error {
	payload := new(CartItemPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	out, err := ct.gw.AddToWishlist(c.Context(), ct.store.Get(c), payload.ProductID)
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) GetWishlist(c router.Context) error {
	out, err := ct.gw.GetWishlist(c.Context(), ct.store.Get(c))
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) RemoveFromWishlist(c router.Context) error {
	out, err := ct.gw.RemoveFromWishlist(c.Context(), ct.store.Get(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) CreateCashOrder(c router.Context) error {
	payload := new(ShippingPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	out, err := ct.gw.CreateCashOrder(c.Context(), ct.store.Get(c), c.Param("cartId"), gateway.ShippingAddress{
		Details: payload.Details,
		Phone:   payload.Phone,
		City:    payload.City,
	})
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) CreateCheckoutSession(c router.Context) error {
	payload := new(ShippingPayload)
	if err := c.Bind(payload); err != nil {
		return ct.bindError(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ct.validationError(c, err)
	}

	returnURL := c.Query("url", ct.cfg.GetLandingRoute())
	out, err := ct.gw.CreateCheckoutSession(c.Context(), ct.store.Get(c), c.Param("cartId"), returnURL, gateway.ShippingAddress{
		Details: payload.Details,
		Phone:   payload.Phone,
		City:    payload.City,
	})
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

// GetUserOrders lists the caller's orders. The user id comes from the
// decoded session token; fallback sessions carry no decodable token and
// get an inline error instead of a logout.
func (ct *Controller) GetUserOrders(c router.Context) error {
	token := ct.store.Get(c)
	claims, err := storefront.DecodeToken(token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"message": "orders are unavailable for this session",
		})
	}

	out, err := ct.gw.GetUserOrders(c.Context(), token, claims.UserID())
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) GetProducts(c router.Context) error {
	out, err := ct.gw.GetProducts(c.Context())
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) GetProduct(c router.Context) error {
	out, err := ct.gw.GetProduct(c.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) GetBrands(c router.Context) error {
	out, err := ct.gw.GetBrands(c.Context())
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) GetCategories(c router.Context) error {
	out, err := ct.gw.GetCategories(c.Context())
	if err != nil {
		return err
	}
	return ct.relay(c, out)
}

func (ct *Controller) relay(c router.Context, raw json.RawMessage) error {
	return c.JSON(router.StatusOK, raw)
}

func (ct *Controller) bindError(c router.Context, err error) error {
	ct.Logger.Error("payload bind failed: %s", err)
	return c.JSON(http.StatusBadRequest, map[string]any{
		"message": "Error parsing body",
	})
}

func (ct *Controller) validationError(c router.Context, err error) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"message": err.Error(),
	})
}

// inlineError surfaces an upstream failure as the message the SPA shows
// next to the form, mirroring the status the upstream used. It never
// triggers the reactive logout: a rejected sign-in is not an expired
// session.
func (ct *Controller) inlineError(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"message": "Something went wrong",
		})
	}

	status := http.StatusBadRequest
	if richErr.Code > 0 {
		status = richErr.Code
	}

	return c.JSON(status, map[string]any{
		"message": richErr.Message,
	})
}
