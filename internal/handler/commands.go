package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/storebot/api/internal/errs"
	"github.com/storebot/api/internal/lib/job"
	"github.com/storebot/api/internal/middleware"
	"github.com/storebot/api/internal/models"
	"github.com/storebot/api/internal/server"
	"github.com/storebot/api/internal/service"
	"github.com/storebot/api/internal/validation"
)

// CommandRequest is the envelope every client sends to the command
// endpoint: an action name plus a loosely-typed params object.
//
// Params stays untyped at this level because each action owns its own
// parameter set and error messages; the action branches coerce and
// validate what they need.
type CommandRequest struct {
	Action string            `json:"action"`
	Params validation.Params `json:"params"`
}

// Validate satisfies validation.Validatable. The envelope itself has no
// rules: a missing or unknown action is handled by the dispatch switch
// so it produces the "Unknown action" message.
func (r *CommandRequest) Validate() error {
	return nil
}

// CommandsHandler multiplexes the single POST endpoint over the cart and
// catalog actions.
type CommandsHandler struct {
	Handler
	catalog *service.CatalogService
	cart    *service.CartService
}

// NewCommandsHandler constructs a CommandsHandler.
func NewCommandsHandler(s *server.Server, services *service.Services) *CommandsHandler {
	return &CommandsHandler{
		Handler: NewHandler(s),
		catalog: services.Catalog,
		cart:    services.Cart,
	}
}

// Dispatch routes a command to its action branch.
//
// Every branch validates its own parameters before touching the store,
// and success responses vary per action, so the return type is any.
// The action name is attached to the New Relic transaction since the
// route alone ("POST /") says nothing about what the request did.
func (h *CommandsHandler) Dispatch(c echo.Context, req *CommandRequest) (any, error) {
	ctx := c.Request().Context()

	if req.Params == nil {
		req.Params = validation.Params{}
	}

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.AddAttribute("command.action", req.Action)
	}

	switch req.Action {
	case "list_products":
		return h.catalog.ListProducts(ctx, req.Params.String("query"))

	case "get_product_details":
		code := strings.TrimSpace(req.Params.String("product_code"))
		if code == "" {
			return nil, errs.NewBadRequestError("product_code is required")
		}
		return h.catalog.GetProductDetails(ctx, code)

	case "create_cart":
		return h.cart.CreateCart(ctx)

	case "get_cart":
		cartID, ok := req.Params.Int("cart_id")
		if !ok || cartID <= 0 {
			return nil, errs.NewBadRequestError("cart_id is required (integer > 0)")
		}
		return h.cart.GetCart(ctx, cartID)

	case "update_cart":
		return h.updateCart(c, req.Params)

	case "add_to_cart":
		// Legacy append-only add, kept for older chat flows.
		cartID, okCart := req.Params.Int("cart_id")
		code := strings.TrimSpace(req.Params.String("product_code"))
		qty, okQty := req.Params.Int("qty")
		if !okCart || cartID <= 0 || code == "" || !okQty || qty <= 0 {
			return nil, errs.NewBadRequestError("cart_id (int>0), product_code and qty (int>0) are required")
		}
		return h.cart.AddToCart(ctx, cartID, code, qty)

	case "update_cart_item":
		itemID, okItem := req.Params.Int("item_id")
		qty, okQty := req.Params.Int("qty")
		if !okItem || itemID <= 0 || !okQty || qty < 0 {
			return nil, errs.NewBadRequestError("item_id (int>0) and qty (int>=0) are required")
		}
		return h.cart.UpdateCartItem(ctx, itemID, qty)

	case "remove_cart_item":
		itemID, ok := req.Params.Int("item_id")
		if !ok || itemID <= 0 {
			return nil, errs.NewBadRequestError("item_id (int>0) is required")
		}
		return h.cart.RemoveCartItem(ctx, itemID)

	case "handoff_to_human":
		return h.handoffToHuman(c)

	default:
		return nil, errs.NewBadRequestError("Unknown action")
	}
}

// updateCart validates the update_cart parameters and delegates to the
// cart service.
//
// All parameter checks run before any store access, in a fixed order:
// cart_id, op presence, op membership, product_code, qty. Earlier
// deployments only rejected an unknown op after resolving the product,
// which produced 404s for requests that were never going to run.
func (h *CommandsHandler) updateCart(c echo.Context, params validation.Params) (any, error) {
	ctx := c.Request().Context()

	cartID, ok := params.Int("cart_id")
	if !ok || cartID <= 0 {
		return nil, errs.NewBadRequestError("cart_id is required (integer > 0)")
	}

	op := strings.TrimSpace(params.String("op"))
	if op == "" {
		return nil, errs.NewBadRequestError("op is required: add | set_qty | remove")
	}
	if op != service.OpAdd && op != service.OpSetQty && op != service.OpRemove {
		return nil, errs.NewBadRequestError("Invalid op. Use add | set_qty | remove")
	}

	code := strings.TrimSpace(params.String("product_code"))
	if code == "" {
		return nil, errs.NewBadRequestError("product_code is required")
	}

	var qty int64
	if op == service.OpAdd || op == service.OpSetQty {
		q, ok := params.Int("qty")
		if !ok || q < 0 {
			return nil, errs.NewBadRequestError("qty must be an integer >= 0")
		}
		if op == service.OpAdd && q == 0 {
			return nil, errs.NewBadRequestError("qty must be > 0 for op=add (use set_qty or remove)")
		}
		qty = q
	}

	return h.cart.UpdateCart(ctx, cartID, op, code, qty)
}

// handoffToHuman acknowledges an escalation request.
//
// The routing itself happens in the agent platform; this branch only
// signals it and, when the job worker is wired, enqueues the alert
// pipeline (RabbitMQ event + operator email). Notification failures are
// logged but never fail the request: the customer-facing answer does
// not depend on the alert.
func (h *CommandsHandler) handoffToHuman(c echo.Context) (any, error) {
	const note = "Conversation should be routed to human agent in Chatwoot"

	if h.server.Job != nil {
		logger := middleware.GetLogger(c)
		requestID := middleware.GetRequestID(c)

		task, err := job.NewHandoffNotifyTask(job.HandoffNotifyPayload{
			RequestID:   requestID,
			Note:        note,
			RequestedAt: time.Now().UTC(),
		})
		if err != nil {
			logger.Error().Err(err).Msg("failed to build handoff notification task")
		} else if _, err := h.server.Job.Client.Enqueue(task); err != nil {
			logger.Error().Err(err).Msg("failed to enqueue handoff notification")
		}
	}

	return &models.HandoffResponse{
		Status: "handoff_requested",
		Note:   note,
	}, nil
}
