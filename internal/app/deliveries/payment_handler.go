package deliveries

import (
	"crypto/rsa"

	"github.com/gofiber/fiber/v2"
	"github.com/womplatform/wom-registry/internal/app/errors"
	"github.com/womplatform/wom-registry/internal/app/middlewares"
	"github.com/womplatform/wom-registry/internal/app/models"
	"github.com/womplatform/wom-registry/internal/app/pkg"
	"github.com/womplatform/wom-registry/internal/app/services"
	"github.com/womplatform/wom-registry/pkg/payload"
	"github.com/womplatform/wom-registry/pkg/ratelimit"
)

type PaymentHandler struct {
	paymentService      *services.PaymentService
	registryKey         *rsa.PrivateKey
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewPaymentHandler(paymentService *services.PaymentService, registryKey *rsa.PrivateKey, rateLimitMiddleware *middlewares.RateLimitMiddleware) *PaymentHandler {
	return &PaymentHandler{
		paymentService:      paymentService,
		registryKey:         registryKey,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	posGroup := router.Group("/v1/pos/payment")
	posGroup.Post("/register", h.CreatePaymentRequest)
	posGroup.Post("/verify/:otc", h.VerifyPaymentRequest)

	router.Get("/v1/payment/:otc",
		h.rateLimitMiddleware.LimitByOtc(ratelimit.PublicAPILimit), h.GetPaymentInfo)
	router.Post("/v1/payment/confirm",
		h.rateLimitMiddleware.LimitByIP(ratelimit.ConfirmLimit), h.ConfirmPayment)
}

func (h *PaymentHandler) CreatePaymentRequest(c *fiber.Ctx) error {
	var req models.PaymentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	response, err := h.paymentService.CreatePaymentRequest(c.UserContext(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *PaymentHandler) VerifyPaymentRequest(c *fiber.Ctx) error {
	otc := c.Params("otc")

	if err := h.paymentService.VerifyPaymentRequest(c.UserContext(), otc); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}

func (h *PaymentHandler) GetPaymentInfo(c *fiber.Ctx) error {
	otc := c.Params("otc")

	info, err := h.paymentService.GetPaymentInfo(c.UserContext(), otc)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, info)
}

// ConfirmPayment accepts the confirmation payload encrypted to the registry's
// public key: it carries voucher secrets and the payment password.
func (h *PaymentHandler) ConfirmPayment(c *fiber.Ctx) error {
	var envelope models.EncryptedPayloadRequest
	if err := c.BodyParser(&envelope); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	req, err := payload.Decrypt[models.PaymentConfirmRequest](envelope.Payload, h.registryKey)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid payload"))
	}

	response, err := h.paymentService.ConfirmPayment(c.UserContext(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}
