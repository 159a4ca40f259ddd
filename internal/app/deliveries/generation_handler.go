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

type GenerationHandler struct {
	generationService   *services.GenerationService
	registryKey         *rsa.PrivateKey
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewGenerationHandler(generationService *services.GenerationService, registryKey *rsa.PrivateKey, rateLimitMiddleware *middlewares.RateLimitMiddleware) *GenerationHandler {
	return &GenerationHandler{
		generationService:   generationService,
		registryKey:         registryKey,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *GenerationHandler) RegisterRoutes(router fiber.Router) {
	sourceGroup := router.Group("/v1/source")
	sourceGroup.Post("/generate", h.CreateGenerationRequest)
	sourceGroup.Post("/verify/:otc", h.VerifyGenerationRequest)

	router.Post("/v1/voucher/redeem",
		h.rateLimitMiddleware.LimitByIP(ratelimit.RedeemLimit), h.RedeemVouchers)
}

func (h *GenerationHandler) CreateGenerationRequest(c *fiber.Ctx) error {
	var req models.GenerationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	response, err := h.generationService.CreateGenerationRequest(c.UserContext(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *GenerationHandler) VerifyGenerationRequest(c *fiber.Ctx) error {
	otc := c.Params("otc")

	if err := h.generationService.VerifyGenerationRequest(c.UserContext(), otc); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}

// RedeemVouchers accepts the redemption payload encrypted to the registry's
// public key, so the OTC password never travels in clear.
func (h *GenerationHandler) RedeemVouchers(c *fiber.Ctx) error {
	var envelope models.EncryptedPayloadRequest
	if err := c.BodyParser(&envelope); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	req, err := payload.Decrypt[models.VoucherRedeemRequest](envelope.Payload, h.registryKey)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid payload"))
	}

	response, err := h.generationService.RedeemVouchers(c.UserContext(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}
