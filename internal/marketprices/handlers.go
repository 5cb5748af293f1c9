package marketprices

import (
	"errors"
	"strings"

	"farmlink-backend/internal/pkg/params"
	"farmlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// GET /api/market-prices
func (h *Handlers) GetMarketPrices(c *fiber.Ctx) error {
	page := params.PositiveInt(c.Query("page"), 1)
	limit := params.PositiveInt(c.Query("limit"), 100)
	filter := PriceFilter{
		Commodity: c.Query("commodity"),
		Market:    c.Query("market"),
		Region:    c.Query("region"),
		StartDate: params.Date(c.Query("startDate")),
		EndDate:   params.Date(c.Query("endDate")),
		Page:      page,
		Limit:     limit,
	}
	prices, total, err := h.Service.GetMarketPrices(c.Context(), filter)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return response.List(c, prices, response.NewPagination(page, limit, total))
}

// GET /api/market-prices/latest
func (h *Handlers) GetLatestMarketPrices(c *fiber.Ctx) error {
	limit := params.PositiveInt(c.Query("limit"), 20)
	commodities := params.CSV(c.Query("commodities"))
	prices, err := h.Service.GetLatestMarketPrices(c.Context(), commodities, limit)
	if err != nil {
		return response.Error(c, 500, "Internal Server Error")
	}
	return response.Count(c, prices, len(prices))
}

type priceBody struct {
	Commodity string   `json:"commodity"`
	Price     *float64 `json:"price"`
	Unit      string   `json:"unit"`
	Market    string   `json:"market"`
	Region    string   `json:"region"`
	Source    string   `json:"source"`
	Date      string   `json:"date"`
}

// validate mirrors the old schema: commodity/market/region required,
// price a positive number; unit, source and date defaulted downstream.
func (b *priceBody) validate() (CreatePriceInput, []string) {
	var problems []string
	if strings.TrimSpace(b.Commodity) == "" {
		problems = append(problems, "commodity is required")
	}
	if b.Price == nil || *b.Price <= 0 {
		problems = append(problems, "price must be a positive number")
	}
	if strings.TrimSpace(b.Market) == "" {
		problems = append(problems, "market is required")
	}
	if strings.TrimSpace(b.Region) == "" {
		problems = append(problems, "region is required")
	}
	in := CreatePriceInput{
		Commodity: b.Commodity,
		Unit:      strings.TrimSpace(b.Unit),
		Market:    b.Market,
		Region:    b.Region,
		Source:    strings.TrimSpace(b.Source),
	}
	if b.Price != nil {
		in.Price = *b.Price
	}
	if d := params.Date(b.Date); d != nil {
		in.Date = *d
	}
	return in, problems
}

// POST /api/market-prices (admin)
func (h *Handlers) AddMarketPrice(c *fiber.Ctx) error {
	var body priceBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	in, problems := body.validate()
	if len(problems) > 0 {
		log.Warn().Strs("problems", problems).Msg("Validation error")
		return response.Error(c, 400, strings.Join(problems, ", "))
	}
	price, err := h.Service.AddMarketPrice(c.Context(), in)
	if err != nil {
		if errors.Is(err, ErrDuplicatePrice) {
			return response.Error(c, 409, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	log.Info().Str("commodity", price.Commodity).Str("market", price.Market).Msg("New price added")
	return response.Data(c, 201, price)
}

// PUT /api/market-prices/:id (admin)
func (h *Handlers) UpdateMarketPrice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	var body priceBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, 400, "Invalid request body")
	}
	in, problems := body.validate()
	if len(problems) > 0 {
		return response.Error(c, 400, strings.Join(problems, ", "))
	}
	price, err := h.Service.UpdateMarketPrice(c.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return response.Error(c, 404, err.Error())
		case errors.Is(err, ErrDuplicatePrice):
			return response.Error(c, 409, err.Error())
		default:
			return response.Error(c, 500, "Internal Server Error")
		}
	}
	log.Info().Str("id", id.String()).Msg("Price updated")
	return response.Data(c, 200, price)
}

// DELETE /api/market-prices/:id (admin)
func (h *Handlers) DeleteMarketPrice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, 400, "Invalid ID format")
	}
	if err := h.Service.DeleteMarketPrice(c.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, 404, err.Error())
		}
		return response.Error(c, 500, "Internal Server Error")
	}
	log.Info().Str("id", id.String()).Msg("Price deleted")
	return response.Data(c, 200, fiber.Map{"id": id})
}
