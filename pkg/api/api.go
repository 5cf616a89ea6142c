// Package api exposes a calibrated scale via a small REST interface
package api

import (
	"errors"

	"github.com/fako1024/hx711/pkg/scale"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultSamples  = 3
	defaultReadType = "median"
)

// API denotes a REST API for a scale
type API struct {
	scale  *scale.Scale
	router *fiber.App
}

// New instantiates a new API and starts listening on the given endpoint
func New(s *scale.Scale, endpoint string) *API {

	api := newAPI(s)

	// Start to listen in goroutine
	go func() {
		if err := api.router.Listen(endpoint); err != nil {
			panic(err)
		}
	}()

	return api
}

func newAPI(s *scale.Scale) *API {

	api := API{
		scale:  s,
		router: fiber.New(),
	}

	// Setup routes
	api.router.Get("/weight", api.handleWeight())
	api.router.Get("/config", api.handleGetConfig())
	api.router.Post("/config", api.handleSetConfig())
	api.router.Post("/zero", api.handleZero())

	return &api
}

func (api *API) handleWeight() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {

		rt, samples, err := readParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		mass, err := api.scale.Weight(rt, samples)
		if err != nil {
			return statusError(err)
		}

		return c.JSON(fiber.Map{
			"weight": mass.Value,
			"unit":   mass.Unit,
		})
	}
}

func (api *API) handleGetConfig() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"unit":           api.scale.Unit(),
			"reference_unit": api.scale.ReferenceUnit(),
			"offset":         api.scale.Offset(),
		})
	}
}

func (api *API) handleSetConfig() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {

		var req struct {
			Unit          *string  `json:"unit"`
			ReferenceUnit *float64 `json:"reference_unit"`
			Offset        *float64 `json:"offset"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if req.Unit != nil {
			api.scale.SetUnit(scale.Unit(*req.Unit))
		}
		if req.ReferenceUnit != nil {
			if err := api.scale.SetReferenceUnit(*req.ReferenceUnit); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		if req.Offset != nil {
			api.scale.SetOffset(*req.Offset)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (api *API) handleZero() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {

		rt, samples, err := readParams(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := api.scale.Zero(rt, samples); err != nil {
			return statusError(err)
		}

		return c.JSON(fiber.Map{
			"offset": api.scale.Offset(),
		})
	}
}

func readParams(c *fiber.Ctx) (scale.ReadType, int, error) {

	rt, err := scale.ParseReadType(c.Query("type", defaultReadType))
	if err != nil {
		return 0, 0, err
	}

	return rt, c.QueryInt("samples", defaultSamples), nil
}

func statusError(err error) error {
	if errors.Is(err, scale.ErrSampleCount) || errors.Is(err, scale.ErrUnknownReadType) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
}
