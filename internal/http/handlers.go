package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/service"
)

type listFunc func(ctx context.Context, q service.Query) (any, error)

func listOf[T any](fn func(context.Context, service.Query) ([]T, error)) listFunc {
	return func(ctx context.Context, q service.Query) (any, error) {
		return fn(ctx, q)
	}
}

// route is one dashboard endpoint under /api.
type route struct {
	path     string
	byDate   bool
	notFound bool // default empty-result policy
	// messages returned to clients; the date is appended for byDate routes
	emptyMsg  string
	failedMsg string
	list      listFunc
}

func routes(recs *service.Records) []route {
	return []route{
		{path: "tariffs", emptyMsg: "No tariffs found", failedMsg: "Failed to fetch tariffs",
			list: listOf(recs.Tariffs)},
		{path: "predicted_tariffs", byDate: true, notFound: true,
			emptyMsg: "No predicted tariffs found", failedMsg: "Failed to fetch predicted tariffs",
			list: listOf(recs.PredictedTariffs)},
		{path: "energy-data", emptyMsg: "No energy data found", failedMsg: "Failed to fetch energy data",
			list: listOf(recs.EnergyData)},
		{path: "predicted_appliance_consumption", byDate: true, notFound: true,
			emptyMsg: "No predicted appliance consumption found", failedMsg: "Failed to fetch appliance consumption",
			list: listOf(recs.PredictedApplianceConsumption)},
		{path: "consumptions", emptyMsg: "No consumption data found", failedMsg: "Failed to fetch consumption data",
			list: listOf(recs.Consumptions)},
		{path: "predicted_solar_energy", byDate: true, notFound: true,
			emptyMsg: "No predicted solar energy found", failedMsg: "Failed to fetch predicted solar energy",
			list: listOf(recs.PredictedSolarEnergy)},
		{path: "savings", notFound: true, emptyMsg: "No savings data found", failedMsg: "Failed to fetch savings data",
			list: listOf(recs.Savings)},
	}
}

// Register binds the dashboard endpoints. emptyNotFound overrides the
// per-route empty-result policy; nil keeps the defaults.
func Register(app *fiber.App, recs *service.Records, emptyNotFound func(route string) bool) {
	g := app.Group("/api")
	for _, rt := range routes(recs) {
		policy := service.EmptyOK
		notFound := rt.notFound
		if emptyNotFound != nil {
			notFound = emptyNotFound(rt.path)
		}
		if notFound {
			policy = service.EmptyNotFound
		}
		g.Get(rt.path, rt.handler(recs, policy))
	}
}

func (rt route) handler(recs *service.Records, policy service.EmptyPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := service.Query{Empty: policy}
		if rt.byDate {
			q.Date = recs.ResolveDate(c.Query("date"))
		}

		items, err := rt.list(c.UserContext(), q)
		switch {
		case err == nil:
			return c.JSON(items)
		case errors.Is(err, service.ErrNoRecords):
			msg := rt.emptyMsg
			if rt.byDate {
				msg += " for " + q.Date
			}
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msg})
		default:
			log.Error().Err(err).Str("route", rt.path).Str("date", q.Date).Msg("fetch failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": rt.failedMsg})
		}
	}
}
