package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *climate.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/analysis", func(c *fiber.Ctx) error {
		var req analysisQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.GenerateComprehensiveAnalysis(
			c.UserContext(), req.Lat, req.Lon, req.LandID, req.ForceRefresh)
		if err != nil {
			if errors.Is(err, climate.ErrValidation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to generate analysis")
		}

		return c.JSON(report)
	})

	v1.Get("/analysis/historical", func(c *fiber.Ctx) error {
		req, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.GetHistoricalSeries(c.UserContext(), req.Lat, req.Lon)
		if err != nil {
			switch {
			case errors.Is(err, climate.ErrValidation):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, climate.ErrProvider):
				return fiber.NewError(fiber.StatusBadGateway, "historical provider unavailable")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch historical series")
			}
		}

		return c.JSON(fiber.Map{
			"latitude":  req.Lat,
			"longitude": req.Lon,
			"records":   records,
		})
	})

	v1.Get("/analysis/seasonal", func(c *fiber.Ctx) error {
		req, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.GetSeasonalOutlook(c.UserContext(), req.Lat, req.Lon)
		if err != nil {
			switch {
			case errors.Is(err, climate.ErrValidation):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, climate.ErrProvider):
				return fiber.NewError(fiber.StatusBadGateway, "seasonal provider unavailable")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch seasonal outlook")
			}
		}

		return c.JSON(fiber.Map{
			"latitude":  req.Lat,
			"longitude": req.Lon,
			"records":   records,
		})
	})
}

// coordQuery holds the geographic query parameters shared by all endpoints.
type coordQuery struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

func parseCoordQuery(c *fiber.Ctx) (coordQuery, error) {
	var q coordQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("lon must be a number")
	}

	q.Lat = lat
	q.Lon = lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// analysisQuery holds query parameters for the full-report endpoint.
type analysisQuery struct {
	coordQuery
	LandID       string
	ForceRefresh bool
}

func (a *analysisQuery) bind(c *fiber.Ctx) error {
	cq, err := parseCoordQuery(c)
	if err != nil {
		return err
	}
	a.coordQuery = cq
	a.LandID = c.Query("landId")

	if v := c.Query("forceRefresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("forceRefresh must be a boolean")
		}
		a.ForceRefresh = refresh
	}
	return nil
}
