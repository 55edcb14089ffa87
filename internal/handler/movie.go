package handler

import (
	"net/http"
	"strconv"

	"movieshop/internal/service"

	"github.com/labstack/echo/v4"
)

type MovieHandler struct {
	catalogService service.CatalogService
}

func NewMovieHandler(catalogService service.CatalogService) *MovieHandler {
	return &MovieHandler{
		catalogService: catalogService,
	}
}

func movieIDFromPath(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("movieID"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}
	return uint(id), nil
}

func (h *MovieHandler) ListMovies(c echo.Context) error {
	ctx := c.Request().Context()

	movies, err := h.catalogService.List(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, movies)
}

func (h *MovieHandler) GetMovie(c echo.Context) error {
	ctx := c.Request().Context()

	movieID, err := movieIDFromPath(c)
	if err != nil {
		return err
	}

	movie, err := h.catalogService.Get(ctx, movieID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, movie)
}
