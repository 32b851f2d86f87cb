package handlers

import (
	"net/url"
	"strconv"

	"foodgram/internal/dto"
	"foodgram/internal/filters"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// maxPageSize caps the limit query parameter.
const maxPageSize = 100

// idParam reads a positive numeric path parameter; anything else is a 404.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, services.ErrNotFound
	}
	return uint(id), nil
}

func queryValues(c *fiber.Ctx) url.Values {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return q
}

func positiveInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &filters.InvalidParamError{Param: name, Value: raw}
	}
	return n, nil
}

// pageRequest reads page and limit.
func pageRequest(q url.Values, defaultLimit int) (dto.PageRequest, error) {
	page, err := positiveInt(q, "page", 1)
	if err != nil {
		return dto.PageRequest{}, err
	}
	limit, err := positiveInt(q, "limit", defaultLimit)
	if err != nil {
		return dto.PageRequest{}, err
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return dto.PageRequest{Page: page, Limit: limit}, nil
}

// pageLink renders the absolute URL of another page, keeping the other query parameters.
func pageLink(c *fiber.Ctx, q url.Values) func(int) string {
	base := c.BaseURL() + c.Path()
	return func(page int) string {
		next := url.Values{}
		for k, v := range q {
			next[k] = v
		}
		next.Set("page", strconv.Itoa(page))
		return base + "?" + next.Encode()
	}
}

// recipesLimit reads the optional recipes_limit; 0 means no limit.
func recipesLimit(q url.Values) (int, error) {
	return positiveInt(q, "recipes_limit", 0)
}
