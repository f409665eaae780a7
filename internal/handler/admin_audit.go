package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// ListAuditLogs handles GET /v1/admin/audit-logs. Entries come back
// newest first; booking_id, user_id and action query parameters filter
// with AND, page/page_size paginate.
func (h *AdminHandler) ListAuditLogs(c echo.Context) error {
	q := repository.AuditQuery{
		Action: strings.TrimSpace(c.QueryParam("action")),
	}
	if v := c.QueryParam("booking_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking_id"})
		}
		q.BookingID = n
	}
	if v := c.QueryParam("user_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		q.UserID = n
	}
	if v := c.QueryParam("page"); v != "" {
		q.Page, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("page_size"); v != "" {
		q.PageSize, _ = strconv.Atoi(v)
	}

	items, total, err := h.Audit.List(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": total,
	})
}
