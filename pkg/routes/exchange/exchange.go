package exchange

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	ctxmiddleware "github.com/Ramsey-B/mint/pkg/context"
	"github.com/Ramsey-B/mint/pkg/middleware"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/reconcile"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

type Service interface {
	Export(ctx context.Context, workspaceID string, req models.ExportRequest) (*models.ExportBundle, error)
	Share(ctx context.Context, workspaceID string, req models.ExportRequest) (*models.SharedExport, error)
	Shared(ctx context.Context, shareID string) (*models.ExportBundle, error)
	Import(ctx context.Context, workspaceID string, req models.ImportRequest) (any, error)
}

// FailedImport is the body of an execute whose transaction failed.
type FailedImport struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error"`
	Errors  []reconcile.ItemError `json:"errors"`
}

type Handler struct {
	service  Service
	maxBytes string
}

// NewHandler builds the exchange routes. maxBytes limits request bodies, for example "32M".
func NewHandler(service Service, maxBytes string) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Register registers exchange routes
func (h *Handler) Register(g *echo.Group) {
	exchange := g.Group("/exchange", echomiddleware.BodyLimit(h.maxBytes))

	exchange.GET("/shared/:id", h.GetShared)
	exchange.POST("/export", h.Export, middleware.RequireWorkspace())
	exchange.POST("/import", h.Import, middleware.RequireWorkspace())
}

// Export serializes the requested recipes. With ?share=true the bundle is also stored for sharing.
func (h *Handler) Export(c echo.Context) error {
	ctx := c.Request().Context()
	workspaceID := ctxmiddleware.GetWorkspaceID(ctx)

	var req models.ExportRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	share, _ := strconv.ParseBool(c.QueryParam("share"))
	if share {
		shared, err := h.service.Share(ctx, workspaceID, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, shared)
	}

	b, err := h.service.Export(ctx, workspaceID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, b)
}

func (h *Handler) GetShared(c echo.Context) error {
	b, err := h.service.Shared(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, b)
}

// Import runs one phase of the import wizard.
func (h *Handler) Import(c echo.Context) error {
	ctx := c.Request().Context()
	workspaceID := ctxmiddleware.GetWorkspaceID(ctx)

	var req models.ImportRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Phase == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "phase is required")
	}
	if len(req.Data) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "data is required")
	}

	out, err := h.service.Import(ctx, workspaceID, req)

	var txErr *reconcile.TransactionError
	if errors.As(err, &txErr) {
		return c.JSON(http.StatusInternalServerError, FailedImport{
			Success: false,
			Error:   txErr.Error(),
			Errors:  append([]reconcile.ItemError{}, txErr.Errors...),
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, out)
}
