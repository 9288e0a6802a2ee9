//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package rest implements an HTTP/JSON decision point server on top of
// the permission engine.
//
// Endpoints:
//
//	POST /v1/check    evaluate one permission
//	POST /v1/batch    evaluate a list of permissions against one context
//	GET  /v1/catalog  list the permission catalog
//
// Requests carry either inline contexts or directory references:
//
//	{
//	    "userId": "u1",
//	    "permission": "equipment.edit",
//	    "entityRef": {"kind": "equipment", "id": "pump-7"}
//	}
//
//	{
//	    "user": {"userId": "u1", "organizationId": "org-1", "role": "member"},
//	    "permission": "organization.manage"
//	}
//
// Directory references require the server to be constructed with a
// [directory.Service]; inline contexts always work.
package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fieldworks/permengine/internal/logging"
	"github.com/fieldworks/permengine/pkg/common"
	"github.com/fieldworks/permengine/pkg/decisionpoint"
	"github.com/fieldworks/permengine/pkg/directory"
	"github.com/fieldworks/permengine/pkg/engine"
	"github.com/fieldworks/permengine/pkg/engine/options"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/labstack/echo/v4"
)

var logger = logging.GetLogger("decisionpoint.rest")

const agent = "rest"

// EntityRef identifies an entity to be resolved through the directory.
type EntityRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// CheckRequest is the body of POST /v1/check.
type CheckRequest struct {
	Permission types.Permission     `json:"permission"`
	User       *types.UserContext   `json:"user,omitempty"`
	UserID     string               `json:"userId,omitempty"`
	Entity     *types.EntityContext `json:"entity,omitempty"`
	EntityRef  *EntityRef           `json:"entityRef,omitempty"`
	// Probe evaluates without writing to the decision log, for UI
	// capability discovery.
	Probe bool `json:"probe,omitempty"`
}

// CheckResponse is the body returned by POST /v1/check.
type CheckResponse struct {
	Permission types.Permission `json:"permission"`
	Allowed    bool             `json:"allowed"`
}

// BatchRequest is the body of POST /v1/batch.
type BatchRequest struct {
	Permissions []types.Permission   `json:"permissions"`
	User        *types.UserContext   `json:"user,omitempty"`
	UserID      string               `json:"userId,omitempty"`
	Entity      *types.EntityContext `json:"entity,omitempty"`
	EntityRef   *EntityRef           `json:"entityRef,omitempty"`
	Probe       bool                 `json:"probe,omitempty"`
}

// BatchResponse is the body returned by POST /v1/batch.
type BatchResponse struct {
	Results map[types.Permission]bool `json:"results"`
}

// CatalogResponse is the body returned by GET /v1/catalog.
type CatalogResponse struct {
	Permissions []types.Permission `json:"permissions"`
}

type handler struct {
	engine    engine.Engine
	directory directory.Service
}

func statusFor(err *common.AuthzError) int {
	if err.Code == common.ReasonNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func (h *handler) resolveUser(ctx context.Context, user *types.UserContext, userID string) (*types.UserContext, *echo.HTTPError) {
	if user != nil {
		if !user.Role.Valid() {
			return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid role %q", user.Role))
		}
		seen := make(map[string]bool, len(user.TeamMemberships))
		for _, m := range user.TeamMemberships {
			if !m.Role.Valid() {
				return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid team role %q on team %q", m.Role, m.TeamID))
			}
			if seen[m.TeamID] {
				return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("duplicate membership for team %q", m.TeamID))
			}
			seen[m.TeamID] = true
		}
		return user, nil
	}

	if userID == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "either user or userId is required")
	}
	if h.directory == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "userId requires a directory; supply an inline user context")
	}

	resolved, err := h.directory.UserContext(ctx, userID)
	if err != nil {
		return nil, echo.NewHTTPError(statusFor(err), err.Error())
	}
	return resolved, nil
}

func (h *handler) resolveEntity(ctx context.Context, entity *types.EntityContext, ref *EntityRef) (*types.EntityContext, *echo.HTTPError) {
	if entity != nil || ref == nil {
		return entity, nil
	}
	if h.directory == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "entityRef requires a directory; supply an inline entity context")
	}

	resolved, err := h.directory.EntityContext(ctx, ref.Kind, ref.ID)
	if err != nil {
		return nil, echo.NewHTTPError(statusFor(err), err.Error())
	}
	return resolved, nil
}

func (h *handler) check(c echo.Context) error {
	var req CheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Permission == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "permission is required")
	}

	user, herr := h.resolveUser(c.Request().Context(), req.User, req.UserID)
	if herr != nil {
		return herr
	}
	entity, herr := h.resolveEntity(c.Request().Context(), req.Entity, req.EntityRef)
	if herr != nil {
		return herr
	}

	allowed := h.engine.HasPermission(req.Permission, *user, entity, options.SetProbeMode(req.Probe))

	return c.JSON(http.StatusOK, CheckResponse{
		Permission: req.Permission,
		Allowed:    allowed,
	})
}

func (h *handler) batch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Permissions) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "permissions is required")
	}

	user, herr := h.resolveUser(c.Request().Context(), req.User, req.UserID)
	if herr != nil {
		return herr
	}
	entity, herr := h.resolveEntity(c.Request().Context(), req.Entity, req.EntityRef)
	if herr != nil {
		return herr
	}

	results := h.engine.BatchCheck(req.Permissions, *user, entity, options.SetProbeMode(req.Probe))

	return c.JSON(http.StatusOK, BatchResponse{Results: results})
}

func (h *handler) catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, CatalogResponse{Permissions: types.Catalog()})
}

func newRouter(eng engine.Engine, dir directory.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	h := &handler{engine: eng, directory: dir}
	e.POST("/v1/check", h.check)
	e.POST("/v1/batch", h.batch)
	e.GET("/v1/catalog", h.catalog)

	return e
}

// Server represents a REST decision point server.
type Server struct {
	echo *echo.Echo
}

// CreateServer creates and starts a new REST decision point server. The
// directory may be nil, in which case requests must carry inline
// contexts.
func CreateServer(eng engine.Engine, dir directory.Service, port int) (decisionpoint.Server, error) {
	e := newRouter(eng, dir)

	// Start server in goroutine since e.Start() blocks
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && err != http.ErrServerClosed {
			logger.Errorf(agent, "CreateServer", "server terminated: %+v", err)
		}
	}()

	return &Server{
		echo: e,
	}, nil
}

// Stop gracefully stops the Server by shutting down the Echo HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
