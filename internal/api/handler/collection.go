package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/brunca/internal/api/middleware"
	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/loader"
	"github.com/timmy/brunca/internal/logger"
	"github.com/timmy/brunca/internal/session"
)

var errUnknownLocation = errors.New("unknown location")

// ErrorBody describes the last load failure of a collection.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// StateResponse is the JSON form of a collection's state.
type StateResponse struct {
	Items          any             `json:"items"`
	Page           domain.PageMeta `json:"page"`
	IsLoadingFirst bool            `json:"is_loading_first"`
	IsLoadingNext  bool            `json:"is_loading_next"`
	Error          *ErrorBody      `json:"error"`
}

func newStateResponse[T domain.Item](st loader.State[T]) StateResponse {
	resp := StateResponse{
		Items:          st.Items,
		Page:           st.Page,
		IsLoadingFirst: st.IsLoadingFirst,
		IsLoadingNext:  st.IsLoadingNext,
	}
	if st.Err != nil {
		resp.Error = &ErrorBody{
			Kind:    domain.ErrorKindOf(st.Err).String(),
			Message: st.Err.Error(),
		}
	}
	return resp
}

// collection is the untyped view of one session loader that handlers
// dispatch to.
type collection interface {
	query(ctx context.Context, c *gin.Context) (bool, error)
	loadMore(ctx context.Context) error
	refresh(ctx context.Context) error
	state() StateResponse
	find(id string) (any, bool)
}

type typedCollection[T domain.Item, Q loader.Query] struct {
	loader *loader.Loader[T, Q]
	bind   func(c *gin.Context) (Q, error)
}

func (tc typedCollection[T, Q]) query(ctx context.Context, c *gin.Context) (bool, error) {
	q, err := tc.bind(c)
	if err != nil {
		return false, err
	}
	// Load failures are reported through the state.
	changed, _ := tc.loader.Query(ctx, q)
	return changed, nil
}

func (tc typedCollection[T, Q]) loadMore(ctx context.Context) error {
	return tc.loader.LoadMore(ctx)
}

func (tc typedCollection[T, Q]) refresh(ctx context.Context) error {
	return tc.loader.Refresh(ctx)
}

func (tc typedCollection[T, Q]) state() StateResponse {
	return newStateResponse(tc.loader.State())
}

func (tc typedCollection[T, Q]) find(id string) (any, bool) {
	return tc.loader.Find(id)
}

type destinationQueryRequest struct {
	CategoryID string `json:"category_id"`
	LocationID int    `json:"location_id" binding:"omitempty,min=0"`
	Location   string `json:"location"`
}

type searchQueryRequest struct {
	Term string `json:"term" binding:"max=200"`
}

func bindDestinationQuery(c *gin.Context) (domain.DestinationQuery, error) {
	var req destinationQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return domain.DestinationQuery{}, err
	}
	q := domain.DestinationQuery{CategoryID: req.CategoryID, LocationID: req.LocationID}
	if q.LocationID == 0 && strings.TrimSpace(req.Location) != "" {
		loc, ok := domain.LocationByName(req.Location)
		if !ok {
			return domain.DestinationQuery{}, fmt.Errorf("%w: %q", errUnknownLocation, req.Location)
		}
		q.LocationID = loc.ID
	}
	return q, nil
}

func bindNewsQuery(*gin.Context) (domain.NewsQuery, error) {
	return domain.NewsQuery{}, nil
}

func bindSearchQuery(c *gin.Context) (domain.SearchQuery, error) {
	var req searchQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return domain.SearchQuery{}, err
	}
	return domain.SearchQuery{Term: req.Term}, nil
}

// CollectionHandler drives the collections of a session.
type CollectionHandler struct {
	registry *session.Registry
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(registry *session.Registry) *CollectionHandler {
	return &CollectionHandler{registry: registry}
}

// resolve looks up the session and collection named by the path, writing
// a 404 when either is missing.
func (h *CollectionHandler) resolve(c *gin.Context) (collection, context.Context, bool) {
	s, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
		return nil, nil, false
	}

	name := c.Param("collection")
	var coll collection
	switch name {
	case session.CollectionDestinations:
		coll = typedCollection[domain.Destination, domain.DestinationQuery]{loader: s.Destinations, bind: bindDestinationQuery}
	case session.CollectionNews:
		coll = typedCollection[domain.News, domain.NewsQuery]{loader: s.News, bind: bindNewsQuery}
	case session.CollectionSearch:
		coll = typedCollection[domain.Destination, domain.SearchQuery]{loader: s.Search, bind: bindSearchQuery}
	default:
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown collection: " + name,
		})
		return nil, nil, false
	}

	ctx := logger.WithFields(c.Request.Context(), logger.Fields{
		logger.FieldSessionID:  s.ID,
		logger.FieldCollection: name,
	})
	return coll, ctx, true
}

// SetQuery handles PUT /api/v1/sessions/:id/:collection/query.
func (h *CollectionHandler) SetQuery(c *gin.Context) {
	coll, ctx, ok := h.resolve(c)
	if !ok {
		return
	}

	changed, err := coll.query(ctx, c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"state":   coll.state(),
	})
}

// LoadMore handles POST /api/v1/sessions/:id/:collection/more.
func (h *CollectionHandler) LoadMore(c *gin.Context) {
	coll, ctx, ok := h.resolve(c)
	if !ok {
		return
	}
	if err := coll.loadMore(ctx); err != nil {
		middleware.GetLogger(c).WithError(err).Debug("Load more failed")
	}
	c.JSON(http.StatusOK, coll.state())
}

// Refresh handles POST /api/v1/sessions/:id/:collection/refresh.
func (h *CollectionHandler) Refresh(c *gin.Context) {
	coll, ctx, ok := h.resolve(c)
	if !ok {
		return
	}
	if err := coll.refresh(ctx); err != nil {
		middleware.GetLogger(c).WithError(err).Debug("Refresh failed")
	}
	c.JSON(http.StatusOK, coll.state())
}

// State handles GET /api/v1/sessions/:id/:collection.
func (h *CollectionHandler) State(c *gin.Context) {
	coll, _, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, coll.state())
}

// GetItem handles GET /api/v1/sessions/:id/:collection/items/:item_id.
// Only items already loaded into the collection are found.
func (h *CollectionHandler) GetItem(c *gin.Context) {
	coll, _, ok := h.resolve(c)
	if !ok {
		return
	}

	item, found := coll.find(c.Param("item_id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found",
		})
		return
	}
	c.JSON(http.StatusOK, item)
}
